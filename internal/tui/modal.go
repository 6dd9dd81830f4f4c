package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/dreams/internal/action"
	"github.com/idilsaglam/dreams/internal/model"
	"github.com/idilsaglam/dreams/internal/render"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalAdd
	modalEdit
	modalPhoto
	modalGallery
	modalConfirm
)

// maxPreviewFiles is how many selected file names the upload modal lists.
const maxPreviewFiles = 6

var photoTypes = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

type formState struct {
	itemID  int64 // edit only
	desc    textarea.Model
	nameIdx int // -1 until a chip is picked
	err     string
}

type photoState struct {
	itemID    int64
	picker    filepicker.Model
	selected  []string
	uploading bool
	done      int
	total     int
}

type galleryState struct {
	itemID int64
	cursor int
}

type confirmState struct {
	prompt string
	// run dispatches the confirmed action; back is the modal to return to.
	run  func(m *App) tea.Cmd
	back modalKind
}

func newDescriptionInput() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "What do you dream of doing?"
	ta.CharLimit = model.MaxDescriptionLen
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.SetWidth(56)
	return ta
}

// openAdd resets the form: blank text, no name chosen, counter at 0/500.
func (m *App) openAdd() tea.Cmd {
	m.form = formState{desc: newDescriptionInput(), nameIdx: -1}
	m.modal = modalAdd
	return m.form.desc.Focus()
}

// openEdit seeds the form from the cache. Unknown ids are ignored.
func (m *App) openEdit(id int64) tea.Cmd {
	it, ok := m.runner.Loader().Items().Find(id)
	if !ok {
		return nil
	}
	m.form = formState{itemID: id, desc: newDescriptionInput(), nameIdx: m.runner.Names().Index(it.AddedBy)}
	m.form.desc.SetValue(it.Description)
	m.form.desc.CursorEnd()
	m.modal = modalEdit
	return m.form.desc.Focus()
}

func (m *App) openPhoto(id int64) tea.Cmd {
	it, ok := m.runner.Loader().Items().Find(id)
	if !ok || !it.IsCompleted {
		return nil
	}
	fp := filepicker.New()
	fp.AllowedTypes = photoTypes
	fp.FileAllowed = true
	fp.DirAllowed = false
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.AutoHeight = false
	fp.Height = 8
	fp.KeyMap.Back = key.NewBinding(key.WithKeys("h", "backspace", "left"), key.WithHelp("h", "up"))
	fp.Styles.Selected = m.st.accent.Bold(true)
	fp.Styles.Cursor = m.st.accent
	fp.Styles.DisabledFile = m.st.muted
	if m.photoDir != "" {
		fp.CurrentDirectory = m.photoDir
	}
	m.photo = photoState{itemID: id, picker: fp}
	m.modal = modalPhoto
	return fp.Init()
}

func (m *App) openGallery(id int64) {
	it, ok := m.runner.Loader().Items().Find(id)
	if !ok || len(it.Photos) == 0 {
		return
	}
	m.gallery = galleryState{itemID: id}
	m.modal = modalGallery
}

func (m *App) openConfirm(prompt string, back modalKind, run func(m *App) tea.Cmd) {
	m.confirm = confirmState{prompt: prompt, run: run, back: back}
	m.modal = modalConfirm
}

func (m *App) closeModal() {
	m.modal = modalNone
	m.form.desc.Blur()
}

// toggleSelected adds or removes a file from the upload selection.
func (p *photoState) toggleSelected(path string) {
	for i, s := range p.selected {
		if s == path {
			p.selected = append(p.selected[:i], p.selected[i+1:]...)
			return
		}
	}
	p.selected = append(p.selected, path)
}

func (m App) updateForm(msg tea.Msg) (App, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		names := m.runner.Names()
		switch {
		case key.Matches(k, m.keys.Close):
			m.closeModal()
			return m, nil
		case key.Matches(k, m.keys.NextName):
			if len(names) > 0 {
				m.form.nameIdx = (m.form.nameIdx + 1) % len(names)
			}
			return m, nil
		case key.Matches(k, m.keys.PrevName):
			if len(names) > 0 {
				m.form.nameIdx = (m.form.nameIdx - 1 + len(names)) % len(names)
			}
			return m, nil
		case key.Matches(k, m.keys.Submit):
			return m.submitForm()
		}
	}
	var cmd tea.Cmd
	m.form.desc, cmd = m.form.desc.Update(msg)
	m.form.err = ""
	return m, cmd
}

func (m App) submitForm() (App, tea.Cmd) {
	names := m.runner.Names()
	if _, err := model.ValidateDescription(m.form.desc.Value()); err != nil {
		m.form.err = formError(err)
		return m, nil
	}
	if m.form.nameIdx < 0 || m.form.nameIdx >= len(names) {
		m.form.err = "Pick who is adding this dream (tab)"
		return m, nil
	}
	desc, by := m.form.desc.Value(), names[m.form.nameIdx]
	ctx, r := m.ctx, m.runner
	if m.modal == modalEdit {
		id := m.form.itemID
		return m, m.dispatch(opEdit, action.EditKey(id), id, func() action.Result {
			return r.UpdateItem(ctx, id, desc, by)
		})
	}
	return m, m.dispatch(opAdd, action.AddKey(), 0, func() action.Result {
		return r.AddItem(ctx, desc, by)
	})
}

func formError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrEmptyDescription):
		return "Please describe your dream"
	case errors.Is(err, model.ErrDescriptionTooLong):
		return fmt.Sprintf("Keep it under %d characters", model.MaxDescriptionLen)
	}
	return err.Error()
}

func (m App) updatePhoto(msg tea.Msg) (App, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.Close):
			m.closeModal()
			return m, nil
		case key.Matches(k, m.keys.Upload):
			return m.submitUpload()
		case key.Matches(k, m.keys.Clear):
			m.photo.selected = nil
			return m, nil
		}
	}
	if m.photo.uploading {
		return m, nil
	}
	var cmd tea.Cmd
	m.photo.picker, cmd = m.photo.picker.Update(msg)
	if ok, path := m.photo.picker.DidSelectFile(msg); ok {
		m.photo.toggleSelected(path)
	}
	return m, cmd
}

func (m App) submitUpload() (App, tea.Cmd) {
	if m.photo.uploading {
		return m, nil
	}
	id := m.photo.itemID
	files := append([]string(nil), m.photo.selected...)
	k := action.UploadKey(id)
	if len(files) == 0 {
		// No request goes out; the runner only raises the toast.
		m.runner.UploadPhotos(m.ctx, id, nil, nil)
		return m, nil
	}
	if m.inflight[k] {
		return m, nil
	}
	m.photo.uploading = true
	m.photo.done, m.photo.total = 0, len(files)

	ch := make(chan uploadProgressMsg, len(files))
	ctx, r := m.ctx, m.runner
	run := m.dispatch(opUpload, k, id, func() action.Result {
		defer close(ch)
		return r.UploadPhotos(ctx, id, files, func(done, total int) {
			ch <- uploadProgressMsg{done: done, total: total}
		})
	})
	return m, tea.Batch(run, waitProgress(ch))
}

func (m App) updateGallery(msg tea.Msg) (App, tea.Cmd) {
	it, ok := m.runner.Loader().Items().Find(m.gallery.itemID)
	if !ok || len(it.Photos) == 0 {
		m.closeModal()
		return m, nil
	}
	if m.gallery.cursor >= len(it.Photos) {
		m.gallery.cursor = len(it.Photos) - 1
	}
	k, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Close):
		m.closeModal()
	case k.String() == "up" || k.String() == "k":
		if m.gallery.cursor > 0 {
			m.gallery.cursor--
		}
	case k.String() == "down" || k.String() == "j":
		if m.gallery.cursor < len(it.Photos)-1 {
			m.gallery.cursor++
		}
	case key.Matches(k, m.keys.Copy):
		return m, copyCmd(m.copy, m.photoURL(it.Photos[m.gallery.cursor].PhotoPath))
	case key.Matches(k, m.keys.Delete):
		photoID := it.Photos[m.gallery.cursor].ID
		m.openConfirm("Delete this photo?", modalGallery, func(a *App) tea.Cmd {
			ctx, r := a.ctx, a.runner
			return a.dispatch(opPhotoDelete, action.PhotoDeleteKey(photoID), photoID, func() action.Result {
				return r.DeletePhoto(ctx, photoID)
			})
		})
	}
	return m, nil
}

func (m App) updateConfirm(msg tea.Msg) (App, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Confirm):
		run := m.confirm.run
		m.modal = m.confirm.back
		m.confirm = confirmState{}
		if run == nil {
			return m, nil
		}
		cmd := run(&m)
		return m, cmd
	case key.Matches(k, m.keys.Cancel):
		m.modal = m.confirm.back
		m.confirm = confirmState{}
	}
	return m, nil
}

// ---- views ----

func (m App) modalView() string {
	var body string
	switch m.modal {
	case modalAdd, modalEdit:
		body = m.formView()
	case modalPhoto:
		body = m.photoView()
	case modalGallery:
		body = m.galleryView()
	case modalConfirm:
		body = m.confirmView()
	default:
		return ""
	}
	return m.st.modal.Render(body)
}

func (m App) formView() string {
	title, submit, busyLabel := "Add a Dream ✨", "Add Dream", "Adding..."
	k := action.AddKey()
	if m.modal == modalEdit {
		title, submit, busyLabel = "Edit Dream ✏️", "Save Changes", "Saving..."
		k = action.EditKey(m.form.itemID)
	}
	var b strings.Builder
	b.WriteString(m.st.title.Render(title) + "\n\n")
	b.WriteString(m.form.desc.View() + "\n")
	b.WriteString(m.st.muted.Render(render.CharCount(m.form.desc.Value())) + "\n\n")

	chips := make([]string, 0, len(m.runner.Names()))
	for i, n := range m.runner.Names() {
		if i == m.form.nameIdx {
			chips = append(chips, m.st.chipActive.Render(n))
		} else {
			chips = append(chips, m.st.chip.Render(n))
		}
	}
	b.WriteString("Added by  " + lipgloss.JoinHorizontal(lipgloss.Top, chips...) + "\n")
	if m.form.err != "" {
		b.WriteString("\n" + m.st.errorText.Render(m.form.err) + "\n")
	}
	b.WriteString("\n")
	if m.inflight[k] {
		b.WriteString(m.spin.View() + " " + busyLabel)
	} else {
		b.WriteString(m.st.help.Render("ctrl+s " + submit + " · tab choose name · esc cancel"))
	}
	return b.String()
}

func (m App) photoView() string {
	var b strings.Builder
	b.WriteString(m.st.title.Render("Add Photos 📸") + "\n\n")
	if !m.photo.uploading {
		b.WriteString(m.photo.picker.View() + "\n")
	}
	if len(m.photo.selected) > 0 {
		names := make([]string, len(m.photo.selected))
		for i, p := range m.photo.selected {
			names[i] = filepath.Base(p)
		}
		shown, more := render.PreviewNames(names, maxPreviewFiles)
		b.WriteString(m.st.accent.Render(fmt.Sprintf("%d selected", len(names))) + "\n")
		for _, n := range shown {
			b.WriteString("  • " + n + "\n")
		}
		if more != "" {
			b.WriteString("  " + m.st.muted.Render(more) + "\n")
		}
	}
	b.WriteString("\n")
	switch {
	case m.photo.uploading && m.photo.done > 0:
		b.WriteString(fmt.Sprintf("%s Uploading %d/%d...", m.spin.View(), m.photo.done, m.photo.total))
	case m.photo.uploading:
		b.WriteString(m.spin.View() + " Uploading...")
	default:
		b.WriteString(m.st.help.Render("enter select/unselect · u upload · c clear · esc cancel"))
	}
	return b.String()
}

func (m App) galleryView() string {
	it, ok := m.runner.Loader().Items().Find(m.gallery.itemID)
	if !ok || len(it.Photos) == 0 {
		return m.st.muted.Render("No photos")
	}
	var b strings.Builder
	b.WriteString(m.st.title.Render("Memories 📸") + "  " + m.st.muted.Render(render.PhotoCountLabel(len(it.Photos))) + "\n\n")
	for i, p := range it.Photos {
		line := m.photoURL(p.PhotoPath)
		if p.UploadedAt != nil && !p.UploadedAt.IsZero() {
			line += m.st.muted.Render("  " + p.UploadedAt.Format("Jan 2, 2006"))
		}
		if m.inflight[action.PhotoDeleteKey(p.ID)] {
			line += m.st.muted.Render("  Deleting...")
		}
		if i == m.gallery.cursor {
			b.WriteString(m.st.accent.Render("▌ ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n" + m.st.help.Render("↑/↓ move · y copy link · d delete · esc close"))
	return b.String()
}

func (m App) confirmView() string {
	return m.st.title.Render(m.confirm.prompt) + "\n\n" + m.st.help.Render("y/enter yes · n/esc no")
}
