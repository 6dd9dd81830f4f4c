// Package tui is the interactive dream board: a splash on first run in a
// terminal session, then the card grid with its modals and toasts.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/dreams/internal/action"
	"github.com/idilsaglam/dreams/internal/logger"
	"github.com/idilsaglam/dreams/internal/model"
	"github.com/idilsaglam/dreams/internal/notify"
	"github.com/idilsaglam/dreams/internal/render"
	"github.com/idilsaglam/dreams/internal/session"
)

type SplashMode int

const (
	// SplashAuto shows the splash once per terminal session.
	SplashAuto SplashMode = iota
	SplashForce
	SplashSkip
)

type Options struct {
	Runner  *action.Runner
	Notes   *notify.Center
	Session *session.Store // nil disables splash persistence
	Splash  SplashMode
	Theme   string

	// PhotoURL turns a stored photo path into a link; defaults to "/"+path.
	PhotoURL render.URLFunc
	// PhotoDir is where the upload file picker starts.
	PhotoDir string
	// Copy writes to the system clipboard; defaults to atotto/clipboard.
	Copy func(string) error
}

type phase int

const (
	phaseSplash phase = iota
	phaseRevealing
	phaseMain
)

type App struct {
	ctx      context.Context
	runner   *action.Runner
	notes    *notify.Center
	session  *session.Store
	photoURL render.URLFunc
	photoDir string
	copy     func(string) error
	keys     keyMap
	st       styles
	mdStyle  string

	phase         phase
	width, height int

	list   list.Model
	loaded bool
	// loadFailed is set when the last items load failed; a board that never
	// loaded then shows a retry hint instead of the empty state.
	loadFailed bool
	stats      render.Stats
	hasStats   bool
	bar        progress.Model
	spin       spinner.Model

	// inflight mirrors the runner's guard so controls render as busy the
	// moment they are triggered.
	inflight map[string]bool
	// scheduled holds toast ids that already have their timers running.
	scheduled map[uint64]bool

	modal   modalKind
	form    formState
	photo   photoState
	gallery galleryState
	confirm confirmState
}

func New(ctx context.Context, opt Options) App {
	if opt.PhotoURL == nil {
		opt.PhotoURL = render.RootRelative
	}
	if opt.Copy == nil {
		opt.Copy = clipboard.WriteAll
	}
	st := newStyles(opt.Theme)
	m := App{
		ctx:       ctx,
		runner:    opt.Runner,
		notes:     opt.Notes,
		session:   opt.Session,
		photoURL:  opt.PhotoURL,
		photoDir:  opt.PhotoDir,
		copy:      opt.Copy,
		keys:      defaultKeys(),
		st:        st,
		mdStyle:   splashStyle(opt.Theme),
		width:     80,
		height:    24,
		inflight:  map[string]bool{},
		scheduled: map[uint64]bool{},
		form:      formState{desc: newDescriptionInput(), nameIdx: -1},
	}

	m.phase = phaseMain
	switch opt.Splash {
	case SplashForce:
		m.phase = phaseSplash
	case SplashAuto:
		if m.session != nil && !m.session.SplashSeen() {
			m.phase = phaseSplash
		}
	}

	d := cardDelegate{st: st, busy: m.cardBusy}
	l := list.New(nil, d, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("dream", "dreams")
	l.SetFilteringEnabled(true)
	l.FilterInput.Prompt = "/ "
	l.Styles.PaginationStyle = st.help
	l.Styles.NoItems = st.muted
	// Keys the board uses for actions are removed from list navigation.
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("right", "l", "pgdown", "f"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("left", "h", "pgup", "b"))
	l.KeyMap.GoToStart = key.NewBinding(key.WithKeys("home"))
	l.KeyMap.GoToEnd = key.NewBinding(key.WithKeys("end", "G"))
	l.KeyMap.Quit.SetEnabled(false)
	m.list = l

	m.bar = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(st.accent))
	m.resize()
	return m
}

// cardBusy reads the shared inflight map; the delegate holds it by reference.
func (m App) cardBusy(id int64) bool {
	return m.inflight[action.ToggleKey(id)] || m.inflight[action.DeleteKey(id)]
}

// Run starts the program on the alternate screen and blocks until it quits.
func Run(ctx context.Context, opt Options) error {
	p := tea.NewProgram(New(ctx, opt), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (m App) Init() tea.Cmd {
	if m.phase == phaseSplash {
		return nil
	}
	return m.load()
}

func (m App) load() tea.Cmd {
	l := m.runner.Loader()
	return tea.Batch(loadItemsCmd(m.ctx, l), loadStatsCmd(m.ctx, l), m.spin.Tick)
}

// dispatch runs fn off the update loop. A key already in flight is dropped.
func (m *App) dispatch(o op, k string, id int64, fn func() action.Result) tea.Cmd {
	if m.inflight[k] {
		return nil
	}
	m.inflight[k] = true
	return func() tea.Msg { return actionMsg{op: o, key: k, id: id, res: fn()} }
}

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if t := next.scheduleToasts(); t != nil {
		cmd = tea.Batch(cmd, t)
	}
	return next, cmd
}

func (m App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.phase {
		case phaseSplash:
			if msg.Type == tea.KeyEnter {
				return m.dismissSplash()
			}
			return m, nil
		case phaseRevealing:
			return m, nil
		}

	case revealMsg:
		m.phase = phaseMain
		return m, m.load()

	case itemsMsg:
		if msg.err != nil {
			m.loadFailed = true
			return m, nil
		}
		m.setItems(msg.items)
		return m, nil

	case statsMsg:
		if msg.err == nil {
			m.setStats(msg.stats)
		}
		return m, nil

	case actionMsg:
		return m.applyResult(msg)

	case uploadProgressMsg:
		if m.modal == modalPhoto {
			m.photo.done, m.photo.total = msg.done, msg.total
		}
		return m, waitProgress(msg.ch)

	case toastPhaseMsg:
		return m, nil

	case toastExpireMsg:
		m.notes.Remove(msg.id)
		delete(m.scheduled, msg.id)
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			logger.LogWarn("clipboard: %v", msg.err)
			m.notes.Error("Could not copy to clipboard")
		} else {
			m.notes.Success("Copied to clipboard 📋")
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.bar.Update(msg)
		if p, ok := pm.(progress.Model); ok {
			m.bar = p
		}
		return m, cmd
	}

	if m.phase != phaseMain {
		return m, nil
	}

	switch m.modal {
	case modalAdd, modalEdit:
		return m.updateForm(msg)
	case modalPhoto:
		return m.updatePhoto(msg)
	case modalGallery:
		return m.updateGallery(msg)
	case modalConfirm:
		return m.updateConfirm(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if next, cmd, handled := m.handleBoardKey(k); handled {
			return next, cmd
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m App) dismissSplash() (App, tea.Cmd) {
	if m.session != nil {
		if err := m.session.MarkSplashSeen(); err != nil {
			logger.LogWarn("saving splash state: %v", err)
		}
	}
	m.phase = phaseRevealing
	return m, revealCmd()
}

func (m App) selected() (render.Card, bool) {
	it, ok := m.list.SelectedItem().(cardItem)
	if !ok {
		return render.Card{}, false
	}
	return it.card, true
}

func (m App) handleBoardKey(k tea.KeyMsg) (App, tea.Cmd, bool) {
	switch {
	case key.Matches(k, m.keys.Quit):
		return m, tea.Quit, true
	case key.Matches(k, m.keys.Add):
		cmd := m.openAdd()
		return m, cmd, true
	case key.Matches(k, m.keys.Refresh):
		m.loadFailed = false
		return m, m.load(), true
	}

	c, ok := m.selected()
	if !ok {
		return m, nil, false
	}
	switch {
	case key.Matches(k, m.keys.Edit):
		cmd := m.openEdit(c.ID)
		return m, cmd, true
	case key.Matches(k, m.keys.Toggle):
		cmd := m.toggle(c)
		return m, cmd, true
	case key.Matches(k, m.keys.Delete):
		id := c.ID
		m.openConfirm("Are you sure you want to delete this dream?", modalNone, func(a *App) tea.Cmd {
			ctx, r := a.ctx, a.runner
			return a.dispatch(opDelete, action.DeleteKey(id), id, func() action.Result {
				return r.DeleteItem(ctx, id)
			})
		})
		return m, nil, true
	case key.Matches(k, m.keys.Photos):
		cmd := m.openPhoto(c.ID)
		return m, cmd, true
	case key.Matches(k, m.keys.Gallery):
		m.openGallery(c.ID)
		return m, nil, true
	case key.Matches(k, m.keys.Copy):
		return m, copyCmd(m.copy, c.Description), true
	}
	return m, nil, false
}

// toggle flips the checkbox right away, like a browser checkbox, and sends
// the new state. A failure puts the old state back.
func (m *App) toggle(c render.Card) tea.Cmd {
	k := action.ToggleKey(c.ID)
	if m.inflight[k] {
		return nil
	}
	completed := !c.Completed
	m.setCardCompleted(c.ID, completed)
	ctx, r, id := m.ctx, m.runner, c.ID
	return m.dispatch(opToggle, k, id, func() action.Result {
		return r.ToggleComplete(ctx, id, completed)
	})
}

func (m *App) setCardCompleted(id int64, completed bool) {
	for i, li := range m.list.Items() {
		ci, ok := li.(cardItem)
		if !ok || ci.card.ID != id {
			continue
		}
		ci.card.Completed = completed
		m.list.SetItem(i, ci)
		return
	}
}

func (m App) applyResult(msg actionMsg) (App, tea.Cmd) {
	delete(m.inflight, msg.key)
	res := msg.res

	if msg.op == opUpload {
		m.photo.uploading = false
		m.photo.done, m.photo.total = 0, 0
	}
	if errors.Is(res.Err, action.ErrBusy) {
		return m, nil
	}
	if res.Toast == nil && res.Err != nil && (msg.op == opAdd || msg.op == opEdit) {
		// Local validation failure; nothing was sent.
		m.form.err = formError(res.Err)
		return m, nil
	}
	if res.RollbackChecked != nil {
		m.setCardCompleted(msg.id, *res.RollbackChecked)
	}
	if res.Items != nil {
		m.setItems(res.Items)
	}
	if res.Stats != nil {
		m.setStats(*res.Stats)
	}
	if res.CloseModal {
		switch {
		case msg.op == opAdd && m.modal == modalAdd,
			msg.op == opEdit && m.modal == modalEdit && m.form.itemID == msg.id,
			msg.op == opUpload && m.modal == modalPhoto && m.photo.itemID == msg.id:
			m.closeModal()
		}
	}
	if m.modal == modalGallery {
		it, ok := m.runner.Loader().Items().Find(m.gallery.itemID)
		switch {
		case !ok || len(it.Photos) == 0:
			m.closeModal()
		case m.gallery.cursor >= len(it.Photos):
			m.gallery.cursor = len(it.Photos) - 1
		}
	}
	return m, nil
}

func (m *App) setItems(items []model.Item) {
	m.loaded, m.loadFailed = true, false
	cards := render.Cards(items, m.photoURL, time.Local)
	li := make([]list.Item, len(cards))
	for i, c := range cards {
		li[i] = cardItem{card: c}
	}
	m.list.SetItems(li)
}

func (m *App) setStats(st model.Stats) {
	m.stats = render.StatsView(st)
	m.hasStats = true
}

// scheduleToasts starts the display and exit timers for toasts that appeared
// since the last update, wherever they were raised.
func (m App) scheduleToasts() tea.Cmd {
	if m.notes == nil {
		return nil
	}
	now := m.notes.Now()
	var cmds []tea.Cmd
	for _, t := range m.notes.Visible() {
		if m.scheduled[t.ID] {
			continue
		}
		m.scheduled[t.ID] = true
		id := t.ID
		leave := t.Created.Add(notify.DisplayFor).Sub(now)
		gone := t.Created.Add(notify.DisplayFor + notify.ExitFor).Sub(now)
		cmds = append(cmds,
			tea.Tick(leave, func(time.Time) tea.Msg { return toastPhaseMsg{id: id} }),
			tea.Tick(gone, func(time.Time) tea.Msg { return toastExpireMsg{id: id} }),
		)
	}
	return tea.Batch(cmds...)
}

const headerHeight = 4

func (m *App) resize() {
	w := m.width - 2
	if w < 20 {
		w = 20
	}
	h := m.height - headerHeight - 2
	if h < 5 {
		h = 5
	}
	m.list.SetSize(w, h)
	m.bar.Width = min(w-8, 60)
}

func (m App) View() string {
	switch m.phase {
	case phaseSplash:
		box := m.st.modal.Render(renderSplash(min(m.width-8, 72), m.mdStyle))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	case phaseRevealing:
		return ""
	}

	header := m.headerView()
	var body string
	switch {
	case m.modal != modalNone:
		body = lipgloss.Place(m.width, m.height-headerHeight-2, lipgloss.Center, lipgloss.Center, m.modalView())
	case !m.loaded && m.loadFailed:
		body = "\n" + m.st.muted.Render("  Couldn't load dreams. Press r to retry.")
	case !m.loaded:
		body = "\n  " + m.spin.View() + " Loading dreams..."
	case len(m.list.Items()) == 0:
		body = "\n" + m.st.muted.Render("  No dreams yet. Add the first one! (press a)")
	default:
		body = m.list.View()
	}

	out := header + "\n" + body
	if t := m.toastView(); t != "" {
		out += "\n" + t
	}
	help := m.st.help.Render(helpLine(m.keys.ShortHelp()) + " · / filter · q quit")
	return out + "\n" + help
}

func (m App) headerView() string {
	title := m.st.title.Render("Our Dreams ✨")
	if !m.hasStats {
		return title + "\n\n\n"
	}
	s := m.stats
	counters := fmt.Sprintf("%s %s   %s %s   %s %s   %s",
		m.st.accent.Render("Total"), s.Total,
		m.st.pending.Render("Pending"), s.Pending,
		m.st.success.Render("Completed"), s.Completed,
		m.st.title.Render(s.Percent),
	)
	return title + "\n" + counters + "\n" + m.bar.ViewAs(s.Fraction) + "\n"
}

func (m App) toastView() string {
	if m.notes == nil {
		return ""
	}
	now := m.notes.Now()
	var lines []string
	for _, t := range m.notes.Visible() {
		style := m.st.toastOK
		if t.Kind == notify.Error {
			style = m.st.toastErr
		}
		if t.Leaving(now) {
			style = m.st.toastLeaving
		}
		lines = append(lines, style.Render(t.Message))
	}
	if len(lines) == 0 {
		return ""
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, lipgloss.JoinVertical(lipgloss.Right, lines...))
}

func helpLine(bs []key.Binding) string {
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
