package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add     key.Binding
	Edit    key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Photos  key.Binding
	Gallery key.Binding
	Copy    key.Binding
	Refresh key.Binding
	Quit    key.Binding

	// modal keys
	Submit   key.Binding
	NextName key.Binding
	PrevName key.Binding
	Upload   key.Binding
	Clear    key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
	Close    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "done/undo")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Photos:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "add photos")),
		Gallery: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "gallery")),
		Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		NextName: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next name")),
		PrevName: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev name")),
		Upload:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear selection")),
		Confirm:  key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "yes")),
		Cancel:   key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Toggle, k.Delete, k.Photos, k.Gallery}
}

func (k keyMap) FullHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Toggle, k.Delete, k.Photos, k.Gallery, k.Copy, k.Refresh}
}
