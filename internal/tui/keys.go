package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Edit   key.Binding
	Delete key.Binding
	Add    key.Binding
	Reload key.Binding
	Quit   key.Binding

	Submit key.Binding
	Next   key.Binding
	Prev   key.Binding
	Back   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Add:    key.NewBinding(key.WithKeys("a", "tab"), key.WithHelp("a/tab", "form")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "list")),
	}
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Delete, k.Add, k.Reload}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Next, k.Back}
}
