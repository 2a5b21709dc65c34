package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Back    key.Binding
	Quit    key.Binding
	Refresh key.Binding
	Filter  key.Binding
	New     key.Binding
	Edit    key.Binding
	Approve key.Binding
	Reject  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new project")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Approve: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "approve")),
		Reject:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reject")),
	}
}

type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Status key.Binding
	Cancel key.Binding
}

func defaultFormKeys() formKeyMap {
	return formKeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Status: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "toggle status")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// bindings returns the footer help for v.
func (k keyMap) bindings(v view) []key.Binding {
	switch v {
	case viewDashboard:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Quit}
	case viewProjects:
		return []key.Binding{k.Up, k.Down, k.New, k.Edit, k.Filter, k.Refresh, k.Back}
	case viewPending:
		return []key.Binding{k.Up, k.Down, k.Approve, k.Reject, k.Filter, k.Refresh, k.Back}
	default:
		return []key.Binding{k.Up, k.Down, k.Filter, k.Refresh, k.Back}
	}
}
