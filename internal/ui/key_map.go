package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the dashboard.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	refresh  key.Binding
	download key.Binding
	plot     key.Binding
	delete   key.Binding
	yes      key.Binding
	no       key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		download: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download result")),
		plot:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "download plot")),
		delete:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.refresh, k.download, k.delete, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.refresh},
		{k.download, k.plot, k.delete},
		{k.yes, k.no, k.quit},
	}
}
