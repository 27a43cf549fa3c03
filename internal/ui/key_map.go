package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	add    key.Binding
	open   key.Binding
	start  key.Binding
	stop   key.Binding
	clear  key.Binding
	export key.Binding
	submit key.Binding
	back   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		open:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "import file")),
		start:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		stop:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		export: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "queue")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.add, k.start, k.stop, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down},
		{k.add, k.open, k.clear},
		{k.start, k.stop, k.export},
		{k.quit},
	}
}
