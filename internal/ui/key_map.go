package ui

import "github.com/charmbracelet/bubbles/key"

// chipKeys are the shortcuts for the filter chips, in chip order.
var chipKeys = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "-"}

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	left      key.Binding
	right     key.Binding
	search    key.Binding
	submit    key.Binding
	focus     key.Binding
	chip      key.Binding
	open      key.Binding
	back      key.Binding
	watchlist key.Binding
	save      key.Binding
	retry     key.Binding
	browse    key.Binding
	quit      key.Binding
	forceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev genre")),
		right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next genre")),
		search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
		chip:      key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "toggle genre")),
		open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:      key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "close")),
		watchlist: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "watchlist")),
		save:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add/remove")),
		retry:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		browse:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open on TMDB")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.watchlist, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right},
		{k.search, k.focus, k.chip, k.open, k.back},
		{k.watchlist, k.save, k.retry, k.browse, k.quit},
	}
}
