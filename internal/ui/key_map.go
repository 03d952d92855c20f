package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the player. List navigation keys belong to the list.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	playAll   key.Binding
	playPause key.Binding
	next      key.Binding
	prev      key.Binding
	forward   key.Binding
	rewind    key.Binding
	volUp     key.Binding
	volDown   key.Binding
	mute      key.Binding
	shuffle   key.Binding
	repeat    key.Binding
	help      key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play track")),
		playAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "play all")),
		playPause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		next:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		prev:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		forward:   key.NewBinding(key.WithKeys("."), key.WithHelp(".", "+5s")),
		rewind:    key.NewBinding(key.WithKeys(","), key.WithHelp(",", "-5s")),
		volUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		volDown:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		mute:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		shuffle:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		repeat:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
		help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.playPause, k.next, k.prev, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.playAll},
		{k.playPause, k.next, k.prev, k.forward, k.rewind},
		{k.volUp, k.volDown, k.mute},
		{k.shuffle, k.repeat, k.help, k.quit},
	}
}
