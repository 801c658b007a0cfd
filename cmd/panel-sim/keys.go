package main

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Start      key.Binding
	StartHold  key.Binding
	Mode       key.Binding
	ModeHold   key.Binding
	Default    key.Binding
	Mute       key.Binding
	Select     key.Binding
	Abort      key.Binding
	Left       key.Binding
	Right      key.Binding
	Alarm      key.Binding
	ShortFrame key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start click")),
		StartHold:  key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "start hold")),
		Mode:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode click")),
		ModeHold:   key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "mode hold")),
		Default:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "default")),
		Mute:       key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "mute")),
		Select:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Abort:      key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "select hold")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "turn left")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "turn right")),
		Alarm:      key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "toggle alarm")),
		ShortFrame: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "short telemetry")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Left, k.Right, k.Start, k.Mode, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Select, k.Abort, k.Left, k.Right},
		{k.Start, k.StartHold, k.Mode, k.ModeHold},
		{k.Default, k.Mute, k.Alarm, k.ShortFrame},
		{k.Help, k.Quit},
	}
}
