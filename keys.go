//go:build !gui

package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle       key.Binding
	Back         key.Binding
	Forward      key.Binding
	BackFar      key.Binding
	ForwardFar   key.Binding
	PrevSentence key.Binding
	NextSentence key.Binding
	PrevChapter  key.Binding
	NextChapter  key.Binding
	Faster       key.Binding
	Slower       key.Binding
	MuchFaster   key.Binding
	MuchSlower   key.Binding
	Skip         key.Binding
	Restart      key.Binding
	Like         key.Binding
	Comment      key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/play")),
		Back:         key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "back 5")),
		Forward:      key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "ahead 5")),
		BackFar:      key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("⇧←", "back 10")),
		ForwardFar:   key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("⇧→", "ahead 10")),
		PrevSentence: key.NewBinding(key.WithKeys("("), key.WithHelp("(", "prev sentence")),
		NextSentence: key.NewBinding(key.WithKeys(")"), key.WithHelp(")", "next sentence")),
		PrevChapter:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev chapter")),
		NextChapter:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next chapter")),
		Faster:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "+25 wpm")),
		Slower:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "-25 wpm")),
		MuchFaster:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "+50 wpm")),
		MuchSlower:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "-50 wpm")),
		Skip:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "skip image")),
		Restart:      key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "restart")),
		Like:         key.NewBinding(key.WithKeys("l", "L"), key.WithHelp("l", "like")),
		Comment:      key.NewBinding(key.WithKeys("c", "C"), key.WithHelp("c", "comment")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:         key.NewBinding(key.WithKeys("q", "Q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Back, k.Forward, k.Faster, k.Slower, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Skip, k.Restart, k.Quit},
		{k.Back, k.Forward, k.BackFar, k.ForwardFar},
		{k.PrevSentence, k.NextSentence, k.PrevChapter, k.NextChapter},
		{k.Faster, k.Slower, k.MuchFaster, k.MuchSlower},
	}
}

// finishedHelp is shown on the summary screen.
type finishedHelp struct{ keyMap }

func (k finishedHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Like, k.Comment, k.Restart, k.Quit}
}

func (k finishedHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
