package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap lists the bindings that are not plain keypad keys. Digits, the
// decimal point and operator symbols are typed directly.
type KeyMap struct {
	Keypad    key.Binding
	Functions key.Binding
	Equals    key.Binding
	Clear     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Equals, km.Clear, km.Help, km.Quit}
}

func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Keypad, km.Functions},
		{km.Equals, km.Clear},
		{km.Help, km.Quit},
	}
}

// KeyMap implements help.KeyMap
var _ help.KeyMap = KeyMap{}

var DefaultKeyMap = KeyMap{
	Keypad: key.NewBinding(
		key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9", ".", "+", "-", "*", "/", "x"),
		key.WithHelp("0-9 . + - * /", "keypad"),
	),
	Functions: key.NewBinding(
		key.WithKeys("n", "%", "r", "s", "±", "√", "²"),
		key.WithHelp("n % r s", "± % √ x²"),
	),
	Equals: key.NewBinding(
		key.WithKeys("enter", "="),
		key.WithHelp("enter/=", "equals"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc", "c", "C"),
		key.WithHelp("esc/c", "clear"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
