// Package tui renders a calculator keypad in the terminal with Bubble Tea.
// All arithmetic is delegated to an accumulator; this package only maps
// keys to intents and draws the result.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-chi-calculator/internal/accumulator"
)

// keypad is the button grid, top to bottom, starting with the function row.
var keypad = [][]accumulator.Intent{
	{accumulator.NegateIntent(), accumulator.PercentIntent(), accumulator.SqrtIntent(), accumulator.SquareIntent()},
	{accumulator.ClearIntent(), accumulator.Choose(accumulator.Divide), accumulator.Choose(accumulator.Multiply), accumulator.Choose(accumulator.Subtract)},
	{accumulator.Digit(7), accumulator.Digit(8), accumulator.Digit(9), accumulator.Choose(accumulator.Add)},
	{accumulator.Digit(4), accumulator.Digit(5), accumulator.Digit(6), accumulator.DecimalPoint()},
	{accumulator.Digit(1), accumulator.Digit(2), accumulator.Digit(3), accumulator.EqualsIntent()},
	{accumulator.Digit(0)},
}

// panelWidth spans four buttons and the gaps between them.
const panelWidth = 4*(buttonWidth+1) - 1

type Model struct {
	acc     *accumulator.Accumulator
	keys    KeyMap
	help    help.Model
	pressed string
}

func New() Model {
	return NewWithAccumulator(accumulator.New())
}

// NewWithAccumulator renders an existing accumulator, e.g. one primed by the
// CLI.
func NewWithAccumulator(acc *accumulator.Accumulator) Model {
	return Model{
		acc:  acc,
		keys: DefaultKeyMap,
		help: help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Equals):
			m.press(accumulator.EqualsIntent())
		case key.Matches(msg, m.keys.Clear):
			m.press(accumulator.ClearIntent())
		case msg.Type == tea.KeyRunes:
			// pasted input arrives as several runes in one message
			for _, r := range msg.Runes {
				if in, ok := accumulator.ParseKey(r); ok {
					m.press(in)
				}
			}
		}
	}
	return m, nil
}

func (m *Model) press(in accumulator.Intent) {
	m.acc.Dispatch(in)
	m.pressed = in.Key()
}

// Display returns the main display line without styling.
func (m Model) Display() string {
	return m.acc.Display()
}

func (m Model) View() string {
	running := m.acc.RunningTotal()
	if running == "" {
		running = " "
	}

	rows := []string{
		runningTotalStyle.Width(panelWidth).Render(fit(running, panelWidth-2)),
		displayStyle.Width(panelWidth).Render(fit(m.acc.Display(), panelWidth-2)),
		"",
	}

	for _, row := range keypad {
		buttons := make([]string, 0, len(row))
		for _, in := range row {
			buttons = append(buttons, m.renderButton(in))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	}

	rows = append(rows, helpStyle.Render(m.help.View(m.keys)))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderButton(in accumulator.Intent) string {
	style := buttonStyle.Background(buttonColor(in))

	if in == accumulator.Digit(0) {
		style = style.Width(2*buttonWidth + 1)
	}
	if in.Key() == m.pressed {
		style = style.Inherit(pressedStyle)
	}
	return style.Render(buttonLabel(in))
}

func buttonLabel(in accumulator.Intent) string {
	if in.Kind == accumulator.KindSquare {
		return "x²"
	}
	return in.Key()
}

// fit keeps the rightmost digits of s when it is wider than width, which is
// where a calculator display truncates.
func fit(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return "…" + string(r[len(r)-width+1:])
}

// Run starts the keypad on the alternate screen and blocks until the user
// quits.
func Run(acc *accumulator.Accumulator) error {
	_, err := tea.NewProgram(NewWithAccumulator(acc), tea.WithAltScreen()).Run()
	return err
}
