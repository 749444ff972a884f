package tui

import (
	"github.com/charmbracelet/lipgloss"

	"go-chi-calculator/internal/accumulator"
)

const (
	colorFunction = lipgloss.Color("205") // pink
	colorNumber   = lipgloss.Color("99")  // purple
	colorAdd      = lipgloss.Color("41")
	colorSubtract = lipgloss.Color("214")
	colorMultiply = lipgloss.Color("39")
	colorDivide   = lipgloss.Color("203")
	colorSubtle   = lipgloss.Color("240")
	colorWhite    = lipgloss.Color("231")
	colorPanel    = lipgloss.Color("236")
)

// buttonWidth is the cell width of a single keypad button.
const buttonWidth = 7

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	displayStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorPanel).
			Bold(true).
			Align(lipgloss.Right).
			Padding(0, 1)

	runningTotalStyle = displayStyle.
				Foreground(colorSubtle).
				Bold(false)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true).
			Width(buttonWidth).
			Align(lipgloss.Center).
			Margin(0, 1, 1, 0)

	pressedStyle = lipgloss.NewStyle().
			Underline(true).
			Reverse(true)

	helpStyle = lipgloss.NewStyle().Foreground(colorSubtle).MarginTop(1)
)

// buttonColor picks the background for a keypad label.
func buttonColor(in accumulator.Intent) lipgloss.Color {
	switch in.Kind {
	case accumulator.KindOperator:
		switch in.Operator {
		case accumulator.Add:
			return colorAdd
		case accumulator.Subtract:
			return colorSubtract
		case accumulator.Multiply:
			return colorMultiply
		default:
			return colorDivide
		}
	case accumulator.KindDigit, accumulator.KindDecimalPoint:
		return colorNumber
	default:
		return colorFunction
	}
}
