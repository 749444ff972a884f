// Package accumulator implements the four-function running accumulator that
// sits behind every calculator surface (HTTP sessions, the terminal keypad and
// the MCP tools). Operators are applied strictly left to right as they are
// chosen; there is no precedence.
package accumulator

import (
	"math"
	"strings"
)

// Operator is one of the four binary operations.
type Operator string

const (
	Add      Operator = "add"
	Subtract Operator = "subtract"
	Multiply Operator = "multiply"
	Divide   Operator = "divide"
)

// Valid reports whether op is one of the four known operators.
func (op Operator) Valid() bool {
	switch op {
	case Add, Subtract, Multiply, Divide:
		return true
	}
	return false
}

// Symbol returns the keypad glyph for op.
func (op Operator) Symbol() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "−"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	}
	return ""
}

// Apply computes a op b. Division by zero is not rejected and yields the
// IEEE infinity or NaN. An unknown operator returns b unchanged.
func Apply(op Operator, a, b float64) float64 {
	switch op {
	case Add:
		return a + b
	case Subtract:
		return a - b
	case Multiply:
		return a * b
	case Divide:
		return a / b
	default:
		return b
	}
}

// State is a snapshot of the calculator.
type State struct {
	Display            string
	PendingValue       float64
	HasPendingValue    bool
	PendingOperator    Operator // empty when no operation is pending
	AwaitingFreshEntry bool
}

// RunningTotal renders the pending operation, e.g. "12 ×", or "" when no
// operation is pending.
func (s State) RunningTotal() string {
	if !s.HasPendingValue || s.PendingOperator == "" {
		return ""
	}
	return FormatResult(s.PendingValue) + " " + s.PendingOperator.Symbol()
}

// InitialState is the state of a freshly created or cleared calculator.
func InitialState() State {
	return State{Display: "0"}
}

// Accumulator owns a State and exposes one transition per user intent.
// It is not safe for concurrent use; callers serialise intents.
type Accumulator struct {
	state State
}

func New() *Accumulator {
	return &Accumulator{state: InitialState()}
}

// State returns a copy of the current state.
func (a *Accumulator) State() State {
	return a.state
}

func (a *Accumulator) Display() string {
	return a.state.Display
}

// RunningTotal renders the secondary display line, e.g. "12 ×".
func (a *Accumulator) RunningTotal() string {
	return a.state.RunningTotal()
}

// EnterDigit appends d (0-9) to the display, or starts a new number after an
// operator or equals. Values outside 0-9 are ignored.
func (a *Accumulator) EnterDigit(d int) {
	if d < 0 || d > 9 {
		return
	}
	digit := string(rune('0' + d))

	switch {
	case a.state.AwaitingFreshEntry || !isFiniteDisplay(a.state.Display):
		a.state.Display = digit
		a.state.AwaitingFreshEntry = false
	case a.state.Display == "0":
		a.state.Display = digit
	default:
		a.state.Display += digit
	}
}

// EnterDecimalPoint adds a decimal point unless one is already present.
func (a *Accumulator) EnterDecimalPoint() {
	if a.state.AwaitingFreshEntry || !isFiniteDisplay(a.state.Display) {
		a.state.Display = "0."
		a.state.AwaitingFreshEntry = false
		return
	}
	if !strings.Contains(a.state.Display, ".") {
		a.state.Display += "."
	}
}

// ChooseOperator folds the displayed operand into the pending value and
// records op as the next operation. Choosing another operator before any new
// digit only replaces the pending operator.
func (a *Accumulator) ChooseOperator(op Operator) {
	if !op.Valid() {
		return
	}
	input := ParseDisplay(a.state.Display)

	switch {
	case !a.state.HasPendingValue:
		a.state.PendingValue = input
		a.state.HasPendingValue = true
	case a.state.AwaitingFreshEntry:
		// no new operand yet; only the operator changes
	case a.state.PendingOperator != "":
		a.applyPending(input)
	}

	a.state.PendingOperator = op
	a.state.AwaitingFreshEntry = true
}

// Equals completes the pending operation. It does nothing unless both a
// pending value and a pending operator are present.
func (a *Accumulator) Equals() {
	if !a.state.HasPendingValue || a.state.PendingOperator == "" {
		return
	}
	a.applyPending(ParseDisplay(a.state.Display))

	a.state.PendingValue = 0
	a.state.HasPendingValue = false
	a.state.PendingOperator = ""
	a.state.AwaitingFreshEntry = true
}

// Clear resets to the initial state.
func (a *Accumulator) Clear() {
	a.state = InitialState()
}

// Negate flips the sign of the displayed number.
func (a *Accumulator) Negate() {
	a.rewrite(func(v float64) float64 { return -v })
}

// Percent divides the displayed number by 100.
func (a *Accumulator) Percent() {
	a.rewrite(func(v float64) float64 { return v / 100 })
}

// Sqrt replaces the display with its square root; negative numbers give NaN.
func (a *Accumulator) Sqrt() {
	a.rewrite(math.Sqrt)
}

// Square replaces the display with its square.
func (a *Accumulator) Square() {
	a.rewrite(func(v float64) float64 { return v * v })
}

// rewrite applies f to the displayed number in place. The pending operation
// and the fresh-entry flag are left alone, so "5 + 9 √ =" gives 8.
func (a *Accumulator) rewrite(f func(float64) float64) {
	a.state.Display = FormatResult(f(ParseDisplay(a.state.Display)))
}

func (a *Accumulator) applyPending(input float64) {
	result := Apply(a.state.PendingOperator, a.state.PendingValue, input)
	a.state.Display = FormatResult(result)
	a.state.PendingValue = result
}

func isFiniteDisplay(display string) bool {
	v := ParseDisplay(display)
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
