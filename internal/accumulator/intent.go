package accumulator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrUnknownKey      = errors.New("unknown key")
	ErrUnknownKind     = errors.New("unknown intent type")
	ErrUnknownOperator = errors.New("unknown operator")
)

// Kind identifies a user intent.
type Kind int

const (
	KindDigit Kind = iota + 1
	KindDecimalPoint
	KindOperator
	KindEquals
	KindClear
	KindNegate
	KindPercent
	KindSqrt
	KindSquare
)

var kindNames = map[Kind]string{
	KindDigit:        "digit",
	KindDecimalPoint: "decimal_point",
	KindOperator:     "operator",
	KindEquals:       "equals",
	KindClear:        "clear",
	KindNegate:       "negate",
	KindPercent:      "percent",
	KindSqrt:         "sqrt",
	KindSquare:       "square",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind resolves an intent type name such as "decimal_point".
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// ParseOperator accepts operator names ("multiply") and keypad symbols
// ("*", "x", "×").
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "+":
		return Add, nil
	case "subtract", "-", "−":
		return Subtract, nil
	case "multiply", "*", "x", "×":
		return Multiply, nil
	case "divide", "/", "÷":
		return Divide, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperator, s)
}

// Intent is a single user action. Digit is set for KindDigit and Operator for
// KindOperator.
type Intent struct {
	Kind     Kind
	Digit    int
	Operator Operator
}

func Digit(d int) Intent { return Intent{Kind: KindDigit, Digit: d} }
func DecimalPoint() Intent { return Intent{Kind: KindDecimalPoint} }
func Choose(op Operator) Intent { return Intent{Kind: KindOperator, Operator: op} }
func EqualsIntent() Intent { return Intent{Kind: KindEquals} }
func ClearIntent() Intent { return Intent{Kind: KindClear} }

// Function keys rewrite the display in place.
func NegateIntent() Intent { return Intent{Kind: KindNegate} }
func PercentIntent() Intent { return Intent{Kind: KindPercent} }
func SqrtIntent() Intent { return Intent{Kind: KindSqrt} }
func SquareIntent() Intent { return Intent{Kind: KindSquare} }

// Key renders the intent as the keypad label that produces it.
func (in Intent) Key() string {
	switch in.Kind {
	case KindDigit:
		return strconv.Itoa(in.Digit)
	case KindDecimalPoint:
		return "."
	case KindOperator:
		return in.Operator.Symbol()
	case KindEquals:
		return "="
	case KindClear:
		return "C"
	case KindNegate:
		return "±"
	case KindPercent:
		return "%"
	case KindSqrt:
		return "√"
	case KindSquare:
		return "²"
	}
	return "?"
}

func (in Intent) String() string {
	return in.Kind.String() + "(" + in.Key() + ")"
}

// Dispatch applies in to the accumulator and returns the resulting display.
func (a *Accumulator) Dispatch(in Intent) string {
	switch in.Kind {
	case KindDigit:
		a.EnterDigit(in.Digit)
	case KindDecimalPoint:
		a.EnterDecimalPoint()
	case KindOperator:
		a.ChooseOperator(in.Operator)
	case KindEquals:
		a.Equals()
	case KindClear:
		a.Clear()
	case KindNegate:
		a.Negate()
	case KindPercent:
		a.Percent()
	case KindSqrt:
		a.Sqrt()
	case KindSquare:
		a.Square()
	}
	return a.state.Display
}

// ParseKey maps a single keypad key to its intent. Function keys also have
// ASCII aliases: n (±), r (√) and s (²).
func ParseKey(r rune) (Intent, bool) {
	switch {
	case r >= '0' && r <= '9':
		return Digit(int(r - '0')), true
	case r == '.' || r == ',':
		return DecimalPoint(), true
	case r == '=':
		return EqualsIntent(), true
	case r == 'c' || r == 'C':
		return ClearIntent(), true
	case r == '±' || r == 'n':
		return NegateIntent(), true
	case r == '%':
		return PercentIntent(), true
	case r == '√' || r == 'r':
		return SqrtIntent(), true
	case r == '²' || r == 's':
		return SquareIntent(), true
	}
	if op, err := ParseOperator(string(r)); err == nil {
		return Choose(op), true
	}
	return Intent{}, false
}

// ParseKeys parses a key sequence such as "12.5 × 4 =". Whitespace is
// ignored.
func ParseKeys(keys string) ([]Intent, error) {
	intents := make([]Intent, 0, len(keys))
	pos := 0
	for _, r := range keys {
		pos++
		if unicode.IsSpace(r) {
			continue
		}
		in, ok := ParseKey(r)
		if !ok {
			return nil, fmt.Errorf("%w %q at position %d", ErrUnknownKey, r, pos)
		}
		intents = append(intents, in)
	}
	return intents, nil
}
