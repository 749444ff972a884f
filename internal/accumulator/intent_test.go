package accumulator

import (
	"errors"
	"math"
	"testing"
)

func TestParseKeys(t *testing.T) {
	intents, err := ParseKeys(" 1.5 × 2 = c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Intent{Digit(1), DecimalPoint(), Digit(5), Choose(Multiply), Digit(2), EqualsIntent(), ClearIntent()}
	if len(intents) != len(want) {
		t.Fatalf("expected %d intents, got %d: %v", len(want), len(intents), intents)
	}
	for i := range want {
		if intents[i] != want[i] {
			t.Fatalf("intent %d: expected %v, got %v", i, want[i], intents[i])
		}
	}
}

func TestParseKeysFunctionAliases(t *testing.T) {
	intents, err := ParseKeys("n % r s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Intent{NegateIntent(), PercentIntent(), SqrtIntent(), SquareIntent()}
	if len(intents) != len(want) {
		t.Fatalf("expected %d intents, got %d: %v", len(want), len(intents), intents)
	}
	for i := range want {
		if intents[i] != want[i] {
			t.Fatalf("intent %d: expected %v, got %v", i, want[i], intents[i])
		}
	}
}

func TestParseKeysRejectsUnknownKey(t *testing.T) {
	_, err := ParseKeys("2^3")
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestParseOperator(t *testing.T) {
	tests := map[string]Operator{
		"add": Add, "+": Add,
		"subtract": Subtract, "-": Subtract, "−": Subtract,
		"multiply": Multiply, "*": Multiply, "x": Multiply, "×": Multiply,
		"divide": Divide, "/": Divide, "÷": Divide,
	}

	for in, want := range tests {
		got, err := ParseOperator(in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}

	if _, err := ParseOperator("%"); !errors.Is(err, ErrUnknownOperator) {
		t.Fatalf("expected ErrUnknownOperator, got %v", err)
	}
}

func TestParseKindRoundTripsNames(t *testing.T) {
	for _, k := range []Kind{KindDigit, KindDecimalPoint, KindOperator, KindEquals, KindClear, KindNegate, KindPercent, KindSqrt, KindSquare} {
		got, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", k, err)
		}
		if got != k {
			t.Fatalf("expected %v, got %v", k, got)
		}
	}

	if _, err := ParseKind("cube"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestIntentKeyLabels(t *testing.T) {
	tests := []struct {
		in   Intent
		want string
	}{
		{in: Digit(7), want: "7"},
		{in: DecimalPoint(), want: "."},
		{in: Choose(Divide), want: "÷"},
		{in: EqualsIntent(), want: "="},
		{in: ClearIntent(), want: "C"},
		{in: NegateIntent(), want: "±"},
		{in: PercentIntent(), want: "%"},
		{in: SqrtIntent(), want: "√"},
		{in: SquareIntent(), want: "²"},
	}

	for _, tc := range tests {
		if got := tc.in.Key(); got != tc.want {
			t.Fatalf("%v: expected key %q, got %q", tc.in, tc.want, got)
		}
		parsed, ok := ParseKey([]rune(tc.want)[0])
		if !ok || parsed != tc.in {
			t.Fatalf("key %q: expected %v, got %v (ok=%t)", tc.want, tc.in, parsed, ok)
		}
	}
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 2.0000000001, want: "2"},
		{in: 1.0 / 3.0, want: "0.3333333"},
		{in: 2.0 / 3.0, want: "0.6666667"},
		{in: -1.5, want: "-1.5"},
		{in: 0.00390625, want: "0.0039063"},
		{in: -0.00390625, want: "-0.0039063"},
		{in: 0.01953125, want: "0.0195313"},
		{in: -0.00000004, want: "0"},
		{in: math.Copysign(0, -1), want: "0"},
		{in: 1e21, want: "1000000000000000000000"},
		{in: math.Inf(1), want: "Infinity"},
		{in: math.Inf(-1), want: "-Infinity"},
		{in: math.NaN(), want: "NaN"},
	}

	for _, tc := range tests {
		if got := FormatResult(tc.in); got != tc.want {
			t.Fatalf("FormatResult(%g): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestParseDisplay(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{in: "0", want: 0},
		{in: "12.", want: 12},
		{in: "0.25", want: 0.25},
		{in: "-3", want: -3},
		{in: "garbage", want: 0},
		{in: "", want: 0},
	}

	for _, tc := range tests {
		if got := ParseDisplay(tc.in); got != tc.want {
			t.Fatalf("ParseDisplay(%q): expected %g, got %g", tc.in, tc.want, got)
		}
	}

	if got := ParseDisplay("Infinity"); !math.IsInf(got, 1) {
		t.Fatalf("expected +Inf, got %g", got)
	}
	if got := ParseDisplay("NaN"); !math.IsNaN(got) {
		t.Fatalf("expected NaN, got %g", got)
	}
}
