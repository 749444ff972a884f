package accumulator

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// resultPrecision is the number of fractional digits results are rounded to.
const resultPrecision = 7

// Display strings for non-finite results.
const (
	DisplayInfinity    = "Infinity"
	DisplayNegInfinity = "-Infinity"
	DisplayNaN         = "NaN"
)

// FormatResult rounds v to seven fractional digits and renders it in the
// shortest fixed-point form, so 2.0000000 becomes "2" and 1/3 becomes
// "0.3333333".
func FormatResult(v float64) string {
	switch {
	case math.IsNaN(v):
		return DisplayNaN
	case math.IsInf(v, 1):
		return DisplayInfinity
	case math.IsInf(v, -1):
		return DisplayNegInfinity
	}

	rounded := roundHalfAway(v, resultPrecision)
	if rounded == 0 {
		// drops the sign of negative zero
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// roundHalfAway rounds the exact binary value of v to digits fractional
// digits and returns the nearest float64 to that decimal. Ties go away from
// zero: 1/256 becomes 0.0039063.
func roundHalfAway(v float64, digits int) float64 {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)

	x := new(big.Rat).SetFloat64(math.Abs(v))
	x.Mul(x, new(big.Rat).SetInt(scale))

	// floor(x + 1/2) for x >= 0
	num := new(big.Int).Mul(x.Num(), big.NewInt(2))
	num.Add(num, x.Denom())
	den := new(big.Int).Mul(x.Denom(), big.NewInt(2))
	n := num.Quo(num, den)

	rounded, _ := new(big.Rat).SetFrac(n, scale).Float64()
	return math.Copysign(rounded, v)
}

// ParseDisplay converts a display string to a number. A trailing decimal
// point is allowed. Anything unparseable counts as 0.
func ParseDisplay(display string) float64 {
	s := strings.TrimSuffix(display, ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return 0
	}
	return v
}
