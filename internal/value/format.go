package value

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat renders f as the shortest decimal text that parses back to the
// same float64. The result always carries a fractional part ("1.0", not
// "1") so that every target language reads it as a floating-point literal.
// Magnitudes below 1e-4 or from 1e16 up use exponent form ("1.0e+16").
//
// Non-finite values are rendered as Go would render them; encoders reject
// them before calling FormatFloat.
func FormatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		if !strings.Contains(mant, ".") {
			mant += ".0"
		}
		return mant + "e" + exp
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Finite reports whether f can be written as a decimal literal.
func Finite(f Float) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// FitsInt32 reports whether i is inside the signed 32-bit range.
func FitsInt32(i Int) bool {
	return i >= math.MinInt32 && i <= math.MaxInt32
}
