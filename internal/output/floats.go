package output

import (
	"math"
	"strconv"
	"strings"
)

// RoundFloat rounds a float to at most 6 decimal places so timing
// fields encode identically across platforms.
func RoundFloat(f float64) float64 {
	multiplier := math.Pow(10, 6)
	return math.Round(f*multiplier) / multiplier
}

// FormatFloat formats a float with no trailing zeros, for human
// output.
func FormatFloat(f float64) string {
	rounded := RoundFloat(f)

	str := strconv.FormatFloat(rounded, 'f', 6, 64)
	str = strings.TrimRight(str, "0")
	str = strings.TrimRight(str, ".")

	return str
}
