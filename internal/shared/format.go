package shared

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatDuration renders seconds as m:ss, dropping fractional seconds.
//
// Negative, NaN and infinite inputs render as 0:00.
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "0:00"
	}

	total := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatNumber groups the digits of n in thousands ("1234567" -> "1,234,567").
// Negative numbers render as "0".
func FormatNumber(n int) string {
	if n < 0 {
		return "0"
	}

	digits := strconv.Itoa(n)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatMonthlyListeners renders an artist's listener count.
func FormatMonthlyListeners(n int) string {
	return FormatNumber(n) + " monthly listeners"
}

// Clamp01 bounds v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
