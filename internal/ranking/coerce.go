package ranking

import (
	"math"
	"strconv"
	"strings"
)

// ParseScore converts a raw cell to a number. Blank, unparsable, NaN and
// infinite inputs yield nil, the missing-value marker; they are never zero.
func ParseScore(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// FormatScore is the inverse used for export: shortest decimal form, missing as "".
func FormatScore(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
