// Package decimal reads the loosely formatted numbers found in French
// product listings, where ',' and '.' both serve as decimal separator.
package decimal

import (
	"regexp"
	"strconv"
	"strings"
)

// Number matches an unsigned decimal with an optional fractional part.
const Number = `\d+(?:[.,]\d+)?`

var first = regexp.MustCompile(Number)

// Parse converts s to a float after normalizing the first ',' to '.'.
func Parse(s string) (float64, bool) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// First returns the first number found anywhere in text.
func First(text string) (float64, bool) {
	m := first.FindString(text)
	if m == "" {
		return 0, false
	}
	return Parse(m)
}
