// Package volume estimates the liquid volume mentioned in a product title.
package volume

import (
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hyperifyio/prixaulitre/internal/decimal"
)

// unit is one recognized volume notation; perLiter is how many of it make a liter.
type unit struct {
	pattern  *regexp.Regexp
	perLiter float64
}

// space is the optional gap between a number and its unit. RE2's \s is
// ASCII only, so the no-break and narrow no-break spaces French typography
// puts before units are added explicitly.
const space = `[\s\p{Zs}\x{FEFF}]*`

// units are tried in order and the first match wins, so liters take priority
// over ml and cl when a title mentions several.
var units = []unit{
	{pattern: regexp.MustCompile(`(?i)(` + decimal.Number + `)` + space + `l(?:itres?)?\b`), perLiter: 1},
	{pattern: regexp.MustCompile(`(?i)(` + decimal.Number + `)` + space + `ml\b`), perLiter: 1000},
	{pattern: regexp.MustCompile(`(?i)(` + decimal.Number + `)` + space + `cl\b`), perLiter: 100},
}

// Extract returns the volume in liters found in title. The boolean is false
// when no unit pattern matches or the number cannot be parsed. Multipack
// counts such as "6x1.5L" are not multiplied: only the first number-unit
// pair is read.
func Extract(title string) (float64, bool) {
	// A Caser is stateful, so each call builds its own.
	text := cases.Lower(language.French).String(title)
	for _, u := range units {
		m := u.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, ok := decimal.Parse(m[1])
		if !ok {
			return 0, false
		}
		return n / u.perLiter, true
	}
	return 0, false
}
