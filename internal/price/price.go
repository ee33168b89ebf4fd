// Package price reads a monetary amount out of a listing's price fragment.
package price

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/hyperifyio/prixaulitre/internal/decimal"
)

// Extract returns the first number in text. Currency symbols, thousands
// separators and ranges are not interpreted, so a fragment holding both a
// struck-through and a sale price yields whichever comes first.
func Extract(text string) (float64, bool) {
	return decimal.First(text)
}

// FromSelection extracts a price from the text content of sel. An empty
// selection is absent.
func FromSelection(sel *goquery.Selection) (float64, bool) {
	if sel == nil || sel.Length() == 0 {
		return 0, false
	}
	return Extract(sel.Text())
}
