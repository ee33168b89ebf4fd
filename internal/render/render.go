// Package render turns a computed price per liter into a badge inserted in
// the page.
package render

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Renderer inserts an annotation for pricePerLiter next to anchor. It
// reports whether anything was inserted.
type Renderer interface {
	Render(anchor *goquery.Selection, pricePerLiter float64) bool
}

// Format renders a price per liter the way the badge displays it.
func Format(pricePerLiter float64) string {
	return fixed2(pricePerLiter) + " €/L"
}

// fixed2 formats v with two decimals, rounding to the nearest hundredth of
// the exact binary value and away from zero on an exact tie. %.2f would
// round ties to even, turning 1.125 into 1.12.
func fixed2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= 1e21 {
		return fmt.Sprintf("%.2f", v)
	}
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	// v*100 needs at most 60 bits, so the product and the remainder are exact.
	x := new(big.Float).SetPrec(128).SetFloat64(v)
	x.Mul(x, big.NewFloat(100))
	n, _ := x.Int(nil)
	rem := new(big.Float).SetPrec(128).Sub(x, new(big.Float).SetInt(n))
	if rem.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}
	digits := n.String()
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}
	return sign + digits[:len(digits)-2] + "." + digits[len(digits)-2:]
}

// BadgeClass marks inserted badges so they can be found again.
const BadgeClass = "price-per-liter"

// badgeStyle is applied inline so the badge renders without any stylesheet.
var badgeStyle = strings.Join([]string{
	"color: #007600",
	"font-size: 12px",
	"font-weight: bold",
	"margin-top: 2px",
	"padding: 2px 4px",
	"background-color: #f0f8f0",
	"border-radius: 3px",
	"display: inline-block",
}, "; ") + ";"

// Badge inserts a styled <div> as the anchor's next sibling.
type Badge struct{}

func (Badge) Render(anchor *goquery.Selection, pricePerLiter float64) bool {
	if anchor == nil || anchor.Length() == 0 {
		return false
	}
	target := anchor.First()
	if n := target.Get(0); n.Parent == nil {
		return false
	}
	target.AfterNodes(NewBadge(pricePerLiter))
	return true
}

// NewBadge builds a detached badge node.
func NewBadge(pricePerLiter float64) *html.Node {
	div := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr: []html.Attribute{
			{Key: "class", Val: BadgeClass},
			{Key: "style", Val: badgeStyle},
		},
	}
	div.AppendChild(&html.Node{Type: html.TextNode, Data: Format(pricePerLiter)})
	return div
}
