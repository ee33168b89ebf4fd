// Package scan walks the product listings of a search page and annotates
// each one whose title states a volume with its price per liter.
//
// Scanning never fails: a listing that cannot be resolved is skipped without
// an error, and the scan moves on to the next one.
package scan

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyperifyio/prixaulitre/internal/locate"
	"github.com/hyperifyio/prixaulitre/internal/price"
	"github.com/hyperifyio/prixaulitre/internal/render"
	"github.com/hyperifyio/prixaulitre/internal/volume"
)

// ProcessedAttr marks a listing as visited. It is set before any other work
// so that a listing gets at most one annotation attempt, even across scans
// of a re-loaded page.
const ProcessedAttr = "data-price-per-liter-processed"

// Stats counts what a single Scan did.
type Stats struct {
	Candidates int
	Skipped    int
	Annotated  int
	Abandoned  int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Candidates += o.Candidates
	s.Skipped += o.Skipped
	s.Annotated += o.Annotated
	s.Abandoned += o.Abandoned
}

// Listing holds what was resolved for one product.
type Listing struct {
	Title         string
	Liters        float64
	Price         float64
	PricePerLiter float64
	// Anchor is the element the annotation goes after.
	Anchor *goquery.Selection
}

// Scanner annotates product listings. The zero value uses render.Badge.
type Scanner struct {
	Renderer render.Renderer
}

// Scan visits every not-yet-processed listing in doc. Calling it again on
// the same document is a no-op for listings already visited.
func (s *Scanner) Scan(doc *goquery.Document) Stats {
	var st Stats
	if doc == nil {
		return st
	}
	r := s.Renderer
	if r == nil {
		r = render.Badge{}
	}
	products, _ := locate.Products.First(doc.Selection, nil)
	products.Each(func(_ int, product *goquery.Selection) {
		st.Candidates++
		if _, done := product.Attr(ProcessedAttr); done {
			st.Skipped++
			return
		}
		product.SetAttr(ProcessedAttr, "true")

		l, ok := Resolve(product)
		if !ok || !r.Render(l.Anchor, l.PricePerLiter) {
			st.Abandoned++
			return
		}
		st.Annotated++
	})
	return st
}

// Resolve computes the price per liter of one listing and where to show it.
// It reports false when the title, volume, price or anchor is missing.
func Resolve(product *goquery.Selection) (Listing, bool) {
	var l Listing

	titleSel, _ := locate.Titles.First(product, func(sel *goquery.Selection) bool {
		return strings.TrimSpace(sel.Text()) != ""
	})
	if titleSel.Length() == 0 {
		return l, false
	}
	l.Title = titleSel.Text()

	liters, ok := volume.Extract(l.Title)
	if !ok || liters <= 0 {
		return l, false
	}
	l.Liters = liters

	priceSel, _ := locate.Prices.First(product, func(sel *goquery.Selection) bool {
		v, ok := price.FromSelection(sel)
		if !ok || v <= 0 {
			return false
		}
		l.Price = v
		return true
	})
	if priceSel.Length() == 0 {
		return l, false
	}
	l.PricePerLiter = l.Price / l.Liters

	anchor, _ := locate.Anchors.First(product, nil)
	if anchor.Length() == 0 {
		anchor = locate.PriceAnchor.Locate(priceSel)
	}
	if anchor.Length() == 0 {
		return l, false
	}
	l.Anchor = anchor.First()
	return l, true
}
