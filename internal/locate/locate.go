// Package locate holds the ordered selector strategies used to find product
// listings and their parts in an Amazon.fr search page.
//
// Site markup drifts over time; when no strategy matches, callers get an
// empty selection and silently skip the listing.
package locate

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Locator finds elements below (or, for closest-style strategies, around)
// a root selection.
type Locator interface {
	Locate(root *goquery.Selection) *goquery.Selection
	String() string
}

// CSS finds every descendant matching a selector, in document order.
type CSS struct {
	src string
	m   cascadia.Selector
}

// MustCSS compiles sel and panics on a malformed selector. Every chain in
// this package is built at init, so a typo fails at startup.
func MustCSS(sel string) CSS {
	return CSS{src: sel, m: cascadia.MustCompile(sel)}
}

func (c CSS) Locate(root *goquery.Selection) *goquery.Selection {
	return root.FindMatcher(c.m)
}

func (c CSS) String() string { return c.src }

// FirstCSS behaves like querySelector: at most the first descendant match.
type FirstCSS struct{ CSS }

func MustFirstCSS(sel string) FirstCSS { return FirstCSS{MustCSS(sel)} }

func (c FirstCSS) Locate(root *goquery.Selection) *goquery.Selection {
	return c.CSS.Locate(root).First()
}

// Closest walks from root (inclusive) up to the nearest ancestor matching
// the selector.
type Closest struct{ CSS }

func MustClosest(sel string) Closest { return Closest{MustCSS(sel)} }

func (c Closest) Locate(root *goquery.Selection) *goquery.Selection {
	return root.ClosestMatcher(c.m)
}

func (c Closest) String() string { return "closest(" + c.src + ")" }

// Chain is a priority-ordered list of strategies.
type Chain []Locator

// First returns the result of the first strategy whose selection is
// non-empty and passes accept (nil accepts any non-empty selection),
// together with its index in the chain. When nothing qualifies it returns an
// empty selection and -1.
func (ch Chain) First(root *goquery.Selection, accept func(*goquery.Selection) bool) (*goquery.Selection, int) {
	for i, l := range ch {
		sel := l.Locate(root)
		if sel.Length() == 0 {
			continue
		}
		if accept == nil || accept(sel) {
			return sel, i
		}
	}
	return root.FilterFunction(func(int, *goquery.Selection) bool { return false }), -1
}

// Products finds product listings on search and category pages.
var Products = Chain{
	MustCSS(`[data-component-type="s-search-result"]`),
	MustCSS(`[data-asin]:not([data-asin=""])`),
	MustCSS(`.s-result-item`),
}

// Titles finds a listing's title text.
var Titles = Chain{
	MustFirstCSS(`h2 a span`),
	MustFirstCSS(`h2 span`),
	MustFirstCSS(`.s-size-mini span`),
	MustFirstCSS(`[data-cy="title-recipe-link"]`),
	MustFirstCSS(`.a-link-normal .a-text-normal`),
}

// Prices finds a listing's price fragment.
var Prices = Chain{
	MustFirstCSS(`.a-price-whole`),
	MustFirstCSS(`.a-offscreen`),
	MustFirstCSS(`.a-price .a-offscreen`),
	MustFirstCSS(`.a-price-symbol + .a-price-whole`),
}

// Anchors finds the price container a badge is inserted after. The first
// two strategies search the listing; the last one (see PriceAnchor) starts
// from the price fragment.
var Anchors = Chain{
	MustFirstCSS(`.a-price, .a-price-range`),
	MustFirstCSS(`[data-cy="price-recipe"]`),
}

// PriceAnchor is the fallback anchor, searched from the price fragment.
var PriceAnchor = MustClosest(`.a-row, .a-column, div`)
