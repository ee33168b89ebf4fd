// Package page loads a saved search-result page, hands it to the scanner as
// a goquery document and serializes it back once annotated.
package page
