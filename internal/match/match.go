// Package match decides whether a page URL is one the annotator runs on.
//
// Patterns use the userscript @match glob form: '*' matches any sequence of
// characters and the pattern must cover the whole URL.
package match

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Pattern is a compiled @match glob.
type Pattern struct {
	src string
	re  *regexp.Regexp
}

// Compile converts glob into an anchored regular expression. Only '*' is
// special; every other rune matches itself.
func Compile(glob string) (Pattern, error) {
	glob = strings.TrimSpace(glob)
	if glob == "" {
		return Pattern{}, fmt.Errorf("empty match pattern")
	}
	var b strings.Builder
	b.WriteString("^")
	for _, rn := range glob {
		if rn == '*' {
			b.WriteString(".*")
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(rn)))
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return Pattern{}, fmt.Errorf("compile %q: %w", glob, err)
	}
	return Pattern{src: glob, re: re}, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(glob string) Pattern {
	p, err := Compile(glob)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) String() string { return p.src }

// Match reports whether rawURL is covered by the pattern.
func (p Pattern) Match(rawURL string) bool {
	if p.re == nil {
		return false
	}
	return p.re.MatchString(rawURL)
}

// Default covers Amazon.fr search results, with and without a language
// prefix such as /-/en/.
var Default = []Pattern{
	MustCompile("https://www.amazon.fr/s*"),
	MustCompile("https://www.amazon.fr/*/s*"),
}

// Any reports whether rawURL matches one of the Default patterns. An empty
// or unparsable URL never matches, nor does a non-HTTP(S) scheme.
func Any(rawURL string) bool {
	return AnyOf(Default, rawURL)
}

// AnyOf is Any over an explicit pattern list.
func AnyOf(patterns []Pattern, rawURL string) bool {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil || !isHTTPScheme(u) {
		return false
	}
	for _, p := range patterns {
		if p.Match(rawURL) {
			return true
		}
	}
	return false
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
