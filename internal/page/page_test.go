package page

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const saved = `<!DOCTYPE html>
<html>
  <head>
    <title> Amazon.fr : huile </title>
    <link rel="canonical" href="https://www.amazon.fr/s?k=huile">
    <meta property="og:url" content="https://www.amazon.fr/other">
  </head>
  <body><div id="x">Bonjour</div></body>
</html>`

func TestParse_TitleAndCanonicalURL(t *testing.T) {
	p, err := Parse(strings.NewReader(saved))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := p.Title(); got != "Amazon.fr : huile" {
		t.Fatalf("title %q", got)
	}
	if got := p.URL(); got != "https://www.amazon.fr/s?k=huile" {
		t.Fatalf("url %q", got)
	}
}

func TestURL_FallsBackToOpenGraph(t *testing.T) {
	p, err := Parse(strings.NewReader(`<html><head><meta property="og:url" content=" https://www.amazon.fr/-/fr/s?k=eau "></head><body></body></html>`))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.URL(); got != "https://www.amazon.fr/-/fr/s?k=eau" {
		t.Fatalf("url %q", got)
	}
}

func TestURL_Missing(t *testing.T) {
	p, err := Parse(strings.NewReader(`<p>fragment</p>`))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.URL(); got != "" {
		t.Fatalf("url %q, want empty", got)
	}
	if got := p.Title(); got != "" {
		t.Fatalf("title %q, want empty", got)
	}
}

func TestWriteTo_KeepsEdits(t *testing.T) {
	p, err := Parse(strings.NewReader(saved))
	if err != nil {
		t.Fatal(err)
	}
	p.Document().Find("#x").AfterHtml(`<div class="price-per-liter">2.40 €/L</div>`)
	var buf bytes.Buffer
	n, err := p.WriteTo(&buf)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Fatalf("reported %d bytes, wrote %d", n, buf.Len())
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Fatalf("doctype lost: %q", out[:20])
	}
	if !strings.Contains(out, `<div id="x">Bonjour</div><div class="price-per-liter">2.40 €/L</div>`) {
		t.Fatalf("edit not rendered:\n%s", out)
	}
}

func TestWriteFile_ReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "search.html")
	if err := os.WriteFile(path, []byte(saved), 0o600); err != nil {
		t.Fatal(err)
	}
	p, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	p.Document().Find("#x").SetAttr("data-price-per-liter-processed", "true")
	if err := p.WriteFile(path); err != nil {
		t.Fatalf("write file: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `data-price-per-liter-processed="true"`) {
		t.Fatalf("marker not persisted:\n%s", b)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Fatalf("mode changed to %v", st.Mode().Perm())
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	path := filepath.Join(t.TempDir(), "empty.html")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); !errors.Is(err, ErrEmpty) {
		t.Fatalf("empty file: expected ErrEmpty, got %v", err)
	}
	if _, err := Parse(strings.NewReader(" ")); err != nil {
		t.Fatalf("whitespace is still a document: %v", err)
	}
}

func TestTitle_CollapsesWhitespace(t *testing.T) {
	p, err := Parse(strings.NewReader("<html><head><title>\n  Amazon.fr :\n\tsirop  </title></head></html>"))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Title(); got != "Amazon.fr : sirop" {
		t.Fatalf("title %q", got)
	}
}

func TestReadFile_Missing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.html")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
