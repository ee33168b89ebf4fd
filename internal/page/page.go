package page

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Page is a parsed host document. It is edited in place by the scanner and
// written back out with WriteTo or WriteFile.
type Page struct {
	root *html.Node
	doc  *goquery.Document
}

// ErrEmpty is returned when the input holds no bytes at all.
var ErrEmpty = errors.New("empty document")

// Parse reads a complete HTML document from r.
func Parse(r io.Reader) (*Page, error) {
	br := bufio.NewReader(r)
	if _, err := br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("read html: %w", err)
	}
	root, err := html.Parse(br)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Page{root: root, doc: goquery.NewDocumentFromNode(root)}, nil
}

// ReadFile loads and parses the document at path.
func ReadFile(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Document exposes the page for querying and editing.
func (p *Page) Document() *goquery.Document { return p.doc }

// Title returns the trimmed <title> text, if any. Whitespace runs inside
// the title collapse to one space so it logs on a single line.
func (p *Page) Title() string {
	return strings.Join(strings.Fields(p.doc.Find("head title").First().Text()), " ")
}

// URL returns the address the page declares for itself: the canonical link
// first, then the Open Graph url. Saved pages usually carry one of the two.
func (p *Page) URL() string {
	if href, ok := p.doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		if s := strings.TrimSpace(href); s != "" {
			return s
		}
	}
	if content, ok := p.doc.Find(`meta[property="og:url"]`).First().Attr("content"); ok {
		if s := strings.TrimSpace(content); s != "" {
			return s
		}
	}
	return ""
}

// WriteTo renders the document, doctype included.
func (p *Page) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := html.Render(cw, p.root); err != nil {
		return cw.n, fmt.Errorf("render html: %w", err)
	}
	return cw.n, nil
}

// WriteFile renders the document to path through a temporary file in the
// same directory, so readers never see a partial page.
func (p *Page) WriteFile(path string) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmp := f.Name()
	bw := bufio.NewWriter(f)
	if _, err := p.WriteTo(bw); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write page: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	mode := os.FileMode(0o644)
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode().Perm()
	}
	_ = os.Chmod(tmp, mode)
	return os.Rename(tmp, path)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
