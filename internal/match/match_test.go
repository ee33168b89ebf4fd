package match

import "testing"

func TestAny_SearchPages(t *testing.T) {
	for _, u := range []string{
		"https://www.amazon.fr/s?k=huile+olive",
		"https://www.amazon.fr/s",
		"https://www.amazon.fr/-/en/s?k=water",
		"https://www.amazon.fr/gp/search?k=x",
	} {
		if !Any(u) {
			t.Fatalf("expected %q to match", u)
		}
	}
}

func TestAny_Rejects(t *testing.T) {
	for _, u := range []string{
		"",
		"https://www.amazon.com/s?k=water",
		"https://www.amazon.fr/",
		"http://www.amazon.fr/s?k=eau",
		"https://amazon.fr/s?k=eau",
		"ftp://www.amazon.fr/s",
		"%zz",
	} {
		if Any(u) {
			t.Fatalf("expected %q not to match", u)
		}
	}
}

func TestCompile(t *testing.T) {
	p, err := Compile("https://example.org/a.b*")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !p.Match("https://example.org/a.b/c") {
		t.Fatalf("expected prefix match")
	}
	if p.Match("https://example.org/aXb") {
		t.Fatalf("'.' must be literal")
	}
	if p.String() != "https://example.org/a.b*" {
		t.Fatalf("String()=%q", p.String())
	}
	if _, err := Compile("  "); err == nil {
		t.Fatalf("expected error for empty pattern")
	}
	var zero Pattern
	if zero.Match("anything") {
		t.Fatalf("zero pattern must not match")
	}
}

func TestAnyOf_CustomList(t *testing.T) {
	ps := []Pattern{MustCompile("http://localhost:*/s*")}
	if !AnyOf(ps, "http://localhost:8080/s?k=x") {
		t.Fatalf("expected local match")
	}
}
