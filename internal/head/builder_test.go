package head

import (
	"strings"
	"testing"
)

func TestBuilder_HTML(t *testing.T) {
	b := New()
	b.SetTitle("Draft")
	b.SetTitle("Profile <1>")
	b.Link(`<link rel="icon" href="/favicon.ico">`)
	b.Link(`<link rel="icon" href="/favicon.ico">`)

	out := string(b.HTML())

	if !strings.HasPrefix(out, "<title>Profile &lt;1&gt;</title>\n") {
		t.Fatalf("title not first or not escaped: %q", out)
	}
	if strings.Count(out, "favicon.ico") != 1 {
		t.Fatalf("duplicate link kept: %q", out)
	}
	if !strings.Contains(out, `<meta charset="utf-8">`) {
		t.Fatalf("charset meta missing: %q", out)
	}
}
