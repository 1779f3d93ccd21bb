// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page’s
// <head> element.  It is scoped to a single render call: the handler pushes
// tags, then the page template emits them in order.
//
// Features
// --------
//   - SetTitle   – single <title> tag (last call wins).
//   - Meta, Link – raw tags, deduplicated by exact text.
//   - HTML       – title, metas, and links joined as template.HTML.
package head

import (
	"html/template"
	"strings"
)

// Builder is not safe for concurrent use; build one per render.
type Builder struct {
	title string
	metas []string
	links []string
	seen  map[string]struct{}
}

// New returns a Builder preloaded with the charset and viewport metas every
// page needs.
func New() *Builder {
	b := &Builder{seen: make(map[string]struct{})}
	b.Meta(`<meta charset="utf-8">`)
	b.Meta(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	return b
}

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) { b.title = t }

// Meta adds a <meta> tag.  tag must already be safe HTML.
func (b *Builder) Meta(tag string) { b.add(&b.metas, tag) }

// Link adds a <link> tag.  tag must already be safe HTML.
func (b *Builder) Link(tag string) { b.add(&b.links, tag) }

func (b *Builder) add(tgt *[]string, tag string) {
	if _, dup := b.seen[tag]; dup {
		return
	}
	b.seen[tag] = struct{}{}
	*tgt = append(*tgt, tag)
}

// HTML returns the <head> contents: title first, then metas and links.
func (b *Builder) HTML() template.HTML {
	var sb strings.Builder
	if b.title != "" {
		sb.WriteString("<title>" + template.HTMLEscapeString(b.title) + "</title>\n")
	}
	for _, tag := range b.metas {
		sb.WriteString(tag + "\n")
	}
	for _, tag := range b.links {
		sb.WriteString(tag + "\n")
	}
	return template.HTML(sb.String())
}
