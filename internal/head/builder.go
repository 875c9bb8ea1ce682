// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page’s
// <head> element.  It is scoped to a single response.  The SEO
// constructors in seo.go push tags into the builder, then the API hands
// the result to the client presenter, which swaps it into the document.
//
// Features
// --------
//   - SetTitle   – single <title> tag (last call wins).
//   - Meta, Link – keyed tags; setting the same key again replaces the
//     value, the way a browser-side setOrCreate would.
//   - JSONLD     – marshals a value and wraps it in
//     <script type="application/ld+json">…</script>.
//   - Head       – structured snapshot plus a pre-rendered fragment.
package head

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// Meta is one <meta> tag.  Attr is "name" or "property".
type Meta struct {
	Attr    string `json:"attr"`
	Key     string `json:"key"`
	Content string `json:"content"`
}

// Link is one <link> tag.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// Head is what the API returns: the parts for clients that patch the DOM
// themselves, and HTML for clients that replace a placeholder.
type Head struct {
	Title  string            `json:"title"`
	Meta   []Meta            `json:"meta"`
	Links  []Link            `json:"links"`
	JSONLD []json.RawMessage `json:"json_ld,omitempty"`
	HTML   template.HTML     `json:"html"`
}

// Builder is safe for concurrent use, though typical use is one goroutine
// per request.
type Builder struct {
	mu sync.Mutex

	// Single-value fields
	title string

	// Keyed slices; index maps "attr:key" → position.
	metas     []Meta
	metaIndex map[string]int
	links     []Link
	linkIndex map[string]int

	jsonLD []json.RawMessage
}

func New() *Builder {
	return &Builder{
		metaIndex: make(map[string]int),
		linkIndex: make(map[string]int),
	}
}

// ------------------------------------------------------------------
// Single-value helper
// ------------------------------------------------------------------

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// ------------------------------------------------------------------
// Keyed helpers
// ------------------------------------------------------------------

// Meta sets <meta {attr}="{key}" content="{content}">.
func (b *Builder) Meta(attr, key, content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := attr + ":" + key
	if i, ok := b.metaIndex[id]; ok {
		b.metas[i].Content = content
		return
	}
	b.metaIndex[id] = len(b.metas)
	b.metas = append(b.metas, Meta{Attr: attr, Key: key, Content: content})
}

// Name is Meta("name", …).
func (b *Builder) Name(key, content string) { b.Meta("name", key, content) }

// Property is Meta("property", …).
func (b *Builder) Property(key, content string) { b.Meta("property", key, content) }

// Link sets <link rel="{rel}" href="{href}">, one per rel.
func (b *Builder) Link(rel, href string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i, ok := b.linkIndex[rel]; ok {
		b.links[i].Href = href
		return
	}
	b.linkIndex[rel] = len(b.links)
	b.links = append(b.links, Link{Rel: rel, Href: href})
}

// JSONLD appends a structured-data block.  encoding/json escapes <, >, and
// & so the output is safe inside a <script> element.
func (b *Builder) JSONLD(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json-ld: %w", err)
	}
	b.mu.Lock()
	b.jsonLD = append(b.jsonLD, raw)
	b.mu.Unlock()
	return nil
}

// ------------------------------------------------------------------
// Output
// ------------------------------------------------------------------

// Head returns a copy of the collected tags with the rendered fragment.
func (b *Builder) Head() Head {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := Head{
		Title:  b.title,
		Meta:   append([]Meta(nil), b.metas...),
		Links:  append([]Link(nil), b.links...),
		JSONLD: append([]json.RawMessage(nil), b.jsonLD...),
	}
	h.HTML = b.render()
	return h
}

// Render returns the whole fragment as template.HTML.
func (b *Builder) Render() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.render()
}

func (b *Builder) render() template.HTML {
	var sb strings.Builder
	if b.title != "" {
		sb.WriteString("<title>" + template.HTMLEscapeString(b.title) + "</title>")
	}
	for _, m := range b.metas {
		fmt.Fprintf(&sb, `<meta %s="%s" content="%s">`,
			m.Attr, template.HTMLEscapeString(m.Key), template.HTMLEscapeString(m.Content))
	}
	for _, l := range b.links {
		fmt.Fprintf(&sb, `<link rel="%s" href="%s">`,
			template.HTMLEscapeString(l.Rel), template.HTMLEscapeString(l.Href))
	}
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.Write(js)
		sb.WriteString(`</script>`)
	}
	return template.HTML(sb.String())
}
