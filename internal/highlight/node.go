// Package highlight turns note source text into a tree of typed nodes and
// renders that tree as nested spans for the editor overlay.
//
// Every character of the input ends up in exactly one leaf, in source
// order, so the rendered overlay stays aligned with the plain-text input
// underneath it.
package highlight

import "strings"

// Leaf types.
const (
	TypeText   = "text"
	TypeSpace  = "space"
	TypeMarker = "marker"
)

// Element types.
const (
	TypeParagraph    = "paragraph"
	TypeEmpty        = "empty"
	TypeListItem     = "list-item"
	TypeListItemNum  = "list-item-num"
	TypeBlockQuote   = "block-quote"
	TypeTodo         = "todo"
	TypeTodoDone     = "todo-done"
	TypeTodoProgress = "todo-progress"
	TypeBold         = "bold"
	TypeItalic       = "italic"
	TypeCode         = "code"
	TypeRef          = "ref"
	TypeLinkText     = "link-text"
	TypeLinkURL      = "link-url"
)

// Node is either a Leaf or an Element.
type Node interface {
	NodeType() string
	node()
}

// Leaf holds literal source text and has no children.
type Leaf struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Element groups child nodes in source order.
type Element struct {
	Type    string `json:"type"`
	Content []Node `json:"content"`
}

func (l Leaf) NodeType() string    { return l.Type }
func (e Element) NodeType() string { return e.Type }

func (Leaf) node()    {}
func (Element) node() {}

func text(s string) Leaf {
	return Leaf{Type: TypeText, Content: s}
}

func wrap(typ string, content string) Element {
	return Element{Type: typ, Content: []Node{text(content)}}
}

// Leaves concatenates the content of every leaf under n in order.
func Leaves(n Node) string {
	var b strings.Builder
	writeLeaves(&b, n)
	return b.String()
}

func writeLeaves(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case Leaf:
		b.WriteString(n.Content)
	case Element:
		for _, child := range n.Content {
			writeLeaves(b, child)
		}
	}
}

// Meta collects side-channel data found while tokenizing a document.
// Links maps the raw url span, parens included, to the raw link text,
// brackets included. Callers create a fresh Meta for every pass.
type Meta struct {
	Links map[string]string `json:"links"`
}

func NewMeta() *Meta {
	return &Meta{Links: map[string]string{}}
}

func (m *Meta) Record(url, text string) {
	if m == nil {
		return
	}
	if m.Links == nil {
		m.Links = map[string]string{}
	}
	m.Links[url] = text
}

// StripDelimiters drops the surrounding brackets or parens of a raw link
// span, turning "[here]" into "here" and "(http://x.com)" into "http://x.com".
func StripDelimiters(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	return raw[1 : len(raw)-1]
}
