package highlight

import (
	"html/template"
	"strings"
)

const TypeLine = "line"

// Span is a display container tagged with a node type. A span carries
// either Text or Children, never both.
type Span struct {
	Class    string `json:"class"`
	Text     string `json:"text,omitempty"`
	Children []Span `json:"children,omitempty"`
}

// Render converts a node tree into spans. Leaf text is copied verbatim and
// empty lines render as a single space so the line keeps its height.
func Render(n Node) Span {
	switch n := n.(type) {
	case Leaf:
		return Span{Class: n.Type, Text: n.Content}
	case Element:
		if n.Type == TypeEmpty {
			return Span{Class: TypeEmpty, Text: " "}
		}
		s := Span{Class: n.Type, Children: make([]Span, 0, len(n.Content))}
		for _, child := range n.Content {
			s.Children = append(s.Children, Render(child))
		}
		return s
	}
	return Span{}
}

func (s Span) HTML() string {
	var b strings.Builder
	s.writeHTML(&b)
	return b.String()
}

func (s Span) writeHTML(b *strings.Builder) {
	b.WriteString(`<span class="`)
	b.WriteString(template.HTMLEscapeString(s.Class))
	b.WriteString(`">`)
	if len(s.Children) == 0 {
		b.WriteString(template.HTMLEscapeString(s.Text))
	}
	for _, child := range s.Children {
		child.writeHTML(b)
	}
	b.WriteString("</span>")
}

// PlainText returns the text painted by s and its descendants.
func (s Span) PlainText() string {
	if len(s.Children) == 0 {
		return s.Text
	}
	var b strings.Builder
	for _, child := range s.Children {
		b.WriteString(child.PlainText())
	}
	return b.String()
}

// Walk visits s and its descendants depth first with their ancestor classes.
func (s Span) Walk(fn func(span Span, parents []string)) {
	s.walk(fn, nil)
}

func (s Span) walk(fn func(Span, []string), parents []string) {
	fn(s, parents)
	next := append(parents[:len(parents):len(parents)], s.Class)
	for _, child := range s.Children {
		child.walk(fn, next)
	}
}
