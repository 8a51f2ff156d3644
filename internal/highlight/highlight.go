package highlight

// Highlight renders src as one "line" span per source line. Links found
// along the way are added to meta; a nil meta gets a fresh one that the
// caller cannot see, so pass your own when the links matter.
func Highlight(src string, meta *Meta) []Span {
	if meta == nil {
		meta = NewMeta()
	}
	nodes := Parse(src, meta)
	out := make([]Span, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Span{Class: TypeLine, Children: []Span{Render(n)}})
	}
	return out
}

// HighlightLinks is Highlight with a fresh Meta returned alongside.
func HighlightLinks(src string) ([]Span, *Meta) {
	meta := NewMeta()
	return Highlight(src, meta), meta
}

// HTMLLines renders every line span as an HTML string.
func HTMLLines(lines []Span) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.HTML())
	}
	return out
}
