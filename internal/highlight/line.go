package highlight

// ParseLine builds the node tree for one line. Zero-length lines become an
// empty element; everything else is a paragraph unless a block marker
// gives it another type.
func ParseLine(line Line, meta *Meta) Node {
	if len(line.Content) == 0 {
		return Element{Type: TypeEmpty}
	}

	c := Classify(line.Content)
	children := make([]Node, 0, 4)
	if c.Indent != "" {
		children = append(children, Leaf{Type: TypeSpace, Content: c.Indent})
	}

	body := ParseInline(c.Body, meta)
	if c.Subtype.Found() {
		sub := make([]Node, 0, len(body)+2)
		sub = append(sub,
			Leaf{Type: TypeMarker, Content: c.Subtype.Marker},
			Leaf{Type: TypeSpace, Content: c.Subtype.Sep},
		)
		sub = append(sub, body...)
		body = []Node{Element{Type: c.Subtype.Type, Content: sub}}
	}

	typ := TypeParagraph
	if c.Block.Found() {
		typ = c.Block.Type
		children = append(children,
			Leaf{Type: TypeMarker, Content: c.Block.Marker},
			Leaf{Type: TypeSpace, Content: c.Block.Sep},
		)
	}
	children = append(children, body...)
	return Element{Type: typ, Content: children}
}

// Parse splits src into lines and parses each one.
func Parse(src string, meta *Meta) []Node {
	lines := SplitLines(src)
	nodes := make([]Node, 0, len(lines))
	for _, l := range lines {
		nodes = append(nodes, ParseLine(l, meta))
	}
	return nodes
}
