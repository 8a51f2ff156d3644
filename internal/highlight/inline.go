package highlight

// ParseInline tokenizes the body of a line. Links are found first; the
// remaining text leaves then go through the code, ref and emphasis
// scanners in that order. Link text is recorded in meta.
func ParseInline(s string, meta *Meta) []Node {
	nodes := scanLinks(s, meta)
	nodes = expandText(nodes, scanCode)
	nodes = expandText(nodes, scanRefs)
	nodes = expandText(nodes, scanEmphasis)
	return nodes
}

func expandText(nodes []Node, scan func(string) []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if leaf, ok := n.(Leaf); ok && leaf.Type == TypeText {
			out = append(out, scan(leaf.Content)...)
			continue
		}
		out = append(out, n)
	}
	return out
}

type linkState uint8

const (
	linkIdle linkState = iota
	linkInText
	linkInURL
)

func scanLinks(s string, meta *Meta) []Node {
	var (
		out       []Node
		current   []byte
		linkText  []byte
		linkURL   []byte
		state     = linkIdle
		spaceOnly = true
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '[' && state == linkIdle:
			if len(current) > 0 {
				typ := TypeText
				if spaceOnly {
					typ = TypeSpace
				}
				out = append(out, Leaf{Type: typ, Content: string(current)})
				current = current[:0]
				spaceOnly = true
			}
			state = linkInText
			linkText = append(linkText, c)

		case c == ']' && state == linkInText:
			linkText = append(linkText, c)
			if i+1 < len(s) && s[i+1] == '(' {
				state = linkInURL
				linkURL = append(linkURL, '(')
				i++
				continue
			}
			// No url follows: the bracketed run is plain text.
			state = linkIdle
			current = append(current, linkText...)
			linkText = linkText[:0]
			spaceOnly = false

		case c == ')' && state == linkInURL:
			linkURL = append(linkURL, c)
			state = linkIdle
			lt, lu := string(linkText), string(linkURL)
			out = append(out, Leaf{Type: TypeLinkText, Content: lt}, Leaf{Type: TypeLinkURL, Content: lu})
			meta.Record(lu, lt)
			linkText = linkText[:0]
			linkURL = linkURL[:0]

		case state == linkInText:
			linkText = append(linkText, c)

		case state == linkInURL:
			linkURL = append(linkURL, c)

		default:
			current = append(current, c)
			if c != ' ' {
				spaceOnly = false
			}
		}
	}

	// Unterminated link text or url degrades to plain text.
	for _, rest := range [][]byte{current, linkText, linkURL} {
		if len(rest) > 0 {
			out = append(out, text(string(rest)))
		}
	}
	return out
}

type spanState uint8

const (
	spanIdle spanState = iota
	spanOpen
)

func scanCode(s string) []Node {
	return scanDelimited(s, '`', '`', TypeCode)
}

func scanRefs(s string) []Node {
	return scanDelimited(s, '{', '}', TypeRef)
}

// scanDelimited wraps open...close runs into a typ element whose single
// text leaf keeps both delimiters. The opening delimiter seeds the run and
// the closing one is appended before wrapping. An unclosed run stays text.
func scanDelimited(s string, open, close byte, typ string) []Node {
	var (
		out     []Node
		current []byte
		state   = spanIdle
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case state == spanIdle && c == open:
			if len(current) > 0 {
				out = append(out, text(string(current)))
			}
			current = append(current[:0], c)
			state = spanOpen
		case state == spanOpen && c == close:
			current = append(current, c)
			out = append(out, wrap(typ, string(current)))
			current = current[:0]
			state = spanIdle
		default:
			current = append(current, c)
		}
	}

	if len(current) > 0 {
		out = append(out, text(string(current)))
	}
	return out
}

type emphasisState uint8

const (
	inBold emphasisState = 1 << iota
	inItalic
)

// scanEmphasis toggles bold on "**" and italic on a lone "*". The two
// toggles are independent, so overlapping bold and italic runs come out
// wrong; every byte is still kept.
// TODO: track an open-marker stack so "*a **b** c*" nests bold in italic.
func scanEmphasis(s string) []Node {
	var (
		out     []Node
		current []byte
		state   emphasisState
	)

	toggle := func(flag emphasisState, marker, typ string) {
		if state&flag != 0 {
			current = append(current, marker...)
			out = append(out, wrap(typ, string(current)))
			current = current[:0]
			state &^= flag
			return
		}
		if len(current) > 0 {
			out = append(out, text(string(current)))
		}
		current = append(current[:0], marker...)
		state |= flag
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '*' {
			current = append(current, c)
			continue
		}
		if i+1 < len(s) && s[i+1] == '*' {
			toggle(inBold, "**", TypeBold)
			i++
			continue
		}
		toggle(inItalic, "*", TypeItalic)
	}

	if len(current) > 0 {
		out = append(out, text(string(current)))
	}
	return out
}
