package highlight

import (
	"regexp"
	"strings"
)

// Pattern pairs a marker with the type it selects. Tables of patterns are
// checked in order and a marker only matches when followed by a space.
type Pattern struct {
	Marker string
	Type   string
}

var lineTypes = []Pattern{
	{"#", "h1"},
	{"##", "h2"},
	{"###", "h3"},
	{"####", "h4"},
	{"#####", "h5"},
	{"######", "h6"},
	{">", TypeBlockQuote},
	{"-", TypeListItem},
	{"+", TypeListItem},
}

var lineSubtypes = []Pattern{
	{"[ ]", TypeTodo},
	{"[x]", TypeTodoDone},
	{"[.]", TypeTodoProgress},
}

var numberedRe = regexp.MustCompile(`^(\d+\.)(\s)`)

// LineTypes returns a copy of the block marker table in check order.
func LineTypes() []Pattern {
	return append([]Pattern(nil), lineTypes...)
}

// LineSubtypes returns a copy of the todo marker table in check order.
func LineSubtypes() []Pattern {
	return append([]Pattern(nil), lineSubtypes...)
}

// Match is a recognised marker and the separator consumed after it.
type Match struct {
	Type   string
	Marker string
	Sep    string
}

func (m Match) Found() bool {
	return m.Type != ""
}

func (m Match) Len() int {
	return len(m.Marker) + len(m.Sep)
}

func matchTable(table []Pattern, s string) (Match, bool) {
	for _, p := range table {
		if strings.HasPrefix(s, p.Marker+" ") {
			return Match{Type: p.Type, Marker: p.Marker, Sep: " "}, true
		}
	}
	return Match{}, false
}

// ClassifyLine reports the block type of s, which must already have its
// leading spaces removed.
func ClassifyLine(s string) (Match, bool) {
	if m, ok := matchTable(lineTypes, s); ok {
		return m, true
	}
	if sub := numberedRe.FindStringSubmatch(s); sub != nil {
		return Match{Type: TypeListItemNum, Marker: sub[1], Sep: sub[2]}, true
	}
	return Match{}, false
}

// ClassifySubtype reports a todo marker at the start of s.
func ClassifySubtype(s string) (Match, bool) {
	return matchTable(lineSubtypes, s)
}

// Classification is the block-level breakdown of one line.
type Classification struct {
	Indent  string
	Block   Match
	Subtype Match
	Body    string
}

func Classify(content string) Classification {
	indent := 0
	for indent < len(content) && content[indent] == ' ' {
		indent++
	}
	c := Classification{Indent: content[:indent]}
	rest := content[indent:]

	if m, ok := ClassifyLine(rest); ok {
		c.Block = m
		rest = rest[m.Len():]
	}
	if m, ok := ClassifySubtype(rest); ok {
		c.Subtype = m
		rest = rest[m.Len():]
	}
	c.Body = rest
	return c
}
