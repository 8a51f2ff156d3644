package highlight

import "strings"

type TodoItem struct {
	LineNo int
	State  string
	Text   string
}

func (t TodoItem) Open() bool {
	return t.State != TypeTodoDone
}

// Todos lists the todo markers found in parsed lines. LineNo is 1-based.
func Todos(nodes []Node) []TodoItem {
	var out []TodoItem
	for i, n := range nodes {
		line, ok := n.(Element)
		if !ok {
			continue
		}
		for _, child := range line.Content {
			sub, ok := child.(Element)
			if !ok || !isTodoType(sub.Type) {
				continue
			}
			var b strings.Builder
			// Skip the marker and its separator.
			for _, body := range sub.Content[2:] {
				writeLeaves(&b, body)
			}
			out = append(out, TodoItem{
				LineNo: i + 1,
				State:  sub.Type,
				Text:   strings.TrimSpace(b.String()),
			})
		}
	}
	return out
}

func isTodoType(typ string) bool {
	switch typ {
	case TypeTodo, TypeTodoDone, TypeTodoProgress:
		return true
	}
	return false
}
