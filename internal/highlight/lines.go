package highlight

import "strings"

// Line is one physical source line without its trailing newline.
// Start and End are byte offsets into the original text.
type Line struct {
	Content string `json:"content"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// SplitLines splits src on '\n'. Empty input yields no lines; a trailing
// newline yields a final zero-length line, so joining the contents with
// "\n" always gives back src.
func SplitLines(src string) []Line {
	if len(src) == 0 {
		return []Line{}
	}

	lines := make([]Line, 0, strings.Count(src, "\n")+1)
	lineStart := 0
	for idx := 0; idx < len(src); idx++ {
		if src[idx] != '\n' {
			continue
		}
		lines = append(lines, Line{
			Content: src[lineStart:idx],
			Start:   lineStart,
			End:     idx,
		})
		lineStart = idx + 1
	}

	// Last line, possibly empty after a trailing newline.
	lines = append(lines, Line{
		Content: src[lineStart:],
		Start:   lineStart,
		End:     len(src),
	})
	return lines
}
