package notes

import (
	"strings"
	"time"
)

const headerSeparator = "---"

// Encode writes the note header followed by the content verbatim:
//
//	id: n-1a2b3c4d
//	title: Groceries
//	created_at: 2024-04-25T10:00:00Z
//	updated_at: 2024-04-25T10:05:00Z
//	---
//	content...
func Encode(n Note) []byte {
	var b strings.Builder
	b.WriteString("id: " + n.ID + "\n")
	if title := CleanTitle(n.Title); title != "" {
		b.WriteString("title: " + title + "\n")
	}
	b.WriteString("created_at: " + n.CreatedAt.UTC().Format(time.RFC3339Nano) + "\n")
	b.WriteString("updated_at: " + n.UpdatedAt.UTC().Format(time.RFC3339Nano) + "\n")
	b.WriteString(headerSeparator + "\n")
	b.WriteString(n.Content)
	return []byte(b.String())
}

// Decode parses a note file. A file without a header separator is all
// content; missing timestamps fall back to now.
func Decode(data []byte, now time.Time) Note {
	lines := strings.Split(string(data), "\n")
	header := map[string]string{}
	contentStart := 0
	for i, line := range lines {
		if strings.HasPrefix(line, headerSeparator) {
			contentStart = i + 1
			break
		}
		key, val, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		header[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	if contentStart == 0 {
		header = map[string]string{}
	}

	n := Note{
		ID:        header["id"],
		Title:     header["title"],
		CreatedAt: parseTime(header["created_at"], now),
		UpdatedAt: parseTime(header["updated_at"], now),
		Content:   strings.Join(lines[contentStart:], "\n"),
	}
	if n.ID == "" {
		n.ID = "unknown"
	}
	return n
}

func parseTime(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return fallback
	}
	return t
}
