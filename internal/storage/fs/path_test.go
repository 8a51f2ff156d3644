package fs

import (
	"path/filepath"
	"testing"
)

func TestNoteFilePath(t *testing.T) {
	dir := filepath.Join("data", "daily")
	cases := []struct {
		id   string
		ok   bool
		want string
	}{
		{"2024-04-25", true, filepath.Join(dir, "2024-04-25.md")},
		{"n-abc12345", true, filepath.Join(dir, "n-abc12345.md")},
		{"note.md", true, filepath.Join(dir, "note.md")},
		{"../escape", false, ""},
		{"a/b", false, ""},
		{"..", false, ""},
		{"", false, ""},
	}

	for _, c := range cases {
		got, err := NoteFilePath(dir, c.id)
		if c.ok && err != nil {
			t.Fatalf("expected ok for %q, got %v", c.id, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("expected err for %q", c.id)
		}
		if c.ok && got != c.want {
			t.Fatalf("expected %q -> %q, got %q", c.id, c.want, got)
		}
	}
}

func TestNoteID(t *testing.T) {
	cases := []struct {
		name string
		id   string
		ok   bool
	}{
		{"2024-04-25.md", "2024-04-25", true},
		{"n-abc.MD", "n-abc", true},
		{".hidden.md", "", false},
		{"notes.txt", "", false},
	}
	for _, c := range cases {
		id, ok := NoteID(c.name)
		if ok != c.ok || id != c.id {
			t.Fatalf("%q: expected (%q, %v), got (%q, %v)", c.name, c.id, c.ok, id, ok)
		}
	}
}
