package notes

import (
	"strings"
	"testing"
	"time"
)

func TestEncodeDecode(t *testing.T) {
	created := time.Date(2024, 4, 25, 10, 0, 0, 0, time.UTC)
	n := Note{
		ID:        "n-1a2b3c4d",
		Title:     "Groceries",
		Content:   "- milk\n---\n- eggs\n",
		CreatedAt: created,
		UpdatedAt: created.Add(5 * time.Minute),
	}
	data := Encode(n)
	if !strings.HasPrefix(string(data), "id: n-1a2b3c4d\ntitle: Groceries\n") {
		t.Fatalf("unexpected header:\n%s", data)
	}
	got := Decode(data, time.Now())
	if got.ID != n.ID || got.Title != n.Title || got.Content != n.Content {
		t.Fatalf("decode mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(n.CreatedAt) || !got.UpdatedAt.Equal(n.UpdatedAt) {
		t.Fatalf("timestamps mismatch: %v %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestDecodeWithoutHeader(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got := Decode([]byte("just text\nmore: text"), now)
	if got.Content != "just text\nmore: text" {
		t.Fatalf("expected whole file as content, got %q", got.Content)
	}
	if got.ID != "unknown" {
		t.Fatalf("expected unknown id, got %q", got.ID)
	}
	if !got.CreatedAt.Equal(now) || !got.UpdatedAt.Equal(now) {
		t.Fatal("expected timestamps to fall back to now")
	}
}

func TestDecodeBadTimestamp(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got := Decode([]byte("id: 2024-04-25\ncreated_at: soon\n---\nbody"), now)
	if got.ID != "2024-04-25" || got.Content != "body" {
		t.Fatalf("unexpected note %+v", got)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("expected fallback time, got %v", got.CreatedAt)
	}
}

func TestEncodeKeepsTitleOnOneLine(t *testing.T) {
	now := time.Date(2024, 4, 25, 10, 0, 0, 0, time.UTC)
	data := Encode(Note{ID: "n-1a2b3c4d", Title: "x\n---\ny", Content: "body", CreatedAt: now, UpdatedAt: now})
	got := Decode(data, now)
	if got.Title != "x --- y" || got.Content != "body" {
		t.Fatalf("unexpected decode: title %q content %q", got.Title, got.Content)
	}
}
