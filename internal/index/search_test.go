//go:build sqlite_fts5

package index

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestSearchMatchesTitleAndBody(t *testing.T) {
	now := time.Now()
	idx := openTestIndex(t, staticSource{
		note("n-00000010", "Groceries", "milk and eggs", now),
		note("2024-04-25", "", "meeting about the garden", now),
	})
	ctx := context.Background()

	res, err := idx.Search(ctx, "groceries", 10)
	if err != nil {
		t.Fatalf("search title: %v", err)
	}
	if len(res) != 1 || res[0].ID != "n-00000010" {
		t.Fatalf("unexpected title results %#v", res)
	}

	res, err = idx.Search(ctx, "gard", 10)
	if err != nil {
		t.Fatalf("search prefix: %v", err)
	}
	if len(res) != 1 || res[0].ID != "2024-04-25" || !strings.Contains(res[0].Snippet, "[garden]") {
		t.Fatalf("unexpected body results %#v", res)
	}

	res, err = idx.Search(ctx, `"unbalanced`, 10)
	if err != nil {
		t.Fatalf("search with syntax characters: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("expected no results, got %#v", res)
	}
}
