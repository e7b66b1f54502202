package search

import (
	"testing"
	"time"

	"github.com/its-jojoo/clipshelf/internal/core"
)

func ids(items []core.ClipboardItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestFilter_CaseInsensitiveKeepsOrder(t *testing.T) {
	items := core.SortHistory([]core.ClipboardItem{
		{ID: "a", Content: "Hello there", CreatedAt: 3},
		{ID: "b", Content: "nothing", CreatedAt: 2, IsPinned: true},
		{ID: "c", Content: "say HELLO", CreatedAt: 1, IsPinned: true},
		{ID: "d", Content: "hello again", CreatedAt: 4},
	})

	got := ids(Filter(items, "hello"))
	want := []string{"c", "d", "a"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestFilter_EmptyTermKeepsAll(t *testing.T) {
	items := []core.ClipboardItem{{ID: "1"}, {ID: "2"}}
	if got := Filter(items, "  "); len(got) != 2 {
		t.Fatalf("expected all items, got %d", len(got))
	}
	if got := Filter(nil, "x"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result")
	}
}

func TestFilterSnippets_NameOrContent(t *testing.T) {
	snippets := []core.Snippet{
		{ID: "1", Name: "Greeting", Content: "hi"},
		{ID: "2", Name: "sql", Content: "SELECT * FROM greetings"},
		{ID: "3", Name: "other", Content: "x"},
	}
	got := FilterSnippets(snippets, "GREET")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("unexpected matches: %v", got)
	}
}

func TestRank_PinnedBoost(t *testing.T) {
	now := time.Now()
	items := []core.ClipboardItem{
		{ID: "1", Content: "hello world", CreatedAt: now.Add(-time.Minute).UnixMilli()},
		{ID: "2", Content: "hello world", IsPinned: true, CreatedAt: now.Add(-time.Hour).UnixMilli()},
	}

	got := Rank(items, "hello", Options{Limit: 10, Now: now})
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].ID != "2" {
		t.Fatalf("expected pinned item first, got %s", got[0].ID)
	}
}

func TestRank_ExactBeatsSubstring(t *testing.T) {
	now := time.Now()
	items := []core.ClipboardItem{
		{ID: "sub", Content: "xx go yy", CreatedAt: now.UnixMilli()},
		{ID: "exact", Content: "Go", CreatedAt: now.Add(-48 * time.Hour).UnixMilli()},
		{ID: "miss", Content: "rust", CreatedAt: now.UnixMilli()},
	}
	got := ids(Rank(items, "go", Options{Now: now}))
	if len(got) != 2 || got[0] != "exact" || got[1] != "sub" {
		t.Fatalf("got %v", got)
	}
	if Rank(items, "", Options{Now: now}) != nil {
		t.Fatalf("empty query should match nothing")
	}
}

func TestRank_Limit(t *testing.T) {
	items := []core.ClipboardItem{{ID: "1", Content: "a"}, {ID: "2", Content: "a"}, {ID: "3", Content: "a"}}
	if got := Rank(items, "a", Options{Limit: 2}); len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
}
