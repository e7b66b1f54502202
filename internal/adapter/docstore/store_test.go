package docstore

import (
	"testing"
)

func TestValidateRef(t *testing.T) {
	cases := []struct {
		collection string
		id         string
		ok         bool
	}{
		{"users/u1/snippets", "abc", true},
		{"users/u1/snippets", "", true},
		{"users/u1", "", false},
		{"users//snippets", "", false},
		{"", "", false},
		{"users/u1/snippets", "a/b", false},
	}
	for _, tc := range cases {
		err := ValidateRef(tc.collection, tc.id)
		if (err == nil) != tc.ok {
			t.Errorf("ValidateRef(%q, %q) err=%v, want ok=%v", tc.collection, tc.id, err, tc.ok)
		}
	}
}

func TestUserCollection(t *testing.T) {
	if got := UserCollection("u1", CollectionHistory); got != "users/u1/clipboardItems" {
		t.Fatalf("got %q", got)
	}
	if got := DocPath("users/u1/categories", "general"); got != "users/u1/categories/general" {
		t.Fatalf("got %q", got)
	}
}

func TestApplyUpsert(t *testing.T) {
	existing := map[string]any{"a": 1, "b": 2}

	merged := ApplyUpsert(existing, map[string]any{"b": 3}, UpsertOptions{Merge: true})
	if merged["a"] != 1 || merged["b"] != 3 {
		t.Fatalf("merge: %v", merged)
	}

	replaced := ApplyUpsert(existing, map[string]any{"b": 3}, UpsertOptions{})
	if _, ok := replaced["a"]; ok || replaced["b"] != 3 {
		t.Fatalf("replace: %v", replaced)
	}
	if existing["b"] != 2 {
		t.Fatalf("existing map mutated")
	}
}

func TestDocumentDecode(t *testing.T) {
	d := Document{ID: "x", Fields: map[string]any{"id": "x", "createdAt": int64(1700000000123), "isPinned": true}}
	var out struct {
		ID        string `json:"id"`
		CreatedAt int64  `json:"createdAt"`
		IsPinned  bool   `json:"isPinned"`
	}
	if err := d.Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.CreatedAt != 1700000000123 || !out.IsPinned {
		t.Fatalf("unexpected decode: %+v", out)
	}
}

func TestHub_LatestWins(t *testing.T) {
	h := NewHub()
	defer h.Close()

	ch, err := h.Subscribe(t.Context(), "users/u/snippets", Snapshot{Collection: "users/u/snippets"})
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 3; i++ {
		docs := make([]Document, i)
		for j := range docs {
			docs[j] = Document{ID: string(rune('a' + j))}
		}
		h.Publish(Snapshot{Collection: "users/u/snippets", Docs: docs})
	}

	snap := <-ch
	if len(snap.Docs) != 3 {
		t.Fatalf("expected only the latest snapshot, got %d docs", len(snap.Docs))
	}
	if h.Subscribers("users/u/snippets") != 1 {
		t.Fatalf("expected one subscriber")
	}
}

func TestHub_ClosedRejectsSubscribe(t *testing.T) {
	h := NewHub()
	h.Close()
	if _, err := h.Subscribe(t.Context(), "users/u/snippets", Snapshot{}); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
