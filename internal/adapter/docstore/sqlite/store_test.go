package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/its-jojoo/clipshelf/internal/adapter/docstore"
	"github.com/its-jojoo/clipshelf/internal/core"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSQLiteStore_UpsertSubscribeDecode(t *testing.T) {
	st := openTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := docstore.UserCollection("u1", docstore.CollectionHistory)
	it := core.ClipboardItem{
		ID:          uuid.NewString(),
		ContentType: core.ContentTypeText,
		Content:     "hello world",
		CreatedAt:   time.Now().UnixMilli(),
	}
	if err := st.Upsert(ctx, path, it.ID, it.Fields(), docstore.UpsertOptions{Merge: true}); err != nil {
		t.Fatal(err)
	}

	ch, err := st.Subscribe(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	snap := <-ch
	if len(snap.Docs) != 1 {
		t.Fatalf("expected 1 doc, got %d", len(snap.Docs))
	}
	var got core.ClipboardItem
	if err := snap.Docs[0].Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got != it {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, it)
	}
}

func TestSQLiteStore_MergeKeepsCreationOrder(t *testing.T) {
	st := openTest(t)
	ctx := context.Background()
	path := docstore.UserCollection("u1", docstore.CollectionHistory)

	for _, id := range []string{"a", "b", "c"} {
		if err := st.Upsert(ctx, path, id, map[string]any{"id": id, "isPinned": false}, docstore.UpsertOptions{Merge: true}); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.Upsert(ctx, path, "a", map[string]any{"isPinned": true}, docstore.UpsertOptions{Merge: true}); err != nil {
		t.Fatal(err)
	}

	snap, err := st.snapshot(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Docs) != 3 || snap.Docs[0].ID != "a" {
		t.Fatalf("expected a first, got %+v", snap.Docs)
	}
	if snap.Docs[0].Fields["isPinned"] != true || snap.Docs[0].Fields["id"] != "a" {
		t.Fatalf("merge lost fields: %+v", snap.Docs[0].Fields)
	}
}

func TestSQLiteStore_DeletePublishes(t *testing.T) {
	st := openTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	path := docstore.UserCollection("u1", docstore.CollectionSnippets)

	_ = st.Upsert(ctx, path, "s1", map[string]any{"name": "n"}, docstore.UpsertOptions{})
	ch, err := st.Subscribe(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if snap := <-ch; len(snap.Docs) != 1 {
		t.Fatalf("expected 1 doc")
	}

	if err := st.Delete(ctx, path, "s1"); err != nil {
		t.Fatal(err)
	}
	select {
	case snap := <-ch:
		if len(snap.Docs) != 0 {
			t.Fatalf("expected empty snapshot after delete")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no snapshot after delete")
	}

	if err := st.Delete(ctx, path, "s1"); err != nil {
		t.Fatalf("deleting a missing doc should succeed, got %v", err)
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	db := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()
	path := docstore.UserCollection("u1", docstore.CollectionCategories)

	st, err := Open(db)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range core.DefaultCategories() {
		if err := st.Upsert(ctx, path, c.ID, c.Fields(), docstore.UpsertOptions{}); err != nil {
			t.Fatal(err)
		}
	}
	_ = st.Close()

	st, err = Open(db)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	cols, err := st.Collections(ctx, "users/u1/")
	if err != nil {
		t.Fatal(err)
	}
	if len(cols) != 1 || cols[0] != path {
		t.Fatalf("unexpected collections: %v", cols)
	}
	snap, err := st.snapshot(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Docs) != 2 || snap.Docs[0].ID != core.CategoryGeneral {
		t.Fatalf("unexpected categories after reopen: %+v", snap.Docs)
	}
}
