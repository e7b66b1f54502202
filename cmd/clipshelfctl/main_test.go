package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/its-jojoo/clipshelf/internal/adapter/docstore"
	"github.com/its-jojoo/clipshelf/internal/adapter/docstore/memory"
	"github.com/its-jojoo/clipshelf/internal/adapter/docstore/sqlite"
	"github.com/its-jojoo/clipshelf/internal/core"
)

func seed(t *testing.T, st docstore.Store, uid string) {
	t.Helper()
	ctx := context.Background()
	hist := docstore.UserCollection(uid, docstore.CollectionHistory)
	require.NoError(t, st.Upsert(ctx, hist, "h1", core.ClipboardItem{ID: "h1", ContentType: core.ContentTypeText, Content: "one", CreatedAt: 1_700_000_000_123}.Fields(), docstore.UpsertOptions{}))
	require.NoError(t, st.Upsert(ctx, hist, "h2", core.ClipboardItem{ID: "h2", ContentType: core.ContentTypeText, Content: "two", CreatedAt: 2, IsPinned: true}.Fields(), docstore.UpsertOptions{}))
	cats := docstore.UserCollection(uid, docstore.CollectionCategories)
	for _, c := range core.DefaultCategories() {
		require.NoError(t, st.Upsert(ctx, cats, c.ID, c.Fields(), docstore.UpsertOptions{}))
	}
}

func TestExport_CollectsAllCollections(t *testing.T) {
	st := memory.New()
	seed(t, st, "u1")
	seed(t, st, "someone-else")

	exp, err := export(context.Background(), st, "u1", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, "u1", exp.UserID)
	require.Len(t, exp.History, 2)
	assert.Equal(t, "h1", exp.History[0].ID)
	assert.Equal(t, int64(1_700_000_000_123), exp.History[0].CreatedAt)
	assert.True(t, exp.History[1].IsPinned)
	assert.Empty(t, exp.Snippets)
	assert.Equal(t, core.DefaultCategories(), exp.Categories)

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, exp))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "clipboardItems")
	assert.Contains(t, decoded, "snippets")
}

func TestExportCommand_SQLite(t *testing.T) {
	dir := t.TempDir()
	st, err := sqlite.Open(filepath.Join(dir, "clipshelf.db"))
	require.NoError(t, err)
	seed(t, st, "u1")
	require.NoError(t, st.Close())

	out := filepath.Join(dir, "export.json")
	root := newRootCmd()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetArgs([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--backend", "sqlite",
		"--data-dir", dir,
		"export", "--user", "u1", "--out", out,
	})
	require.NoError(t, root.Execute())
	assert.Contains(t, stdout.String(), "exported 2 items, 0 snippets, 2 categories")

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var exp Export
	require.NoError(t, json.Unmarshal(raw, &exp))
	assert.Len(t, exp.History, 2)
}

func TestCollectionsCommand_SQLite(t *testing.T) {
	dir := t.TempDir()
	st, err := sqlite.Open(filepath.Join(dir, "clipshelf.db"))
	require.NoError(t, err)
	seed(t, st, "u1")
	seed(t, st, "u2")
	require.NoError(t, st.Close())

	root := newRootCmd()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetArgs([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--backend", "sqlite",
		"--data-dir", dir,
		"collections", "--prefix", "users/u2/",
	})
	require.NoError(t, root.Execute())
	assert.Equal(t, "users/u2/categories\nusers/u2/clipboardItems\n", stdout.String())
}
