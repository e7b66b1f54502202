package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/its-jojoo/clipshelf/internal/adapter/docstore/memory"
	"github.com/its-jojoo/clipshelf/internal/adapter/suggest"
	"github.com/its-jojoo/clipshelf/internal/usecase/reconcile"
)

type noSuggestions struct{}

func (noSuggestions) Suggest(context.Context, suggest.Request) (suggest.Response, error) {
	return suggest.Response{SuggestedSnippets: []string{}}, nil
}

func listTools(t *testing.T, s suggest.Suggester) []string {
	t.Helper()
	lib := reconcile.New(memory.New(), reconcile.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	srv := New(lib, s)

	srv.HandleMessage(context.Background(), json.RawMessage(
		`{"jsonrpc":"2.0","id":0,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`))
	msg := srv.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var resp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))
	names := make([]string, 0, len(resp.Result.Tools))
	for _, tl := range resp.Result.Tools {
		names = append(names, tl.Name)
	}
	return names
}

func TestNew_RegistersTools(t *testing.T) {
	names := listTools(t, noSuggestions{})
	assert.Len(t, names, 11)
	assert.Contains(t, names, "clipshelf_history")
	assert.Contains(t, names, "clipshelf_category_delete")
	assert.Contains(t, names, "clipshelf_suggest")
}

func TestNew_WithoutSuggester(t *testing.T) {
	names := listTools(t, nil)
	assert.Len(t, names, 10)
	assert.NotContains(t, names, "clipshelf_suggest")
}
