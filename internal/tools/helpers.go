// Package tools implements the MCP tool handlers over the clipboard
// library.
//
// Each tool keeps its dependencies in a struct and exposes Definition and
// Handle for registration with mcp-go.
package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/its-jojoo/clipshelf/internal/core"
	"github.com/its-jojoo/clipshelf/internal/usecase/reconcile"
)

// Library is the part of the reconciliation core the tools use.
type Library interface {
	UserID() string
	History() []core.ClipboardItem
	Snippets() []core.Snippet
	Categories() []core.SnippetCategory
	SnippetsForCategory(categoryID string) []core.Snippet
	SuggestionContext() (history, snippets []string)

	AddHistoryItem(content string) *reconcile.Batch
	TogglePinHistoryItem(id string) *reconcile.Batch
	DeleteHistoryItem(id string) *reconcile.Batch
	ClearHistory() *reconcile.Batch
	AddSnippet(in reconcile.SnippetInput) *reconcile.Batch
	UpdateSnippet(sn core.Snippet) *reconcile.Batch
	DeleteSnippet(id string) *reconcile.Batch
	AddCategory(name string) *reconcile.Batch
	UpdateCategory(c core.SnippetCategory) *reconcile.Batch
	DeleteCategory(id string) *reconcile.Batch
}

// WriteTimeout bounds how long a tool waits for its writes to land.
var WriteTimeout = 10 * time.Second

var errNoUser = errors.New("no user signed in; run `clipshelf login <user>` first")

func requireUser(lib Library) *mcp.CallToolResult {
	if lib.UserID() == "" {
		return mcp.NewToolResultError(errNoUser.Error())
	}
	return nil
}

// finish waits for b and turns the outcome into a tool result. rejected is
// reported when the operation dispatched nothing.
func finish(ctx context.Context, b *reconcile.Batch, ok, rejected string) *mcp.CallToolResult {
	if b.Len() == 0 {
		return mcp.NewToolResultError(rejected)
	}
	ctx, cancel := context.WithTimeout(ctx, WriteTimeout)
	defer cancel()
	if err := b.Wait(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("write failed: %v", err))
	}
	return mcp.NewToolResultText(ok)
}

func formatHistory(items []core.ClipboardItem) string {
	if len(items) == 0 {
		return "(empty)"
	}
	var b strings.Builder
	for i, it := range items {
		pin := " "
		if it.IsPinned {
			pin = "★"
		}
		fmt.Fprintf(&b, "%2d %s `%s` %s\n", i+1, pin, it.ID, core.Preview(it.Content, 80))
	}
	return b.String()
}

func formatSnippets(snippets []core.Snippet) string {
	if len(snippets) == 0 {
		return "(empty)"
	}
	var b strings.Builder
	for _, sn := range snippets {
		fmt.Fprintf(&b, "- `%s` **%s** [%s]: %s\n", sn.ID, sn.Name, sn.CategoryID, core.Preview(sn.Content, 80))
	}
	return b.String()
}
