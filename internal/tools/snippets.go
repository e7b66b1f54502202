package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/its-jojoo/clipshelf/internal/core"
	"github.com/its-jojoo/clipshelf/internal/usecase/reconcile"
	"github.com/its-jojoo/clipshelf/internal/usecase/search"
)

// SnippetListTool handles the clipshelf_snippets tool.
type SnippetListTool struct {
	lib Library
}

func NewSnippetListTool(lib Library) *SnippetListTool {
	return &SnippetListTool{lib: lib}
}

func (t *SnippetListTool) Definition() mcp.Tool {
	return mcp.NewTool("clipshelf_snippets",
		mcp.WithDescription("List saved snippets, optionally restricted to one category and filtered by name or content."),
		mcp.WithString("category_id", mcp.Description("Only snippets in this category.")),
		mcp.WithString("query", mcp.Description("Case-insensitive text to look for in name or content.")),
	)
}

func (t *SnippetListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := requireUser(t.lib); res != nil {
		return res, nil
	}
	snippets := t.lib.Snippets()
	if cat := req.GetString("category_id", ""); cat != "" {
		snippets = t.lib.SnippetsForCategory(cat)
	}
	snippets = search.FilterSnippets(snippets, req.GetString("query", ""))
	return mcp.NewToolResultText(formatSnippets(snippets)), nil
}

// SnippetSaveTool handles the clipshelf_snippet_save tool. Without an id a
// new snippet is created.
type SnippetSaveTool struct {
	lib Library
}

func NewSnippetSaveTool(lib Library) *SnippetSaveTool {
	return &SnippetSaveTool{lib: lib}
}

func (t *SnippetSaveTool) Definition() mcp.Tool {
	return mcp.NewTool("clipshelf_snippet_save",
		mcp.WithDescription("Create a snippet, or update the snippet with the given id."),
		mcp.WithString("id", mcp.Description("Snippet id to update. Omit to create.")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Snippet name.")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Snippet content.")),
		mcp.WithString("category_id", mcp.Description("Category id (default `general`).")),
	)
}

func (t *SnippetSaveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := requireUser(t.lib); res != nil {
		return res, nil
	}
	name := req.GetString("name", "")
	content := req.GetString("content", "")
	if name == "" || content == "" {
		return mcp.NewToolResultError("`name` and `content` are required."), nil
	}
	cat := req.GetString("category_id", core.CategoryGeneral)

	id := req.GetString("id", "")
	if id == "" {
		b := t.lib.AddSnippet(reconcile.SnippetInput{Name: name, Content: content, CategoryID: cat})
		return finish(ctx, b, fmt.Sprintf("Saved snippet %q.", name), "Snippet not saved."), nil
	}

	var existing *core.Snippet
	for _, sn := range t.lib.Snippets() {
		if sn.ID == id {
			existing = &sn
			break
		}
	}
	if existing == nil {
		return mcp.NewToolResultError(fmt.Sprintf("Snippet %q not found.", id)), nil
	}
	existing.Name, existing.Content, existing.CategoryID = name, content, cat
	return finish(ctx, t.lib.UpdateSnippet(*existing), fmt.Sprintf("Updated snippet %q.", name), "Snippet not saved."), nil
}

// SnippetDeleteTool handles the clipshelf_snippet_delete tool.
type SnippetDeleteTool struct {
	lib Library
}

func NewSnippetDeleteTool(lib Library) *SnippetDeleteTool {
	return &SnippetDeleteTool{lib: lib}
}

func (t *SnippetDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("clipshelf_snippet_delete",
		mcp.WithDescription("Delete a snippet."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Snippet id.")),
	)
}

func (t *SnippetDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := requireUser(t.lib); res != nil {
		return res, nil
	}
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("`id` is required."), nil
	}
	return finish(ctx, t.lib.DeleteSnippet(id), fmt.Sprintf("Deleted snippet `%s`.", id), "Nothing deleted."), nil
}
