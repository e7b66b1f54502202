package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/its-jojoo/clipshelf/internal/usecase/search"
)

// HistoryListTool handles the clipshelf_history tool.
type HistoryListTool struct {
	lib Library
}

func NewHistoryListTool(lib Library) *HistoryListTool {
	return &HistoryListTool{lib: lib}
}

func (t *HistoryListTool) Definition() mcp.Tool {
	return mcp.NewTool("clipshelf_history",
		mcp.WithDescription("List the clipboard history, pinned items first and then newest first. "+
			"Optionally filter by a case-insensitive search term."),
		mcp.WithString("query", mcp.Description("Only show items whose content contains this text.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of items to return (default 50).")),
	)
}

func (t *HistoryListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := requireUser(t.lib); res != nil {
		return res, nil
	}
	items := search.Filter(t.lib.History(), req.GetString("query", ""))
	if limit := int(req.GetFloat("limit", 50)); limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return mcp.NewToolResultText(formatHistory(items)), nil
}

// HistoryAddTool handles the clipshelf_history_add tool.
type HistoryAddTool struct {
	lib Library
}

func NewHistoryAddTool(lib Library) *HistoryAddTool {
	return &HistoryAddTool{lib: lib}
}

func (t *HistoryAddTool) Definition() mcp.Tool {
	return mcp.NewTool("clipshelf_history_add",
		mcp.WithDescription("Add text to the clipboard history. Text already in the history is ignored."),
		mcp.WithString("content", mcp.Required(), mcp.Description("The text to record.")),
	)
}

func (t *HistoryAddTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := requireUser(t.lib); res != nil {
		return res, nil
	}
	content := req.GetString("content", "")
	return finish(ctx, t.lib.AddHistoryItem(content),
		"Added to history.",
		"Nothing added: the content is empty or already in the history."), nil
}

// HistoryPinTool handles the clipshelf_history_pin tool.
type HistoryPinTool struct {
	lib Library
}

func NewHistoryPinTool(lib Library) *HistoryPinTool {
	return &HistoryPinTool{lib: lib}
}

func (t *HistoryPinTool) Definition() mcp.Tool {
	return mcp.NewTool("clipshelf_history_pin",
		mcp.WithDescription("Toggle the pinned flag of a history item. Pinned items survive a clear."),
		mcp.WithString("id", mcp.Required(), mcp.Description("History item id.")),
	)
}

func (t *HistoryPinTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := requireUser(t.lib); res != nil {
		return res, nil
	}
	id := req.GetString("id", "")
	return finish(ctx, t.lib.TogglePinHistoryItem(id),
		fmt.Sprintf("Toggled pin on `%s`.", id),
		fmt.Sprintf("History item %q not found.", id)), nil
}

// HistoryDeleteTool handles the clipshelf_history_delete tool.
type HistoryDeleteTool struct {
	lib Library
}

func NewHistoryDeleteTool(lib Library) *HistoryDeleteTool {
	return &HistoryDeleteTool{lib: lib}
}

func (t *HistoryDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("clipshelf_history_delete",
		mcp.WithDescription("Delete one history item, or every unpinned item when `all` is true."),
		mcp.WithString("id", mcp.Description("History item id.")),
		mcp.WithBoolean("all", mcp.Description("Clear every unpinned item instead.")),
	)
}

func (t *HistoryDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := requireUser(t.lib); res != nil {
		return res, nil
	}
	if req.GetBool("all", false) {
		b := t.lib.ClearHistory()
		if b.Len() == 0 {
			return mcp.NewToolResultText("Nothing to clear."), nil
		}
		return finish(ctx, b, fmt.Sprintf("Cleared %d items.", b.Len()), ""), nil
	}
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("Either `id` or `all` is required."), nil
	}
	return finish(ctx, t.lib.DeleteHistoryItem(id), fmt.Sprintf("Deleted `%s`.", id), "Nothing deleted."), nil
}
