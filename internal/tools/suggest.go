package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/its-jojoo/clipshelf/internal/adapter/suggest"
)

// SuggestTool handles the clipshelf_suggest tool.
type SuggestTool struct {
	lib       Library
	suggester suggest.Suggester
}

func NewSuggestTool(lib Library, s suggest.Suggester) *SuggestTool {
	return &SuggestTool{lib: lib, suggester: s}
}

func (t *SuggestTool) Definition() mcp.Tool {
	return mcp.NewTool("clipshelf_suggest",
		mcp.WithDescription("Suggest saved snippets relevant to what the user is typing, "+
			"using the recent clipboard history as context."),
		mcp.WithString("current_text", mcp.Description("The text the user is currently typing.")),
		mcp.WithString("current_application", mcp.Description("The application in front (default `VS Code`).")),
	)
}

func (t *SuggestTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := requireUser(t.lib); res != nil {
		return res, nil
	}
	history, snippets := t.lib.SuggestionContext()
	resp, err := t.suggester.Suggest(ctx, suggest.Request{
		CurrentApplication: req.GetString("current_application", suggest.DefaultApplication),
		CurrentText:        req.GetString("current_text", ""),
		ClipboardHistory:   history,
		SavedSnippets:      snippets,
	})
	if err != nil {
		return mcp.NewToolResultError("Failed to get suggestions: " + err.Error()), nil
	}
	if len(resp.SuggestedSnippets) == 0 {
		return mcp.NewToolResultText("No relevant snippets."), nil
	}
	return mcp.NewToolResultText("- " + strings.Join(resp.SuggestedSnippets, "\n- ")), nil
}
