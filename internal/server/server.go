// Package server wires the MCP tools to a library instance.
//
// No business logic lives here, only wiring.
package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/its-jojoo/clipshelf/internal/adapter/suggest"
	"github.com/its-jojoo/clipshelf/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

type toolHandler interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// New creates the MCP server with every tool registered. The suggest tool
// is only registered when s is non-nil.
func New(lib tools.Library, s suggest.Suggester) *server.MCPServer {
	srv := server.NewMCPServer(
		"clipshelf",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	handlers := []toolHandler{
		tools.NewHistoryListTool(lib),
		tools.NewHistoryAddTool(lib),
		tools.NewHistoryPinTool(lib),
		tools.NewHistoryDeleteTool(lib),
		tools.NewSnippetListTool(lib),
		tools.NewSnippetSaveTool(lib),
		tools.NewSnippetDeleteTool(lib),
		tools.NewCategoryListTool(lib),
		tools.NewCategorySaveTool(lib),
		tools.NewCategoryDeleteTool(lib),
	}
	if s != nil {
		handlers = append(handlers, tools.NewSuggestTool(lib, s))
	}
	for _, h := range handlers {
		srv.AddTool(h.Definition(), h.Handle)
	}
	return srv
}

const instructions = `clipshelf keeps the signed-in user's clipboard history and saved snippets.
Use clipshelf_history to look at recent clipboard entries, clipshelf_snippets and
clipshelf_categories to browse saved snippets, and clipshelf_suggest to find the
snippets that fit what the user is typing. Writes are confirmed once the store
has accepted them.`
