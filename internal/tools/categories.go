package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/its-jojoo/clipshelf/internal/core"
)

// CategoryListTool handles the clipshelf_categories tool.
type CategoryListTool struct {
	lib Library
}

func NewCategoryListTool(lib Library) *CategoryListTool {
	return &CategoryListTool{lib: lib}
}

func (t *CategoryListTool) Definition() mcp.Tool {
	return mcp.NewTool("clipshelf_categories",
		mcp.WithDescription("List snippet categories with the number of snippets in each."),
	)
}

func (t *CategoryListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := requireUser(t.lib); res != nil {
		return res, nil
	}
	var b strings.Builder
	for _, c := range t.lib.Categories() {
		lock := ""
		if core.IsReservedCategory(c.ID) {
			lock = " (reserved)"
		}
		fmt.Fprintf(&b, "- `%s` %s%s: %d snippets\n", c.ID, c.Name, lock, len(t.lib.SnippetsForCategory(c.ID)))
	}
	if b.Len() == 0 {
		return mcp.NewToolResultText("(empty)"), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

// CategorySaveTool handles the clipshelf_category_save tool.
type CategorySaveTool struct {
	lib Library
}

func NewCategorySaveTool(lib Library) *CategorySaveTool {
	return &CategorySaveTool{lib: lib}
}

func (t *CategorySaveTool) Definition() mcp.Tool {
	return mcp.NewTool("clipshelf_category_save",
		mcp.WithDescription("Create a category, or rename the category with the given id."),
		mcp.WithString("id", mcp.Description("Category id to rename. Omit to create.")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Category name.")),
	)
}

func (t *CategorySaveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := requireUser(t.lib); res != nil {
		return res, nil
	}
	name := strings.TrimSpace(req.GetString("name", ""))
	if name == "" {
		return mcp.NewToolResultError("`name` is required."), nil
	}
	if id := req.GetString("id", ""); id != "" {
		return finish(ctx, t.lib.UpdateCategory(core.SnippetCategory{ID: id, Name: name}),
			fmt.Sprintf("Renamed `%s` to %q.", id, name), "Category not saved."), nil
	}
	return finish(ctx, t.lib.AddCategory(name), fmt.Sprintf("Created category %q.", name), "Category not saved."), nil
}

// CategoryDeleteTool handles the clipshelf_category_delete tool.
type CategoryDeleteTool struct {
	lib Library
}

func NewCategoryDeleteTool(lib Library) *CategoryDeleteTool {
	return &CategoryDeleteTool{lib: lib}
}

func (t *CategoryDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("clipshelf_category_delete",
		mcp.WithDescription("Delete a category together with every snippet in it. "+
			"The `general` and `code` categories cannot be deleted."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Category id.")),
	)
}

func (t *CategoryDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := requireUser(t.lib); res != nil {
		return res, nil
	}
	id := req.GetString("id", "")
	if core.IsReservedCategory(id) {
		return mcp.NewToolResultError(fmt.Sprintf("Category %q is reserved and cannot be deleted.", id)), nil
	}
	b := t.lib.DeleteCategory(id)
	return finish(ctx, b, fmt.Sprintf("Deleted category `%s` and %d snippets.", id, b.Len()-1), "Nothing deleted."), nil
}
