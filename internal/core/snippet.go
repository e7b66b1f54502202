package core

const (
	CategoryGeneral = "general"
	CategoryCode    = "code"
)

type Snippet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	CategoryID string `json:"categoryId"`
	CreatedAt  int64  `json:"createdAt"`
}

func (s Snippet) Fields() map[string]any {
	return map[string]any{
		"id":         s.ID,
		"name":       s.Name,
		"content":    s.Content,
		"categoryId": s.CategoryID,
		"createdAt":  s.CreatedAt,
	}
}

type SnippetCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c SnippetCategory) Fields() map[string]any {
	return map[string]any{"id": c.ID, "name": c.Name}
}

// DefaultCategories are seeded for a user whose category collection is empty.
func DefaultCategories() []SnippetCategory {
	return []SnippetCategory{
		{ID: CategoryGeneral, Name: "General"},
		{ID: CategoryCode, Name: "Code Fragments"},
	}
}

// IsReservedCategory reports whether id is one of the seeded categories,
// which can never be deleted.
func IsReservedCategory(id string) bool {
	return id == CategoryGeneral || id == CategoryCode
}
