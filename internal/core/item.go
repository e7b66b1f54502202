package core

import "time"

// ClipboardItem is one entry of a user's clipboard history.
type ClipboardItem struct {
	ID          string      `json:"id"`
	ContentType ContentType `json:"contentType"`
	Content     string      `json:"content"`
	CreatedAt   int64       `json:"createdAt"` // ms since epoch
	IsPinned    bool        `json:"isPinned"`
}

func (it ClipboardItem) Created() time.Time { return time.UnixMilli(it.CreatedAt) }

// Fields is the document payload written to the history collection.
func (it ClipboardItem) Fields() map[string]any {
	return map[string]any{
		"id":          it.ID,
		"contentType": string(it.ContentType),
		"content":     it.Content,
		"createdAt":   it.CreatedAt,
		"isPinned":    it.IsPinned,
	}
}
