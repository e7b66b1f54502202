package core

import "sort"

// SortHistory returns a copy of items ordered for display: pinned first,
// then most recent first. Equal keys keep their input order.
func SortHistory(items []ClipboardItem) []ClipboardItem {
	out := make([]ClipboardItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

// Unpinned returns the items that a history clear would remove, in input order.
func Unpinned(items []ClipboardItem) []ClipboardItem {
	out := make([]ClipboardItem, 0, len(items))
	for _, it := range items {
		if !it.IsPinned {
			out = append(out, it)
		}
	}
	return out
}

func ContainsContent(items []ClipboardItem, content string) bool {
	for _, it := range items {
		if it.Content == content {
			return true
		}
	}
	return false
}
