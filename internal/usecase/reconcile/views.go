package reconcile

import (
	"fmt"

	"github.com/its-jojoo/clipshelf/internal/core"
)

// SuggestionHistoryLimit is how many history entries feed a suggestion request.
const SuggestionHistoryLimit = 5

// View is a consistent copy of the mirrors.
type View struct {
	UserID           string
	History          []core.ClipboardItem // mirror order
	Snippets         []core.Snippet
	Categories       []core.SnippetCategory
	CategoriesLoaded bool
	// Ready is set once all three collections have delivered a snapshot.
	Ready bool
	// Seeded is set when the default categories were written during this
	// attachment.
	Seeded bool
}

func (s *Service) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

func (s *Service) viewLocked() View {
	return View{
		UserID:           s.userID,
		History:          clone(s.history),
		Snippets:         clone(s.snippets),
		Categories:       clone(s.categories),
		CategoriesLoaded: s.categoriesLoaded,
		Ready:            len(s.loaded) == 3,
		Seeded:           s.seeded,
	}
}

// Ready reports whether every mirror has received its first snapshot.
func Ready(v View) bool { return v.Ready }

// Settled reports whether the mirrors are loaded and, when the default
// categories had to be seeded, already show both of them.
func Settled(v View) bool {
	if !v.Ready {
		return false
	}
	if !v.Seeded {
		return true
	}
	found := 0
	for _, c := range v.Categories {
		if core.IsReservedCategory(c.ID) {
			found++
		}
	}
	return found == len(core.DefaultCategories())
}

func (s *Service) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// History is the display order: pinned first, then newest first.
func (s *Service) History() []core.ClipboardItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.SortHistory(s.history)
}

// RawHistory is the history mirror in subscription order.
func (s *Service) RawHistory() []core.ClipboardItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.history)
}

func (s *Service) Snippets() []core.Snippet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.snippets)
}

// Categories returns the mirrored categories. Until the first categories
// snapshot arrives for a signed-in user the defaults stand in.
func (s *Service) Categories() []core.SnippetCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.userID != "" && !s.categoriesLoaded {
		return core.DefaultCategories()
	}
	return clone(s.categories)
}

// SnippetsForCategory filters the snippet mirror, keeping mirror order.
func (s *Service) SnippetsForCategory(categoryID string) []core.Snippet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterSnippets(s.snippets, categoryID)
}

// SuggestionContext returns the data a suggestion request is built from:
// the contents of the first history entries in display order, and every
// snippet rendered as "Name: <name>, Content: <content>".
func (s *Service) SuggestionContext() (history, snippets []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ordered := core.SortHistory(s.history)
	if len(ordered) > SuggestionHistoryLimit {
		ordered = ordered[:SuggestionHistoryLimit]
	}
	history = make([]string, 0, len(ordered))
	for _, it := range ordered {
		history = append(history, it.Content)
	}
	snippets = make([]string, 0, len(s.snippets))
	for _, sn := range s.snippets {
		snippets = append(snippets, fmt.Sprintf("Name: %s, Content: %s", sn.Name, sn.Content))
	}
	return history, snippets
}

func filterSnippets(snippets []core.Snippet, categoryID string) []core.Snippet {
	out := make([]core.Snippet, 0)
	for _, sn := range snippets {
		if sn.CategoryID == categoryID {
			out = append(out, sn)
		}
	}
	return out
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
