// Package search filters the history and snippet views by content.
package search

import (
	"sort"
	"strings"
	"time"

	"github.com/its-jojoo/clipshelf/internal/core"
)

// Filter keeps the items whose content contains term, ignoring case. The
// input order is preserved and an empty term keeps everything.
func Filter(items []core.ClipboardItem, term string) []core.ClipboardItem {
	q := normalize(term)
	out := make([]core.ClipboardItem, 0, len(items))
	for _, it := range items {
		if q == "" || strings.Contains(strings.ToLower(it.Content), q) {
			out = append(out, it)
		}
	}
	return out
}

// FilterSnippets matches term against snippet names and contents.
func FilterSnippets(snippets []core.Snippet, term string) []core.Snippet {
	q := normalize(term)
	out := make([]core.Snippet, 0, len(snippets))
	for _, sn := range snippets {
		if q == "" ||
			strings.Contains(strings.ToLower(sn.Name), q) ||
			strings.Contains(strings.ToLower(sn.Content), q) {
			out = append(out, sn)
		}
	}
	return out
}

type Options struct {
	Limit int
	Now   time.Time // optional, for tests
}

// Rank orders the items matching q by relevance: match quality, then a
// pinned boost, then recency. An empty q matches nothing.
func Rank(items []core.ClipboardItem, q string, opt Options) []core.ClipboardItem {
	if opt.Limit <= 0 {
		opt.Limit = 20
	}
	now := opt.Now
	if now.IsZero() {
		now = time.Now()
	}

	q = normalize(q)
	if q == "" {
		return nil
	}

	type scored struct {
		it    core.ClipboardItem
		score int
	}

	scoredItems := make([]scored, 0, len(items))

	for _, it := range items {
		matchScore := scoreMatch(strings.ToLower(it.Content), q)
		if matchScore == 0 {
			continue
		}

		score := matchScore

		if it.IsPinned {
			score += 5000
		}

		age := now.Sub(it.Created())
		switch {
		case age < 10*time.Minute:
			score += 400
		case age < time.Hour:
			score += 250
		case age < 24*time.Hour:
			score += 120
		case age < 7*24*time.Hour:
			score += 40
		}

		scoredItems = append(scoredItems, scored{it: it, score: score})
	}

	sort.SliceStable(scoredItems, func(i, j int) bool {
		if scoredItems[i].score != scoredItems[j].score {
			return scoredItems[i].score > scoredItems[j].score
		}
		return scoredItems[i].it.CreatedAt > scoredItems[j].it.CreatedAt
	})

	n := min(opt.Limit, len(scoredItems))
	out := make([]core.ClipboardItem, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, scoredItems[i].it)
	}
	return out
}

// scoreMatch: exact beats prefix beats substring, earlier substrings
// slightly ahead.
func scoreMatch(s, q string) int {
	if s == q {
		return 3000
	}
	if strings.HasPrefix(s, q) {
		return 2000
	}
	if idx := strings.Index(s, q); idx >= 0 {
		return 1000 + max(0, 200-idx)
	}
	return 0
}

func normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
