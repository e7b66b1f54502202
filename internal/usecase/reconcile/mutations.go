package reconcile

import (
	"context"

	"github.com/its-jojoo/clipshelf/internal/adapter/docstore"
	"github.com/its-jojoo/clipshelf/internal/core"
)

var merge = docstore.UpsertOptions{Merge: true}

// SnippetInput is what a caller supplies for a new snippet. The caller is
// responsible for non-empty fields.
type SnippetInput struct {
	Name       string
	Content    string
	CategoryID string
}

// AddHistoryItem records content unless it is empty or already present in
// the history mirror. The duplicate check only sees confirmed items, so two
// identical calls made before the mirror refreshes both go through.
func (s *Service) AddHistoryItem(content string) *Batch {
	b := newBatch()

	s.mu.RLock()
	uid := s.userID
	dup := core.ContainsContent(s.history, content)
	s.mu.RUnlock()

	if content == "" || uid == "" || dup {
		return b.seal()
	}
	it := core.ClipboardItem{
		ID:          s.newID(),
		ContentType: core.ContentTypeText,
		Content:     content,
		CreatedAt:   s.now().UnixMilli(),
		IsPinned:    false,
	}
	s.upsert(b, "history.add", uid, docstore.CollectionHistory, it.ID, it.Fields(), merge)
	return b.seal()
}

func (s *Service) TogglePinHistoryItem(id string) *Batch {
	b := newBatch()

	s.mu.RLock()
	uid := s.userID
	var found *core.ClipboardItem
	for i := range s.history {
		if s.history[i].ID == id {
			it := s.history[i]
			found = &it
			break
		}
	}
	s.mu.RUnlock()

	if uid == "" || found == nil {
		return b.seal()
	}
	s.upsert(b, "history.pin", uid, docstore.CollectionHistory, id, map[string]any{"isPinned": !found.IsPinned}, merge)
	return b.seal()
}

func (s *Service) DeleteHistoryItem(id string) *Batch {
	b := newBatch()
	if uid := s.UserID(); uid != "" {
		s.delete(b, "history.delete", uid, docstore.CollectionHistory, id)
	}
	return b.seal()
}

// ClearHistory deletes every unpinned item of the current mirror, one write
// per item.
func (s *Service) ClearHistory() *Batch {
	b := newBatch()

	s.mu.RLock()
	uid := s.userID
	victims := core.Unpinned(s.history)
	s.mu.RUnlock()

	if uid == "" {
		return b.seal()
	}
	for _, it := range victims {
		s.delete(b, "history.delete", uid, docstore.CollectionHistory, it.ID)
	}
	return b.seal()
}

func (s *Service) AddSnippet(in SnippetInput) *Batch {
	b := newBatch()
	uid := s.UserID()
	if uid == "" {
		return b.seal()
	}
	sn := core.Snippet{
		ID:         s.newID(),
		Name:       in.Name,
		Content:    in.Content,
		CategoryID: in.CategoryID,
		CreatedAt:  s.now().UnixMilli(),
	}
	s.upsert(b, "snippet.add", uid, docstore.CollectionSnippets, sn.ID, sn.Fields(), merge)
	return b.seal()
}

func (s *Service) UpdateSnippet(sn core.Snippet) *Batch {
	b := newBatch()
	if uid := s.UserID(); uid != "" && sn.ID != "" {
		s.upsert(b, "snippet.update", uid, docstore.CollectionSnippets, sn.ID, sn.Fields(), merge)
	}
	return b.seal()
}

func (s *Service) DeleteSnippet(id string) *Batch {
	b := newBatch()
	if uid := s.UserID(); uid != "" {
		s.delete(b, "snippet.delete", uid, docstore.CollectionSnippets, id)
	}
	return b.seal()
}

func (s *Service) AddCategory(name string) *Batch {
	b := newBatch()
	uid := s.UserID()
	if uid == "" {
		return b.seal()
	}
	c := core.SnippetCategory{ID: s.newID(), Name: name}
	s.upsert(b, "category.add", uid, docstore.CollectionCategories, c.ID, c.Fields(), merge)
	return b.seal()
}

func (s *Service) UpdateCategory(c core.SnippetCategory) *Batch {
	b := newBatch()
	if uid := s.UserID(); uid != "" && c.ID != "" {
		s.upsert(b, "category.update", uid, docstore.CollectionCategories, c.ID, c.Fields(), merge)
	}
	return b.seal()
}

// DeleteCategory removes a non-reserved category and every mirrored snippet
// filed under it.
func (s *Service) DeleteCategory(id string) *Batch {
	b := newBatch()

	s.mu.RLock()
	uid := s.userID
	orphans := filterSnippets(s.snippets, id)
	s.mu.RUnlock()

	if uid == "" || core.IsReservedCategory(id) {
		return b.seal()
	}
	s.delete(b, "category.delete", uid, docstore.CollectionCategories, id)
	for _, sn := range orphans {
		s.delete(b, "snippet.delete", uid, docstore.CollectionSnippets, sn.ID)
	}
	return b.seal()
}

func (s *Service) seedCategories(uid string) *Batch {
	b := newBatch()
	for _, c := range core.DefaultCategories() {
		s.upsert(b, "category.seed", uid, docstore.CollectionCategories, c.ID, c.Fields(), docstore.UpsertOptions{})
	}
	s.log.Info("seeding default categories", "user", uid)
	return b.seal()
}

func (s *Service) upsert(b *Batch, op, uid, name, id string, fields map[string]any, opts docstore.UpsertOptions) {
	path := docstore.UserCollection(uid, name)
	s.dispatch(b, op, docstore.DocPath(path, id), func(ctx context.Context) error {
		return s.store.Upsert(ctx, path, id, fields, opts)
	})
}

func (s *Service) delete(b *Batch, op, uid, name, id string) {
	path := docstore.UserCollection(uid, name)
	s.dispatch(b, op, docstore.DocPath(path, id), func(ctx context.Context) error {
		return s.store.Delete(ctx, path, id)
	})
}

// dispatch starts the write without waiting for it. Writes carry no
// deadline and are not cancelled by detaching.
func (s *Service) dispatch(b *Batch, op, path string, write func(context.Context) error) {
	b.n++
	s.pending.Add(1)
	b.g.Go(func() error {
		defer s.pending.Done()
		err := write(context.Background())
		s.metrics.write(op, err)
		if err != nil {
			s.log.Error("remote write failed", "op", op, "path", path, "error", err)
			b.fail(err)
		}
		return err
	})
}
