package memory

import (
	"context"
	"sync"

	"github.com/its-jojoo/clipshelf/internal/adapter/docstore"
)

type collection struct {
	byID  map[string]map[string]any
	order []string // creation order
}

// Store keeps documents in process memory. It backs tests and the
// "memory" backend.
type Store struct {
	mu   sync.Mutex
	cols map[string]*collection
	hub  *docstore.Hub
}

func New() *Store {
	return &Store{
		cols: make(map[string]*collection),
		hub:  docstore.NewHub(),
	}
}

func (s *Store) Close() error {
	s.hub.Close()
	return nil
}

func (s *Store) Subscribe(ctx context.Context, path string) (<-chan docstore.Snapshot, error) {
	if err := docstore.ValidateRef(path, ""); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.Subscribe(ctx, path, s.snapshotLocked(path))
}

func (s *Store) Upsert(ctx context.Context, path, id string, fields map[string]any, opts docstore.UpsertOptions) error {
	_ = ctx
	if err := docstore.ValidateRef(path, id); err != nil {
		return err
	}
	if id == "" {
		return docstore.ErrInvalidPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cols[path]
	if !ok {
		c = &collection{byID: make(map[string]map[string]any)}
		s.cols[path] = c
	}
	existing, found := c.byID[id]
	c.byID[id] = docstore.ApplyUpsert(existing, fields, opts)
	if !found {
		c.order = append(c.order, id)
	}

	s.hub.Publish(s.snapshotLocked(path))
	return nil
}

func (s *Store) Delete(ctx context.Context, path, id string) error {
	_ = ctx
	if err := docstore.ValidateRef(path, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cols[path]
	if !ok {
		return nil
	}
	if _, ok := c.byID[id]; !ok {
		return nil
	}
	delete(c.byID, id)

	for i := range c.order {
		if c.order[i] == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}

	s.hub.Publish(s.snapshotLocked(path))
	return nil
}

// Count returns the number of documents in a collection.
func (s *Store) Count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cols[path]; ok {
		return len(c.order)
	}
	return 0
}

func (s *Store) snapshotLocked(path string) docstore.Snapshot {
	snap := docstore.Snapshot{Collection: path}
	c, ok := s.cols[path]
	if !ok {
		return snap
	}
	snap.Docs = make([]docstore.Document, 0, len(c.order))
	for _, id := range c.order {
		snap.Docs = append(snap.Docs, docstore.Document{ID: id, Fields: c.byID[id]})
	}
	return snap
}
