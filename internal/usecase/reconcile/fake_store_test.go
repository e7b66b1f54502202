package reconcile

import (
	"context"
	"errors"
	"sync"

	"github.com/its-jojoo/clipshelf/internal/adapter/docstore"
)

type call struct {
	Path   string
	ID     string
	Fields map[string]any
	Merge  bool
}

// fakeStore records writes and lets tests drive the subscriptions by hand.
// Writes never show up in the snapshots on their own.
type fakeStore struct {
	mu      sync.Mutex
	subs    map[string]chan docstore.Snapshot
	upserts []call
	deletes []call
	fail    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{subs: make(map[string]chan docstore.Snapshot)}
}

func (f *fakeStore) Subscribe(ctx context.Context, path string) (<-chan docstore.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	ch := make(chan docstore.Snapshot, 16)
	f.subs[path] = ch
	go func() {
		<-ctx.Done()
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.subs[path] == ch {
			delete(f.subs, path)
		}
		close(ch)
	}()
	return ch, nil
}

func (f *fakeStore) Upsert(_ context.Context, path, id string, fields map[string]any, opts docstore.UpsertOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, call{Path: path, ID: id, Fields: fields, Merge: opts.Merge})
	return f.fail
}

func (f *fakeStore) Delete(_ context.Context, path, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, call{Path: path, ID: id})
	return f.fail
}

func (f *fakeStore) push(path string, docs ...map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.subs[path]
	if !ok {
		return errors.New("no subscriber for " + path)
	}
	snap := docstore.Snapshot{Collection: path}
	for _, d := range docs {
		id, _ := d["id"].(string)
		snap.Docs = append(snap.Docs, docstore.Document{ID: id, Fields: d})
	}
	ch <- snap
	return nil
}

func (f *fakeStore) recorded() (upserts, deletes []call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.upserts...), append([]call(nil), f.deletes...)
}
