// Package badger is a document store backed by an embedded BadgerDB.
//
// Documents live under doc/<collection>/<id> as a JSON envelope carrying a
// creation sequence number, so snapshots keep creation order even though
// Badger iterates keys lexicographically.
package badger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/its-jojoo/clipshelf/internal/adapter/docstore"
)

var seqKey = []byte("meta/seq")

// Config holds configuration for a BadgerDB-backed store.
type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence). Useful for testing.
	InMemory bool

	SyncWrites bool

	// Logger receives BadgerDB's internal logging. Nil disables it.
	Logger *slog.Logger

	// GCInterval is how often to run value log garbage collection. 0 disables it.
	GCInterval     time.Duration
	GCDiscardRatio float64
}

func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

type envelope struct {
	Seq    uint64          `json:"seq"`
	Fields json.RawMessage `json:"fields"`
}

type Store struct {
	db  *badger.DB
	seq *badger.Sequence
	hub *docstore.Hub

	mu sync.Mutex

	stopGC chan struct{}
	gcDone chan struct{}
}

func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badger: path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("badger: create directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open: %w", err)
	}
	seq, err := db.GetSequence(seqKey, 64)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("badger: sequence: %w", err)
	}

	s := &Store{db: db, seq: seq, hub: docstore.NewHub()}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.stopGC = make(chan struct{})
		s.gcDone = make(chan struct{})
		go s.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.stopGC != nil {
		close(s.stopGC)
		<-s.gcDone
	}
	s.hub.Close()
	err := s.seq.Release()
	return errors.Join(err, s.db.Close())
}

func (s *Store) runGC(every time.Duration, ratio float64) {
	defer close(s.gcDone)
	if ratio <= 0 {
		ratio = 0.5
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-s.stopGC:
			return
		case <-t.C:
			// ErrNoRewrite just means there was nothing to collect.
			for s.db.RunValueLogGC(ratio) == nil {
			}
		}
	}
}

func docKey(path, id string) []byte {
	return []byte("doc/" + path + "/" + id)
}

func (s *Store) Subscribe(ctx context.Context, path string) (<-chan docstore.Snapshot, error) {
	if err := docstore.ValidateRef(path, ""); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshot(path)
	if err != nil {
		return nil, err
	}
	return s.hub.Subscribe(ctx, path, snap)
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

	key := docKey(path, id)
	err := s.db.Update(func(txn *badger.Txn) error {
		var env envelope
		var existing map[string]any

		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			if env.Seq, err = s.seq.Next(); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(raw, &env); err != nil {
				return err
			}
			if existing, err = decodeFields(env.Fields); err != nil {
				return err
			}
		}

		if env.Fields, err = json.Marshal(docstore.ApplyUpsert(existing, fields, opts)); err != nil {
			return err
		}
		raw, err := json.Marshal(env)
		if err != nil {
			return err
		}
		return txn.Set(key, raw)
	})
	if err != nil {
		return fmt.Errorf("badger: upsert %s: %w", docstore.DocPath(path, id), err)
	}
	return s.publish(path)
}

func (s *Store) Delete(ctx context.Context, path, id string) error {
	_ = ctx
	if err := docstore.ValidateRef(path, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := docKey(path, id)
	deleted := false
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		deleted = true
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("badger: delete %s: %w", docstore.DocPath(path, id), err)
	}
	if !deleted {
		return nil
	}
	return s.publish(path)
}

func (s *Store) publish(path string) error {
	snap, err := s.snapshot(path)
	if err != nil {
		return err
	}
	s.hub.Publish(snap)
	return nil
}

func (s *Store) snapshot(path string) (docstore.Snapshot, error) {
	type entry struct {
		seq uint64
		doc docstore.Document
	}
	var entries []entry
	prefix := []byte("doc/" + path + "/")

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			id := string(bytes.TrimPrefix(item.KeyCopy(nil), prefix))
			if strings.Contains(id, "/") {
				// document of a nested collection
				continue
			}
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			var env envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				return fmt.Errorf("corrupt document %s: %w", id, err)
			}
			fields, err := decodeFields(env.Fields)
			if err != nil {
				return err
			}
			entries = append(entries, entry{seq: env.Seq, doc: docstore.Document{ID: id, Fields: fields}})
		}
		return nil
	})
	if err != nil {
		return docstore.Snapshot{}, fmt.Errorf("badger: snapshot %s: %w", path, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	snap := docstore.Snapshot{Collection: path, Docs: make([]docstore.Document, 0, len(entries))}
	for _, e := range entries {
		snap.Docs = append(snap.Docs, e.doc)
	}
	return snap, nil
}

func decodeFields(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
