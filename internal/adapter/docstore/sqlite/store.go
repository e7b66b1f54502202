package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/its-jojoo/clipshelf/internal/adapter/docstore"
)

// Store persists documents in a single SQLite table. Live updates are
// published in-process after each committed write.
type Store struct {
	db  *sql.DB
	hub *docstore.Hub

	// serializes writes with their snapshot publication
	mu sync.Mutex
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	// Sensible pragmas for desktop app
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA busy_timeout=5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: pragmas: %w", err)
	}

	s := &Store{db: db, hub: docstore.NewHub()}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	s.hub.Close()
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS documents (
  seq        INTEGER PRIMARY KEY AUTOINCREMENT,
  collection TEXT NOT NULL,
  id         TEXT NOT NULL,
  body       TEXT NOT NULL,
  UNIQUE(collection, id)
);

CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, seq);
`)
	return err
}

func (s *Store) Subscribe(ctx context.Context, path string) (<-chan docstore.Snapshot, error) {
	if err := docstore.ValidateRef(path, ""); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshot(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.hub.Subscribe(ctx, path, snap)
}

func (s *Store) Upsert(ctx context.Context, path, id string, fields map[string]any, opts docstore.UpsertOptions) error {
	if err := docstore.ValidateRef(path, id); err != nil {
		return err
	}
	if id == "" {
		return docstore.ErrInvalidPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing map[string]any
	var body string
	err = tx.QueryRowContext(ctx, `SELECT body FROM documents WHERE collection=? AND id=?`, path, id).Scan(&body)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("sqlite: read %s: %w", docstore.DocPath(path, id), err)
	default:
		if existing, err = decode(body); err != nil {
			return err
		}
	}

	raw, err := json.Marshal(docstore.ApplyUpsert(existing, fields, opts))
	if err != nil {
		return fmt.Errorf("sqlite: encode %s: %w", docstore.DocPath(path, id), err)
	}

	// ON CONFLICT keeps the row (and its seq), so creation order survives updates.
	if _, err := tx.ExecContext(ctx, `
INSERT INTO documents(collection, id, body) VALUES(?, ?, ?)
ON CONFLICT(collection, id) DO UPDATE SET body=excluded.body
`, path, id, string(raw)); err != nil {
		return fmt.Errorf("sqlite: write %s: %w", docstore.DocPath(path, id), err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}

	return s.publish(ctx, path)
}

func (s *Store) Delete(ctx context.Context, path, id string) error {
	if err := docstore.ValidateRef(path, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection=? AND id=?`, path, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", docstore.DocPath(path, id), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}
	return s.publish(ctx, path)
}

// Collections lists every collection path with at least one document under
// prefix.
func (s *Store) Collections(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT collection FROM documents WHERE collection LIKE ? ORDER BY collection`, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("sqlite: list collections: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) publish(ctx context.Context, path string) error {
	snap, err := s.snapshot(ctx, path)
	if err != nil {
		return err
	}
	s.hub.Publish(snap)
	return nil
}

func (s *Store) snapshot(ctx context.Context, path string) (docstore.Snapshot, error) {
	snap := docstore.Snapshot{Collection: path}

	rows, err := s.db.QueryContext(ctx, `SELECT id, body FROM documents WHERE collection=? ORDER BY seq`, path)
	if err != nil {
		return snap, fmt.Errorf("sqlite: snapshot %s: %w", path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return snap, fmt.Errorf("sqlite: snapshot %s: %w", path, err)
		}
		fields, err := decode(body)
		if err != nil {
			return snap, err
		}
		snap.Docs = append(snap.Docs, docstore.Document{ID: id, Fields: fields})
	}
	return snap, rows.Err()
}

func decode(body string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("sqlite: corrupt document body: %w", err)
	}
	return out, nil
}
