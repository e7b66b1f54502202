// Package backend opens the document store selected in the configuration.
package backend

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/its-jojoo/clipshelf/internal/adapter/docstore"
	"github.com/its-jojoo/clipshelf/internal/adapter/docstore/badger"
	"github.com/its-jojoo/clipshelf/internal/adapter/docstore/memory"
	"github.com/its-jojoo/clipshelf/internal/adapter/docstore/sqlite"
	"github.com/its-jojoo/clipshelf/internal/config"
)

// Store is a document store the caller must close.
type Store interface {
	docstore.Store
	io.Closer
}

const (
	sqliteFile = "clipshelf.db"
	badgerDir  = "badger"
)

func Open(cfg config.Config, log *slog.Logger) (Store, error) {
	if cfg.Backend != config.BackendMemory {
		if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
			return nil, fmt.Errorf("backend: create data dir: %w", err)
		}
	}
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendSQLite:
		st, err := sqlite.Open(filepath.Join(cfg.DataDir, sqliteFile))
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.BackendBadger:
		bc := badger.DefaultConfig(filepath.Join(cfg.DataDir, badgerDir))
		bc.Logger = log
		st, err := badger.Open(bc)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("backend: unknown backend %q", cfg.Backend)
	}
}
