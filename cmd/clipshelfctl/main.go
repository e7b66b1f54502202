package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/its-jojoo/clipshelf/internal/adapter/docstore"
	"github.com/its-jojoo/clipshelf/internal/adapter/docstore/backend"
	"github.com/its-jojoo/clipshelf/internal/adapter/identity"
	"github.com/its-jojoo/clipshelf/internal/config"
	"github.com/its-jojoo/clipshelf/internal/core"
)

type Export struct {
	UserID     string                 `json:"userId"`
	ExportedAt string                 `json:"exportedAt"`
	History    []core.ClipboardItem   `json:"clipboardItems"`
	Snippets   []core.Snippet         `json:"snippets"`
	Categories []core.SnippetCategory `json:"categories"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath, backendName, dataDir string
	root := &cobra.Command{
		Use:           "clipshelfctl",
		Short:         "Maintenance tools for a clipshelf data directory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "config file")
	root.PersistentFlags().StringVar(&backendName, "backend", "", "document store backend (sqlite, badger)")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory")

	open := func(cmd *cobra.Command) (backend.Store, config.Config, *slog.Logger, error) {
		log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, cfg, nil, err
		}
		if backendName != "" {
			cfg.Backend = backendName
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if cfg.Backend == config.BackendMemory {
			return nil, cfg, nil, errors.New("the memory backend keeps nothing between runs")
		}
		st, err := backend.Open(cfg, log)
		if err != nil {
			return nil, cfg, nil, err
		}
		return st, cfg, log, nil
	}

	var userID, out string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's history, snippets and categories to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, log, err := open(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if userID == "" {
				if userID, err = identity.NewFileSession(cfg.DataDir, log).RequireUser(); err != nil {
					return errors.New("no --user given and nobody is signed in")
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			exp, err := export(ctx, st, userID, log)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			if err := writeJSON(f, exp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d items, %d snippets, %d categories to %s\n",
				len(exp.History), len(exp.Snippets), len(exp.Categories), out)
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&userID, "user", "u", "", "user id (default: the signed-in user)")
	exportCmd.Flags().StringVarP(&out, "out", "o", "clipshelf-export.json", "output json file path")

	var prefix string
	collectionsCmd := &cobra.Command{
		Use:   "collections",
		Short: "List the collections that hold documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, _, err := open(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			l, ok := st.(lister)
			if !ok {
				return errors.New("this backend cannot list collections")
			}
			cols, err := l.Collections(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			for _, c := range cols {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
	collectionsCmd.Flags().StringVar(&prefix, "prefix", "users/", "only collections under this path")

	root.AddCommand(exportCmd, collectionsCmd)
	return root
}

type lister interface {
	Collections(ctx context.Context, prefix string) ([]string, error)
}

func export(ctx context.Context, st docstore.Store, userID string, log *slog.Logger) (Export, error) {
	exp := Export{UserID: userID, ExportedAt: time.Now().UTC().Format(time.RFC3339Nano)}
	var err error
	if exp.History, err = collect[core.ClipboardItem](ctx, st, userID, docstore.CollectionHistory, log); err != nil {
		return Export{}, err
	}
	if exp.Snippets, err = collect[core.Snippet](ctx, st, userID, docstore.CollectionSnippets, log); err != nil {
		return Export{}, err
	}
	if exp.Categories, err = collect[core.SnippetCategory](ctx, st, userID, docstore.CollectionCategories, log); err != nil {
		return Export{}, err
	}
	return exp, nil
}

// collect reads the initial snapshot of one collection.
func collect[T any](ctx context.Context, st docstore.Store, userID, name string, log *slog.Logger) ([]T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	path := docstore.UserCollection(userID, name)
	ch, err := st.Subscribe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", path, err)
	}
	var snap docstore.Snapshot
	select {
	case s, ok := <-ch:
		if !ok {
			return nil, fmt.Errorf("subscribe %s: closed before the first snapshot", path)
		}
		snap = s
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	out := make([]T, 0, len(snap.Docs))
	for _, d := range snap.Docs {
		var v T
		if err := d.Decode(&v); err != nil {
			log.Warn("skipping undecodable document", "path", docstore.DocPath(path, d.ID), "error", err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func writeJSON(w io.Writer, exp Export) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(exp); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
