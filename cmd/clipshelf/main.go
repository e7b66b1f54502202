package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/its-jojoo/clipshelf/internal/adapter/docstore/backend"
	"github.com/its-jojoo/clipshelf/internal/adapter/identity"
	"github.com/its-jojoo/clipshelf/internal/config"
	"github.com/its-jojoo/clipshelf/internal/usecase/reconcile"
)

// syncTimeout bounds the wait for the first snapshots and for writes of a
// one-shot command.
const syncTimeout = 10 * time.Second

type app struct {
	cfgPath  string
	backend  string
	dataDir  string
	logLevel string

	cfg config.Config
	log *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "clipshelf",
		Short:         "Clipboard history and snippet library synced through a document store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", config.DefaultPath(), "config file")
	root.PersistentFlags().StringVar(&a.backend, "backend", "", "document store backend (memory, sqlite, badger)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "directory for the session, preferences and local stores")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		a.historyCmd(),
		a.snippetCmd(),
		a.categoryCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.themeCmd(),
		a.watchCmd(),
		a.suggestCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) load(stderr io.Writer) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q", a.logLevel)
	}
	a.log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Backend = a.backend
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) session() *identity.FileSession {
	return identity.NewFileSession(a.cfg.DataDir, a.log)
}

// openLibrary attaches a library to the signed-in user and waits until
// every mirror holds its first snapshot and the categories are seeded.
func (a *app) openLibrary(ctx context.Context) (*reconcile.Service, func(), error) {
	uid, err := a.session().RequireUser()
	if err != nil {
		return nil, nil, errors.New("not signed in; run `clipshelf login <user>` first")
	}
	st, err := backend.Open(a.cfg, a.log)
	if err != nil {
		return nil, nil, err
	}
	lib := reconcile.New(st, reconcile.WithLogger(a.log))
	closeAll := func() {
		lib.Detach()
		drain(lib, a.log)
		if err := st.Close(); err != nil {
			a.log.Warn("store close failed", "error", err)
		}
	}
	if err := lib.Attach(ctx, uid); err != nil {
		closeAll()
		return nil, nil, err
	}

	wctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()
	err = lib.Synced(wctx, reconcile.Settled)
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("waiting for the library to load: %w", err)
	}
	return lib, closeAll, nil
}

// drain lets in-flight writes finish before the store is closed.
func drain(lib *reconcile.Service, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()
	if err := lib.Drain(ctx); err != nil {
		log.Warn("writes still in flight at exit", "error", err)
	}
}

// await waits for the writes of b, printing ok when they all landed and
// ignored when the operation was rejected.
func await(cmd *cobra.Command, b *reconcile.Batch, ok, ignored string) error {
	out := cmd.OutOrStdout()
	if b.Len() == 0 {
		fmt.Fprintln(out, ignored)
		return nil
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), syncTimeout)
	defer cancel()
	if err := b.Wait(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, ok)
	return nil
}

// argOrStdin joins args, or reads stdin when the only argument is "-".
func argOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(raw), "\n"), nil
	}
	return strings.Join(args, " "), nil
}
