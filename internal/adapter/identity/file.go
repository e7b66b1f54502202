package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

const SessionFileName = "session.yaml"

type sessionFile struct {
	UserID string `yaml:"user_id"`
}

// FileSession keeps the signed-in user in <dir>/session.yaml, so every
// clipshelf process on the machine shares one session. The directory is
// watched: writing the file signs in, removing it signs out.
type FileSession struct {
	dir string
	log *slog.Logger

	mu  sync.Mutex
	cur Session
}

func NewFileSession(dir string, log *slog.Logger) *FileSession {
	if log == nil {
		log = slog.Default()
	}
	fs := &FileSession{dir: dir, log: log}
	fs.cur = fs.read()
	return fs
}

func (f *FileSession) path() string { return filepath.Join(f.dir, SessionFileName) }

func (f *FileSession) Current() Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cur
}

// Login records userID as the signed-in user.
func (f *FileSession) Login(userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" || strings.Contains(userID, "/") {
		return fmt.Errorf("identity: invalid user id %q", userID)
	}
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("identity: create dir: %w", err)
	}
	raw, err := yaml.Marshal(sessionFile{UserID: userID})
	if err != nil {
		return err
	}
	tmp := f.path() + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("identity: write session: %w", err)
	}
	if err := os.Rename(tmp, f.path()); err != nil {
		return fmt.Errorf("identity: write session: %w", err)
	}
	f.set(Session{UserID: userID})
	return nil
}

func (f *FileSession) Logout() error {
	err := os.Remove(f.path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("identity: remove session: %w", err)
	}
	f.set(Session{})
	return nil
}

// RequireUser returns the signed-in user id or ErrNoSession.
func (f *FileSession) RequireUser() (string, error) {
	s := f.Current()
	if !s.SignedIn() {
		return "", ErrNoSession
	}
	return s.UserID, nil
}

// Changes emits the current session, then every change seen on disk. The
// watch is in place before the first value is read.
func (f *FileSession) Changes(ctx context.Context) <-chan Session {
	ch := make(chan Session, 1)

	w, err := f.watch()
	if err != nil {
		f.log.Warn("session watch disabled", "dir", f.dir, "error", err)
		ch <- f.Current()
		go func() { <-ctx.Done(); close(ch) }()
		return ch
	}

	last := f.Current()
	ch <- last

	go func() {
		defer close(ch)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != SessionFileName {
					continue
				}
				next := f.read()
				f.set(next)
				if next == last {
					continue
				}
				last = next
				select {
				case ch <- next:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				f.log.Warn("session watch error", "error", err)
			}
		}
	}()
	return ch
}

func (f *FileSession) watch() (*fsnotify.Watcher, error) {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(f.dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

func (f *FileSession) set(s Session) {
	f.mu.Lock()
	f.cur = s
	f.mu.Unlock()
}

func (f *FileSession) read() Session {
	raw, err := os.ReadFile(f.path())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.log.Warn("session unreadable", "path", f.path(), "error", err)
		}
		return Session{}
	}
	var sf sessionFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		f.log.Warn("session unreadable", "path", f.path(), "error", err)
		return Session{}
	}
	return Session{UserID: strings.TrimSpace(sf.UserID)}
}
