// Package reconcile keeps a signed-in user's clipboard history, snippets and
// snippet categories mirrored from the document store and turns library
// actions into non-blocking store writes.
//
// Mirrors move only when the store's live subscription delivers a new
// snapshot. Mutations validate against the current mirrors, dispatch their
// writes and return immediately; the change shows up once the subscription
// reflects it.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/its-jojoo/clipshelf/internal/adapter/docstore"
	"github.com/its-jojoo/clipshelf/internal/adapter/identity"
	"github.com/its-jojoo/clipshelf/internal/core"
)

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs replaces the random document id generator.
func WithIDs(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithRegisterer registers the service metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Service) { s.reg = reg }
}

type Service struct {
	store   docstore.Store
	log     *slog.Logger
	now     func() time.Time
	newID   func() string
	reg     prometheus.Registerer
	metrics *metrics

	mu               sync.RWMutex
	userID           string
	history          []core.ClipboardItem
	snippets         []core.Snippet
	categories       []core.SnippetCategory
	categoriesLoaded bool
	loaded           map[string]bool // collections with at least one snapshot
	seeded           bool
	changed          chan struct{} // closed on every mirror change

	pending sync.WaitGroup // writes in flight

	attachMu sync.Mutex
	cancel   context.CancelFunc
	loopDone chan struct{}
}

func New(store docstore.Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		log:     slog.Default(),
		now:     time.Now,
		newID:   uuid.NewString,
		changed: make(chan struct{}),
		loaded:  make(map[string]bool, 3),
	}
	for _, o := range opts {
		o(s)
	}
	s.metrics = newMetrics(s.reg)
	return s
}

// Attach subscribes the mirrors to userID's collections, replacing any
// previous attachment. An empty userID only detaches.
func (s *Service) Attach(ctx context.Context, userID string) error {
	s.attachMu.Lock()
	defer s.attachMu.Unlock()

	s.detachLocked()
	if userID == "" {
		return nil
	}

	subCtx, cancel := context.WithCancel(ctx)
	subs := make([]<-chan docstore.Snapshot, 0, 3)
	for _, name := range []string{docstore.CollectionHistory, docstore.CollectionSnippets, docstore.CollectionCategories} {
		ch, err := s.store.Subscribe(subCtx, docstore.UserCollection(userID, name))
		if err != nil {
			cancel()
			return fmt.Errorf("reconcile: subscribe %s: %w", name, err)
		}
		subs = append(subs, ch)
	}

	s.mu.Lock()
	s.userID = userID
	s.resetLocked()
	s.mu.Unlock()

	done := make(chan struct{})
	s.cancel, s.loopDone = cancel, done
	go s.loop(subCtx, userID, subs[0], subs[1], subs[2], done)

	s.log.Info("mirrors attached", "user", userID)
	return nil
}

// Detach drops the subscriptions and empties the mirrors.
func (s *Service) Detach() {
	s.attachMu.Lock()
	defer s.attachMu.Unlock()
	s.detachLocked()
}

func (s *Service) detachLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.loopDone
	s.cancel, s.loopDone = nil, nil

	s.mu.Lock()
	uid := s.userID
	s.userID = ""
	s.resetLocked()
	s.mu.Unlock()
	s.metrics.docs.Reset()

	s.log.Info("mirrors detached", "user", uid)
}

// Follow attaches and detaches the mirrors as the provider's session
// changes, until ctx is done.
func (s *Service) Follow(ctx context.Context, p identity.Provider) error {
	defer s.Detach()

	for sess := range p.Changes(ctx) {
		if sess.Loading || sess.UserID == s.UserID() {
			continue
		}
		if sess.UserID == "" {
			s.Detach()
			continue
		}
		if err := s.Attach(ctx, sess.UserID); err != nil {
			s.log.Error("attach failed", "user", sess.UserID, "error", err)
		}
	}
	return ctx.Err()
}

// Drain waits until every write dispatched so far has finished, or ctx is
// done.
func (s *Service) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Synced blocks until the mirrors satisfy cond or ctx is done.
func (s *Service) Synced(ctx context.Context, cond func(View) bool) error {
	for {
		s.mu.RLock()
		v := s.viewLocked()
		changed := s.changed
		s.mu.RUnlock()

		if cond(v) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

// loop is the only writer of the mirrors while attached.
func (s *Service) loop(ctx context.Context, userID string, hist, snips, cats <-chan docstore.Snapshot, done chan struct{}) {
	defer close(done)

	for hist != nil || snips != nil || cats != nil {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-hist:
			if !ok {
				hist = nil
				continue
			}
			items := decodeAll[core.ClipboardItem](s.log, snap)
			s.apply(docstore.CollectionHistory, func() { s.history = items })
			s.metrics.mirror(docstore.CollectionHistory, len(items))
		case snap, ok := <-snips:
			if !ok {
				snips = nil
				continue
			}
			items := decodeAll[core.Snippet](s.log, snap)
			s.apply(docstore.CollectionSnippets, func() { s.snippets = items })
			s.metrics.mirror(docstore.CollectionSnippets, len(items))
		case snap, ok := <-cats:
			if !ok {
				cats = nil
				continue
			}
			items := decodeAll[core.SnippetCategory](s.log, snap)
			seed := len(items) == 0
			if seed {
				s.seedCategories(userID)
			}
			s.apply(docstore.CollectionCategories, func() {
				s.categories = items
				s.categoriesLoaded = true
				s.seeded = s.seeded || seed
			})
			s.metrics.mirror(docstore.CollectionCategories, len(items))
		}
	}
}

func (s *Service) apply(collection string, fn func()) {
	s.mu.Lock()
	fn()
	s.loaded[collection] = true
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *Service) resetLocked() {
	s.history, s.snippets, s.categories = nil, nil, nil
	s.categoriesLoaded = false
	s.seeded = false
	s.loaded = make(map[string]bool, 3)
	s.notifyLocked()
}

func (s *Service) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

type document interface {
	core.ClipboardItem | core.Snippet | core.SnippetCategory
}

// decodeAll skips documents that do not decode; a bad document must not
// hide the rest of the collection.
func decodeAll[T document](log *slog.Logger, snap docstore.Snapshot) []T {
	out := make([]T, 0, len(snap.Docs))
	for _, d := range snap.Docs {
		var v T
		if err := d.Decode(&v); err != nil {
			log.Warn("skipping undecodable document", "path", docstore.DocPath(snap.Collection, d.ID), "error", err)
			continue
		}
		setID(&v, d.ID)
		out = append(out, v)
	}
	return out
}

func setID(v any, id string) {
	switch x := v.(type) {
	case *core.ClipboardItem:
		if x.ID == "" {
			x.ID = id
		}
	case *core.Snippet:
		if x.ID == "" {
			x.ID = id
		}
	case *core.SnippetCategory:
		if x.ID == "" {
			x.ID = id
		}
	}
}
