// Package capture feeds clipboard text into the history.
package capture

import (
	"context"
	"log/slog"

	"github.com/its-jojoo/clipshelf/internal/adapter/clipboard"
	"github.com/its-jojoo/clipshelf/internal/core"
	"github.com/its-jojoo/clipshelf/internal/usecase/reconcile"
)

// History is the part of the reconciliation core capture writes to.
type History interface {
	AddHistoryItem(content string) *reconcile.Batch
}

type Config struct {
	DedupeConsecutive bool
}

type Service struct {
	history History
	privacy *core.PrivacyFilter
	cfg     Config
	log     *slog.Logger

	last string
}

func New(history History, privacy *core.PrivacyFilter, cfg Config, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{history: history, privacy: privacy, cfg: cfg, log: log}
}

// ProcessText trims raw and hands it to the history. It reports false for
// text that is blank, ignored by the privacy filter, a repeat of the
// previous capture, or rejected by the history itself.
func (s *Service) ProcessText(raw string) (*reconcile.Batch, bool) {
	content := core.TrimContent(raw)
	if s.privacy.ShouldIgnore(content) {
		return nil, false
	}
	if s.cfg.DedupeConsecutive && content == s.last {
		return nil, false
	}

	b := s.history.AddHistoryItem(content)
	if b.Len() == 0 {
		return b, false
	}
	s.last = content
	return b, true
}

// Run captures every clipboard change until ctx is done.
func (s *Service) Run(ctx context.Context, w clipboard.Watcher) error {
	signals, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	for range signals {
		txt, err := w.ReadText(ctx)
		if err != nil {
			s.log.Warn("clipboard read failed", "error", err)
			continue
		}
		if _, ok := s.ProcessText(txt); ok {
			s.log.Info("captured", "preview", core.Preview(txt, 60))
		}
	}
	return ctx.Err()
}
