package capture

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/its-jojoo/clipshelf/internal/adapter/docstore"
	"github.com/its-jojoo/clipshelf/internal/adapter/docstore/memory"
	"github.com/its-jojoo/clipshelf/internal/core"
	"github.com/its-jojoo/clipshelf/internal/usecase/reconcile"
)

func newCore(t *testing.T) (*reconcile.Service, *memory.Store) {
	t.Helper()
	st := memory.New()
	svc := reconcile.New(st, reconcile.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err := svc.Attach(context.Background(), "u1"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(svc.Detach)
	return svc, st
}

func wait(t *testing.T, b *reconcile.Batch) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := b.Wait(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestProcessText_IgnoresEmpty(t *testing.T) {
	hist, _ := newCore(t)
	svc := New(hist, nil, Config{}, nil)

	if _, saved := svc.ProcessText("   \n\t "); saved {
		t.Fatalf("expected not saved")
	}
}

func TestProcessText_PrivacyIgnore(t *testing.T) {
	hist, _ := newCore(t)
	pf, err := core.NewPrivacyFilter([]string{"token="}, false)
	if err != nil {
		t.Fatal(err)
	}
	svc := New(hist, pf, Config{}, nil)

	if _, saved := svc.ProcessText("my token=abc"); saved {
		t.Fatalf("expected ignored by privacy filter")
	}
}

func TestProcessText_TrimsBeforeSaving(t *testing.T) {
	hist, st := newCore(t)
	svc := New(hist, nil, Config{}, nil)

	b, saved := svc.ProcessText("  hello\n")
	if !saved {
		t.Fatalf("expected saved")
	}
	wait(t, b)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := hist.Synced(ctx, func(v reconcile.View) bool { return len(v.History) == 1 })
	if err != nil {
		t.Fatal(err)
	}
	if got := hist.History()[0].Content; got != "hello" {
		t.Fatalf("got %q", got)
	}
	if n := st.Count(docstore.UserCollection("u1", docstore.CollectionHistory)); n != 1 {
		t.Fatalf("expected 1 stored item, got %d", n)
	}
}

func TestProcessText_DedupeConsecutive(t *testing.T) {
	hist, _ := newCore(t)
	svc := New(hist, nil, Config{DedupeConsecutive: true}, nil)

	_, saved1 := svc.ProcessText("hello world")
	_, saved2 := svc.ProcessText("hello world  ")

	if !saved1 {
		t.Fatalf("expected first saved")
	}
	if saved2 {
		t.Fatalf("expected second not saved due to consecutive dedupe")
	}
}

type countingHistory struct{ calls []string }

func (c *countingHistory) AddHistoryItem(content string) *reconcile.Batch {
	c.calls = append(c.calls, content)
	// a detached service accepts nothing, which is what a rejection looks like
	return reconcile.New(nil).AddHistoryItem(content)
}

func TestProcessText_RejectedByHistoryIsNotRemembered(t *testing.T) {
	h := &countingHistory{}
	svc := New(h, nil, Config{DedupeConsecutive: true}, nil)

	_, saved := svc.ProcessText("a")
	if saved {
		t.Fatalf("detached history should reject")
	}
	svc.ProcessText("a")
	if len(h.calls) != 2 {
		t.Fatalf("a rejected capture must not suppress the next one, calls=%v", h.calls)
	}
}

type scriptedWatcher struct {
	texts []string
	i     int
}

func (w *scriptedWatcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, len(w.texts))
	for range w.texts {
		ch <- struct{}{}
	}
	close(ch)
	return ch, nil
}

func (w *scriptedWatcher) ReadText(context.Context) (string, error) {
	s := w.texts[w.i]
	w.i++
	return s, nil
}

func TestRun_CapturesEverySignal(t *testing.T) {
	h := &countingHistory{}
	svc := New(h, nil, Config{}, nil)

	err := svc.Run(context.Background(), &scriptedWatcher{texts: []string{"one", " ", "two"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(h.calls) != 2 || h.calls[0] != "one" || h.calls[1] != "two" {
		t.Fatalf("unexpected captures: %v", h.calls)
	}
}
