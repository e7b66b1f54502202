package clipboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClipboard struct {
	mu  sync.Mutex
	txt string
	err error
}

func (f *fakeClipboard) set(s string) {
	f.mu.Lock()
	f.txt = s
	f.mu.Unlock()
}

func (f *fakeClipboard) read(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.txt, f.err
}

func TestPollWatcher_SignalsOnChangeOnly(t *testing.T) {
	fc := &fakeClipboard{txt: "already there"}
	w := NewPollWatcher(fc.read, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := w.Watch(ctx)
	if err != nil {
		t.Fatal(err)
	}

	select {
	case <-ch:
		t.Fatalf("initial clipboard content should not signal")
	case <-time.After(30 * time.Millisecond):
	}

	fc.set("new text")
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("expected a signal after the clipboard changed")
	}
	got, err := w.ReadText(ctx)
	if err != nil || got != "new text" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestPollWatcher_IgnoresEmptyAndErrors(t *testing.T) {
	fc := &fakeClipboard{txt: "x"}
	w := NewPollWatcher(fc.read, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, _ := w.Watch(ctx)

	fc.set("")
	fc.mu.Lock()
	fc.err = errors.New("no display")
	fc.mu.Unlock()

	select {
	case <-ch:
		t.Fatalf("unexpected signal")
	case <-time.After(30 * time.Millisecond):
	}
}

func TestPollWatcher_ClosesOnCancel(t *testing.T) {
	w := NewPollWatcher((&fakeClipboard{}).read, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := w.Watch(ctx)
	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			// a pending signal may drain first
			<-ch
		}
	case <-time.After(time.Second):
		t.Fatalf("channel not closed")
	}
}

func TestPollWatcher_NoReader(t *testing.T) {
	w := &PollWatcher{}
	if _, err := w.Watch(context.Background()); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestCommandReader_MissingBinary(t *testing.T) {
	read := CommandReader("clipshelf-no-such-paste-tool")
	if _, err := read(context.Background()); err == nil {
		t.Fatalf("expected an error")
	}
}
