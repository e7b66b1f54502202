// Package clipboard reads the system clipboard by polling a paste command.
package clipboard

import (
	"context"
	"errors"
	"time"
)

var ErrUnsupported = errors.New("clipboard: no paste command available on this system")

const DefaultInterval = 350 * time.Millisecond

// Watcher signals when the clipboard *may* have changed.
type Watcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
	ReadText(ctx context.Context) (string, error)
}

// ReadFunc returns the current clipboard text.
type ReadFunc func(ctx context.Context) (string, error)

// PollWatcher calls Read every Interval and signals when the text differs
// from the last value it saw. The value present when Watch starts is not
// reported.
type PollWatcher struct {
	Interval time.Duration
	Read     ReadFunc

	last string
}

func NewPollWatcher(read ReadFunc, interval time.Duration) *PollWatcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &PollWatcher{Interval: interval, Read: read}
}

func (w *PollWatcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w.Read == nil {
		return nil, ErrUnsupported
	}
	ch := make(chan struct{}, 1)

	// prime initial state
	if txt, err := w.Read(ctx); err == nil {
		w.last = txt
	}

	t := time.NewTicker(w.Interval)

	go func() {
		defer t.Stop()
		defer close(ch)

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				txt, err := w.Read(ctx)
				if err != nil {
					continue
				}
				if txt != "" && txt != w.last {
					w.last = txt
					select {
					case ch <- struct{}{}:
					default:
					}
				}
			}
		}
	}()

	return ch, nil
}

func (w *PollWatcher) ReadText(ctx context.Context) (string, error) {
	if w.Read == nil {
		return "", ErrUnsupported
	}
	return w.Read(ctx)
}
