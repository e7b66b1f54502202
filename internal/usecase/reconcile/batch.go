package reconcile

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Batch is the handle of the writes dispatched by one operation. Callers
// are free to drop it: failures are logged and counted either way.
type Batch struct {
	g    errgroup.Group
	n    int
	done chan struct{}

	mu   sync.Mutex
	errs []error
}

func newBatch() *Batch {
	return &Batch{done: make(chan struct{})}
}

// Len is the number of writes the operation dispatched. A rejected
// operation dispatches none.
func (b *Batch) Len() int { return b.n }

// Done is closed once every write has finished.
func (b *Batch) Done() <-chan struct{} { return b.done }

// Wait blocks until the writes finish or ctx is done, and returns the
// joined write errors.
func (b *Batch) Wait(ctx context.Context) error {
	select {
	case <-b.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return errors.Join(b.errs...)
}

func (b *Batch) fail(err error) {
	b.mu.Lock()
	b.errs = append(b.errs, err)
	b.mu.Unlock()
}

// seal must be called once all writes are queued.
func (b *Batch) seal() *Batch {
	go func() {
		_ = b.g.Wait()
		close(b.done)
	}()
	return b
}
