// Package identity supplies the signed-in user to the library. Real
// authentication lives in an external identity provider; these adapters
// only report who is signed in and when that changes.
package identity

import (
	"context"
	"errors"
)

var ErrNoSession = errors.New("identity: no active session")

// Session is the identity state at one point in time.
type Session struct {
	UserID  string
	Loading bool
}

func (s Session) SignedIn() bool { return !s.Loading && s.UserID != "" }

type Provider interface {
	Current() Session
	// Changes emits the current session followed by every change until ctx
	// is done, then closes.
	Changes(ctx context.Context) <-chan Session
}

type static struct {
	s Session
}

// Static returns a provider whose user never changes. An empty id means
// signed out.
func Static(userID string) Provider {
	return static{s: Session{UserID: userID}}
}

func (p static) Current() Session { return p.s }

func (p static) Changes(ctx context.Context) <-chan Session {
	ch := make(chan Session, 1)
	ch <- p.s
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}
