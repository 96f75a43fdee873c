package inflight

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy is returned by Acquire while another request is outstanding.
var ErrBusy = errors.New("a request is already in progress")

// Ticket identifies one admitted request.
type Ticket struct {
	gen uint64
}

// Guard admits at most one outstanding request. A request can be superseded
// with Cancel: its context is cancelled and its settlement is reported stale,
// so a late response never overwrites newer state.
type Guard struct {
	mu     sync.Mutex
	gen    uint64
	busy   bool
	cancel context.CancelFunc
}

// NewGuard returns an idle guard.
func NewGuard() *Guard {
	return &Guard{}
}

// Acquire admits a new request derived from parent. It returns ErrBusy if a
// request is already outstanding.
func (g *Guard) Acquire(parent context.Context) (Ticket, context.Context, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.busy {
		return Ticket{}, nil, ErrBusy
	}

	ctx, cancel := context.WithCancel(parent)
	g.gen++
	g.busy = true
	g.cancel = cancel
	return Ticket{gen: g.gen}, ctx, nil
}

// Release settles the request identified by t. It returns false when t was
// superseded by Cancel, in which case the caller must discard its outcome.
func (g *Guard) Release(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if t.gen != g.gen || !g.busy {
		return false
	}
	g.busy = false
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	return true
}

// Cancel supersedes the outstanding request, if any. It is a no-op when idle.
func (g *Guard) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.busy {
		return
	}
	g.cancel()
	g.cancel = nil
	g.busy = false
	g.gen++
}

// Busy reports whether a request is outstanding.
func (g *Guard) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}
