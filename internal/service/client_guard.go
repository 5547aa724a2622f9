package service

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// clientGuards is a registry of single-slot semaphores keyed by client id.
// Entries exist only while some caller holds or waits on the slot.
type clientGuards struct {
	mu      sync.Mutex
	entries map[string]*clientGuard
}

type clientGuard struct {
	sem  *semaphore.Weighted
	refs int
	held bool
}

func newClientGuards() *clientGuards {
	return &clientGuards{entries: make(map[string]*clientGuard)}
}

func (g *clientGuards) ref(clientID string) *clientGuard {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entries[clientID]
	if !ok {
		e = &clientGuard{sem: semaphore.NewWeighted(1)}
		g.entries[clientID] = e
	}
	e.refs++
	return e
}

func (g *clientGuards) unref(clientID string, e *clientGuard) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(g.entries, clientID)
	}
}

func (g *clientGuards) setHeld(e *clientGuard, held bool) {
	g.mu.Lock()
	e.held = held
	g.mu.Unlock()
}

func (g *clientGuards) releaser(clientID string, e *clientGuard) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			g.setHeld(e, false)
			e.sem.Release(1)
			g.unref(clientID, e)
		})
	}
}

// tryAcquire takes the client's slot without waiting.
func (g *clientGuards) tryAcquire(clientID string) (func(), bool) {
	e := g.ref(clientID)
	if !e.sem.TryAcquire(1) {
		g.unref(clientID, e)
		return nil, false
	}
	g.setHeld(e, true)
	return g.releaser(clientID, e), true
}

// acquire waits for the client's slot or for ctx to end. The hold is exclusive
// but not reported by busy.
func (g *clientGuards) acquire(ctx context.Context, clientID string) (func(), error) {
	e := g.ref(clientID)
	if err := e.sem.Acquire(ctx, 1); err != nil {
		g.unref(clientID, e)
		return nil, err
	}
	return g.releaser(clientID, e), nil
}

// busy reports whether a login, signup or reset request currently holds the client's slot.
func (g *clientGuards) busy(clientID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entries[clientID]
	return ok && e.held
}

func (g *clientGuards) size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}
