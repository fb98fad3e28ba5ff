package guard

import (
	"sync"
	"time"
)

const (
	pruneEvery = 1024
	idleAfter  = time.Hour
)

type navigation struct {
	seq      uint64
	lastSeen time.Time
}

// Navigations hands out increasing sequence numbers per browser context.
type Navigations struct {
	mu     sync.Mutex
	byID   map[string]*navigation
	begins int
	now    func() time.Time
}

func NewNavigations() *Navigations {
	return &Navigations{
		byID: make(map[string]*navigation),
		now:  time.Now,
	}
}

// Begin records a new navigation for contextID and returns its sequence number.
func (n *Navigations) Begin(contextID string) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	n.begins++
	if n.begins%pruneEvery == 0 {
		n.pruneLocked(now.Add(-idleAfter))
	}

	nav, ok := n.byID[contextID]
	if !ok {
		nav = &navigation{}
		n.byID[contextID] = nav
	}
	nav.seq++
	nav.lastSeen = now
	return nav.seq
}

// Current reports whether seq is still the latest navigation of contextID.
func (n *Navigations) Current(contextID string, seq uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	nav, ok := n.byID[contextID]
	return ok && nav.seq == seq
}

// Forget drops a browser context, e.g. on logout.
func (n *Navigations) Forget(contextID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.byID, contextID)
}

// Len returns the number of tracked browser contexts.
func (n *Navigations) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.byID)
}

func (n *Navigations) pruneLocked(before time.Time) {
	for id, nav := range n.byID {
		if nav.lastSeen.Before(before) {
			delete(n.byID, id)
		}
	}
}
