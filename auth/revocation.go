package auth

import (
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-hub/clock"
)

// RevocationList remembers logged-out session ids until their tokens would have expired anyway.
// Expired entries are pruned lazily on write.
type RevocationList struct {
	mu      sync.Mutex
	clock   clock.Clock
	revoked map[string]time.Time
}

func NewRevocationList(clk clock.Clock) *RevocationList {
	if clk == nil {
		clk = clock.Real()
	}
	return &RevocationList{clock: clk, revoked: make(map[string]time.Time)}
}

func (r *RevocationList) Revoke(sessionID string, until time.Time) {
	if sessionID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	for id, exp := range r.revoked {
		if !now.Before(exp) {
			delete(r.revoked, id)
		}
	}
	if until.After(now) {
		r.revoked[sessionID] = until
	}
}

func (r *RevocationList) IsRevoked(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.revoked[sessionID]
	if !ok {
		return false
	}
	if !r.clock.Now().Before(exp) {
		delete(r.revoked, sessionID)
		return false
	}
	return true
}

func (r *RevocationList) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.revoked)
}
