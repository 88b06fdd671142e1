package utils

import (
	"sync"
	"time"
)

// DefaultSweepInterval bounds how often IsRevoked triggers a full sweep
const DefaultSweepInterval = time.Minute

// RevocationRegistry tracks revoked token ids until their own expiry.
// It is safe for concurrent use.
type RevocationRegistry struct {
	mu            sync.RWMutex
	revoked       map[string]time.Time
	clock         Clock
	sweepInterval time.Duration
	lastSweep     time.Time
}

// NewRevocationRegistry creates an empty registry
func NewRevocationRegistry(clock Clock, sweepInterval time.Duration) *RevocationRegistry {
	if clock == nil {
		clock = SystemClock{}
	}
	return &RevocationRegistry{
		revoked:       make(map[string]time.Time),
		clock:         clock,
		sweepInterval: sweepInterval,
		lastSweep:     clock.Now(),
	}
}

// Revoke inserts or refreshes the entry for jti
func (r *RevocationRegistry) Revoke(jti string, expiresAt time.Time) {
	if jti == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = expiresAt
}

// IsRevoked reports whether jti has an entry expiring strictly after now.
// A stale entry is erased and reported as not revoked.
func (r *RevocationRegistry) IsRevoked(jti string) bool {
	if jti == "" {
		return false
	}
	now := r.clock.Now()
	r.maybeSweep(now)

	r.mu.RLock()
	exp, ok := r.revoked[jti]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if exp.After(now) {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-read: a concurrent Revoke may have refreshed the expiry.
	exp, ok = r.revoked[jti]
	if ok && exp.After(now) {
		return true
	}
	delete(r.revoked, jti)
	return false
}

// RemoveAllExpired drops every entry whose expiry is not after now
func (r *RevocationRegistry) RemoveAllExpired() {
	now := r.clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeExpiredLocked(now)
}

// Len returns the number of stored entries, expired or not
func (r *RevocationRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.revoked)
}

func (r *RevocationRegistry) maybeSweep(now time.Time) {
	r.mu.RLock()
	due := now.Sub(r.lastSweep) >= r.sweepInterval
	r.mu.RUnlock()
	if !due {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if now.Sub(r.lastSweep) < r.sweepInterval {
		return
	}
	r.removeExpiredLocked(now)
}

func (r *RevocationRegistry) removeExpiredLocked(now time.Time) {
	for jti, exp := range r.revoked {
		if !exp.After(now) {
			delete(r.revoked, jti)
		}
	}
	r.lastSweep = now
}
