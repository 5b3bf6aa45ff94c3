package orchestrator

import (
	"sync"
	"time"
)

// cooldown rate-limits hook-triggered auto-switches so a flapping condition
// cannot drive an endless switch loop.
type cooldown struct {
	mu       sync.Mutex
	duration time.Duration
	last     time.Time
}

func newCooldown(duration time.Duration) *cooldown {
	return &cooldown{duration: duration}
}

// Allow reports whether enough time has passed since the last allowed call,
// and records the call when it has.
func (c *cooldown) Allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.last.IsZero() && time.Since(c.last) < c.duration {
		return false
	}
	c.last = time.Now()
	return true
}

// Reset clears the cooldown window.
func (c *cooldown) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = time.Time{}
}
