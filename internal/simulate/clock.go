// internal/simulate/clock.go
package simulate

import (
	"sync"
	"time"
)

// Epoch is where every virtual clock starts.
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// VirtualClock is time that only moves when something sleeps on it, so a
// dry run of minutes of motion finishes instantly and deterministically.
type VirtualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewVirtualClock() *VirtualClock {
	return &VirtualClock{now: Epoch}
}

func (c *VirtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances the clock by d without blocking.
func (c *VirtualClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Elapsed is the virtual time since Epoch.
func (c *VirtualClock) Elapsed() time.Duration {
	return c.Now().Sub(Epoch)
}
