// internal/humanoid/humanoid.go
package humanoid

import (
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/xkilldash9x/minke/api/schemas"
	"go.uber.org/zap"
)

// Humanoid synthesizes human-like pointer and keyboard activity on a device.
type Humanoid struct {
	// mu serializes whole operations. It guards cur and is held across the
	// pacing sleeps of an operation; the device handle is not.
	mu      sync.Mutex
	cfg     Config
	logger  *zap.Logger
	handle  Handle
	clock   Clock
	rng     *sampler
	cur     Point
	session string

	emitted atomic.Uint64
	skipped atomic.Uint64
	failed  atomic.Uint64
}

// Stats counts emission outcomes since construction.
type Stats struct {
	Emitted uint64
	Skipped uint64
	Failed  uint64
}

// New creates a Humanoid that starts at the given position. A nil clock
// means wall time; a nil logger discards output.
func New(cfg Config, logger *zap.Logger, handle Handle, clk Clock, start Point) *Humanoid {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.New()
	}
	session := uuid.NewString()
	return &Humanoid{
		cfg:     cfg,
		logger:  logger.With(zap.String("session_id", session)),
		handle:  handle,
		clock:   clk,
		rng:     newSampler(cfg.newRng()),
		cur:     start,
		session: session,
	}
}

// NewTestHumanoid creates a Humanoid with default parameters and a seeded
// random stream, for deterministic tests.
func NewTestHumanoid(handle Handle, clk Clock, start Point, seed uint64) *Humanoid {
	cfg := DefaultConfig()
	cfg.Rng = rand.New(rand.NewPCG(seed, seed))
	return New(cfg, zap.NewNop(), handle, clk, start)
}

// Position returns the last landing position (the jittered end of the most
// recent move).
func (h *Humanoid) Position() Point {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cur
}

// Session identifies this driver instance in log output.
func (h *Humanoid) Session() string {
	return h.session
}

// Stats reports how many device commands went out, were skipped because the
// handle was busy, or failed in transport.
func (h *Humanoid) Stats() Stats {
	return Stats{
		Emitted: h.emitted.Load(),
		Skipped: h.skipped.Load(),
		Failed:  h.failed.Load(),
	}
}

// emit sends one command through the handle. Lock contention is skipped
// quietly and transport errors are logged; neither interrupts the sequence.
func (h *Humanoid) emit(op string, fn func(schemas.Device) error, fields ...zap.Field) {
	err := h.handle.Do(fn)
	switch {
	case err == nil:
		h.emitted.Add(1)
	case errors.Is(err, ErrLockUnavailable):
		h.skipped.Add(1)
		h.logger.Debug("Humanoid: device busy, emission skipped", append(fields, zap.String("op", op))...)
	default:
		h.failed.Add(1)
		h.logger.Warn("Humanoid: failed to dispatch "+op, append(fields, zap.Error(err))...)
	}
}

// sleepUntil blocks until the clock reaches deadline.
func (h *Humanoid) sleepUntil(deadline time.Time) {
	if d := deadline.Sub(h.clock.Now()); d > 0 {
		h.clock.Sleep(d)
	}
}

// hold sleeps for a duration drawn from U[minMs, maxMs).
func (h *Humanoid) hold(minMs, maxMs float64) time.Duration {
	d := msToDuration(h.rng.uniform(minMs, maxMs))
	h.clock.Sleep(d)
	return d
}
