// internal/device/keepalive.go
package device

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/xkilldash9x/minke/api/schemas"
)

// KeepAlive sends a heartbeat through the handle at a fixed interval so the
// firmware keeps the link alive while the driver is idle.
type KeepAlive struct {
	handle   Doer
	clock    clock.Clock
	interval time.Duration
	logger   *zap.Logger

	beats  atomic.Uint64
	missed atomic.Uint64
}

func NewKeepAlive(handle Doer, clk clock.Clock, interval time.Duration, logger *zap.Logger) *KeepAlive {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeepAlive{
		handle:   handle,
		clock:    clk,
		interval: interval,
		logger:   logger.Named("keepalive"),
	}
}

// Run beats once immediately and then on every tick until ctx is done. A
// busy handle or a failed write only skips that beat. Run returns nil on
// cancellation.
func (k *KeepAlive) Run(ctx context.Context) error {
	ticker := k.clock.Ticker(k.interval)
	defer ticker.Stop()

	k.logger.Debug("Keep-alive started.", zap.Duration("interval", k.interval))
	k.beat()
	for {
		select {
		case <-ctx.Done():
			k.logger.Debug("Keep-alive stopped.", zap.Uint64("beats", k.beats.Load()), zap.Uint64("missed", k.missed.Load()))
			return nil
		case <-ticker.C:
			k.beat()
		}
	}
}

func (k *KeepAlive) beat() {
	err := k.handle.Do(func(dev schemas.Device) error {
		return dev.Heartbeat()
	})
	switch {
	case err == nil:
		k.beats.Add(1)
	case errors.Is(err, schemas.ErrLockUnavailable):
		k.missed.Add(1)
	default:
		k.missed.Add(1)
		k.logger.Warn("Heartbeat failed.", zap.Error(err))
	}
}

// Beats reports heartbeats delivered so far.
func (k *KeepAlive) Beats() uint64 {
	return k.beats.Load()
}

// Missed reports heartbeats skipped because the handle was busy or the
// write failed.
func (k *KeepAlive) Missed() uint64 {
	return k.missed.Load()
}
