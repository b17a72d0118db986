// internal/device/handle.go
package device

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/xkilldash9x/minke/api/schemas"
)

// Doer runs a single command with exclusive access to a device.
type Doer interface {
	Do(fn func(dev schemas.Device) error) error
}

// Handle is the exclusive-access guard around one device. Access is granted
// for exactly one command at a time and is never held across a caller's
// pacing sleeps, so the keep-alive can slip heartbeats in between samples.
type Handle struct {
	dev     schemas.Device
	clock   clock.Clock
	timeout time.Duration
	logger  *zap.Logger

	// sem has capacity one; holding its slot is holding the device.
	sem       chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

var _ Doer = (*Handle)(nil)

// NewHandle wraps dev. Acquisition gives up after timeout; a nil clock means
// wall time.
func NewHandle(dev schemas.Device, clk clock.Clock, timeout time.Duration, logger *zap.Logger) *Handle {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handle{
		dev:     dev,
		clock:   clk,
		timeout: timeout,
		logger:  logger.Named("handle"),
		sem:     make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Do acquires the device, runs fn and releases it. When the device cannot be
// acquired within the timeout, or the handle is closed, the returned error
// wraps schemas.ErrLockUnavailable and fn is not called.
func (h *Handle) Do(fn func(dev schemas.Device) error) error {
	if err := h.acquire(); err != nil {
		return err
	}
	defer h.release()
	return fn(h.dev)
}

func (h *Handle) acquire() error {
	select {
	case <-h.done:
		return fmt.Errorf("handle closed: %w", schemas.ErrLockUnavailable)
	default:
	}

	select {
	case h.sem <- struct{}{}:
		return h.checkOpen()
	default:
	}

	timer := h.clock.Timer(h.timeout)
	defer timer.Stop()
	select {
	case h.sem <- struct{}{}:
		return h.checkOpen()
	case <-timer.C:
		return fmt.Errorf("acquire within %s: %w", h.timeout, schemas.ErrLockUnavailable)
	case <-h.done:
		return fmt.Errorf("handle closed: %w", schemas.ErrLockUnavailable)
	}
}

// checkOpen runs with the slot held. Close may have won the race for it.
func (h *Handle) checkOpen() error {
	select {
	case <-h.done:
		h.release()
		return fmt.Errorf("handle closed: %w", schemas.ErrLockUnavailable)
	default:
		return nil
	}
}

func (h *Handle) release() {
	<-h.sem
}

// Close refuses new commands, waits for the one in flight and closes the
// device when it implements io.Closer. It is safe to call more than once.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		close(h.done)
		// Take the slot for good; nothing runs after this.
		h.sem <- struct{}{}
		if c, ok := h.dev.(io.Closer); ok {
			h.closeErr = c.Close()
		}
		h.logger.Debug("Device handle closed.", zap.Error(h.closeErr))
	})
	return h.closeErr
}
