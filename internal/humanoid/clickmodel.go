// internal/humanoid/clickmodel.go
package humanoid

import (
	"fmt"
	"time"

	"github.com/xkilldash9x/minke/api/schemas"
	"go.uber.org/zap"
)

// Click presses the selected buttons, holds them for U[ClickHoldMinMs,
// ClickHoldMaxMs) and releases. The device is acquired separately for the
// press and the release, never across the hold.
func (h *Humanoid) Click(left, right bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.click(schemas.Buttons(left, right))
}

// ClickAt moves to (x, y) over d and clicks there.
func (h *Humanoid) ClickAt(x, y int, d time.Duration, left, right bool) error {
	if d <= 0 {
		return fmt.Errorf("click at (%d, %d) over %s: %w", x, y, d, ErrInvalidDuration)
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.moveTo(Pt(x, y), d)
	h.click(schemas.Buttons(left, right))
	return nil
}

// Press holds buttons down until Release. Moves in between become a stroke.
func (h *Humanoid) Press(buttons schemas.MouseButtons) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.press(buttons)
}

// Release lets go of all buttons.
func (h *Humanoid) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.release()
}

func (h *Humanoid) click(buttons schemas.MouseButtons) {
	if buttons == schemas.ButtonNone {
		h.logger.Debug("Humanoid: click requested with no buttons selected")
	}
	h.press(buttons)
	held := h.hold(h.cfg.ClickHoldMinMs, h.cfg.ClickHoldMaxMs)
	h.release()

	h.logger.Debug("Humanoid: clicked", zap.Stringer("buttons", buttons), zap.Duration("hold", held))
}

func (h *Humanoid) press(buttons schemas.MouseButtons) {
	h.emit("mouse_down", func(dev schemas.Device) error {
		return dev.MouseDown(buttons)
	}, zap.Stringer("buttons", buttons))
}

func (h *Humanoid) release() {
	h.emit("mouse_up", func(dev schemas.Device) error {
		return dev.MouseUp()
	})
}
