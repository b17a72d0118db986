package humanoid

import (
	"fmt"
	"time"

	"github.com/xkilldash9x/minke/api/schemas"
)

// Drag presses buttons at the current position, glides to (x, y) over d and
// releases. Short settle pauses precede and follow the stroke so the target
// registers the press before the pointer starts moving.
func (h *Humanoid) Drag(x, y int, d time.Duration, buttons schemas.MouseButtons) error {
	if d <= 0 {
		return fmt.Errorf("drag to (%d, %d) over %s: %w", x, y, d, ErrInvalidDuration)
	}
	if buttons == schemas.ButtonNone {
		buttons = schemas.ButtonLeft
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.press(buttons)
	h.hold(h.cfg.DragSettleMinMs, h.cfg.DragSettleMaxMs)
	h.moveTo(Pt(x, y), d)
	h.hold(h.cfg.DragSettleMinMs, h.cfg.DragSettleMaxMs)
	h.release()
	return nil
}
