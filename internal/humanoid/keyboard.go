// internal/humanoid/keyboard.go
package humanoid

import (
	"fmt"
	"math"
	"time"

	"github.com/xkilldash9x/minke/api/schemas"
	"go.uber.org/zap"
)

// keyCodeFor maps a character to its HID usage code. Only a-z and space are
// typeable (A-Z too when foldCase is set); everything else reports false.
func keyCodeFor(r rune, foldCase bool) (schemas.KeyCode, bool) {
	if foldCase && r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	switch {
	case r >= 'a' && r <= 'z':
		return schemas.KeyA + schemas.KeyCode(r-'a'), true
	case r == ' ':
		return schemas.KeySpace, true
	default:
		return schemas.KeyNone, false
	}
}

// BaseDelay is the mean inter-character delay for a typing speed, with a
// word counted as charsPerWord characters.
func BaseDelay(wpm, charsPerWord float64) time.Duration {
	return msToDuration(60000 / (wpm * charsPerWord))
}

// Type types text at roughly wpm words per minute. Each typeable character is
// pressed and held for U[KeyHoldMinMs, KeyHoldMaxMs); every character,
// typeable or not, is followed by a delay drawn from N(base, ratio*base)
// and clamped to KeyDelayMinMs.
func (h *Humanoid) Type(text string, wpm float64) error {
	if wpm <= 0 || math.IsNaN(wpm) || math.IsInf(wpm, 0) {
		return fmt.Errorf("type at %v wpm: %w", wpm, ErrInvalidWPM)
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	c := h.cfg
	baseMs := 60000 / (wpm * c.CharsPerWord)
	sigma := c.KeyDelayStdDevRatio * baseMs

	h.logger.Debug("Humanoid: typing",
		zap.Int("chars", len([]rune(text))), zap.Float64("wpm", wpm), zap.Float64("base_delay_ms", baseMs))

	for _, r := range text {
		if code, ok := keyCodeFor(r, c.FoldCase); ok {
			h.tap(code, schemas.ModNone)
		} else {
			h.logger.Debug("Humanoid: no key for character", zap.String("char", string(r)))
		}

		delayMs := math.Max(c.KeyDelayMinMs, h.rng.normal(baseMs, sigma))
		h.clock.Sleep(msToDuration(delayMs))
	}
	return nil
}

// PressKey taps a single key with the given modifier mask held, e.g. ctrl+c.
func (h *Humanoid) PressKey(code schemas.KeyCode, modifiers schemas.KeyModifier) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tap(code, modifiers)
}

// tap emits key-down, holds, and emits key-up. The caller holds h.mu.
func (h *Humanoid) tap(code schemas.KeyCode, modifiers schemas.KeyModifier) {
	h.emit("key_down", func(dev schemas.Device) error {
		return dev.KeyDown(code, modifiers)
	}, zap.Uint8("code", uint8(code)), zap.Uint8("modifiers", uint8(modifiers)))

	h.hold(h.cfg.KeyHoldMinMs, h.cfg.KeyHoldMaxMs)

	h.emit("key_up", func(dev schemas.Device) error {
		return dev.KeyUp()
	}, zap.Uint8("code", uint8(code)))
}
