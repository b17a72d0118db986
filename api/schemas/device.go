// File: api/schemas/device.go
package schemas

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLockUnavailable is returned by a device handle when exclusive access
// could not be obtained for a command.
var ErrLockUnavailable = errors.New("device handle unavailable")

// Device is the capability set of an external HID sink. Coordinates are
// screen pixels; the implementation maps them to whatever its transport needs.
type Device interface {
	MouseAbs(x, y int) error
	MouseDown(buttons MouseButtons) error
	MouseUp() error
	KeyDown(code KeyCode, modifiers KeyModifier) error
	KeyUp() error
	Heartbeat() error
}

// MouseButtons is the HID button bitmask.
type MouseButtons uint8

const (
	ButtonNone   MouseButtons = 0
	ButtonLeft   MouseButtons = 1 << 0
	ButtonRight  MouseButtons = 1 << 1
	ButtonMiddle MouseButtons = 1 << 2
)

// Buttons builds a mask from the two primary button flags.
func Buttons(left, right bool) MouseButtons {
	var b MouseButtons
	if left {
		b |= ButtonLeft
	}
	if right {
		b |= ButtonRight
	}
	return b
}

func (b MouseButtons) String() string {
	if b == ButtonNone {
		return "none"
	}
	var parts []string
	if b&ButtonLeft != 0 {
		parts = append(parts, "left")
	}
	if b&ButtonRight != 0 {
		parts = append(parts, "right")
	}
	if b&ButtonMiddle != 0 {
		parts = append(parts, "middle")
	}
	return strings.Join(parts, "+")
}

// KeyCode is a USB HID usage ID from the keyboard page.
type KeyCode uint8

const (
	KeyNone      KeyCode = 0x00
	KeyA         KeyCode = 0x04
	KeyZ         KeyCode = 0x1D
	Key1         KeyCode = 0x1E
	Key0         KeyCode = 0x27
	KeyEnter     KeyCode = 0x28
	KeyEscape    KeyCode = 0x29
	KeyBackspace KeyCode = 0x2A
	KeyTab       KeyCode = 0x2B
	KeySpace     KeyCode = 0x2C
	KeyF1        KeyCode = 0x3A
	KeyF12       KeyCode = 0x45
	KeyDelete    KeyCode = 0x4C
	KeyRight     KeyCode = 0x4F
	KeyLeft      KeyCode = 0x50
	KeyDown      KeyCode = 0x51
	KeyUp        KeyCode = 0x52
)

// KeyModifier is the HID modifier byte.
type KeyModifier uint8

const (
	ModNone   KeyModifier = 0
	ModCtrl   KeyModifier = 0x01
	ModShift  KeyModifier = 0x02
	ModAlt    KeyModifier = 0x04
	ModWin    KeyModifier = 0x08
	ModRCtrl  KeyModifier = 0x10
	ModRShift KeyModifier = 0x20
	ModRAlt   KeyModifier = 0x40
	ModRWin   KeyModifier = 0x80
)

var namedKeys = map[string]KeyCode{
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"esc":       KeyEscape,
	"escape":    KeyEscape,
	"backspace": KeyBackspace,
	"tab":       KeyTab,
	"space":     KeySpace,
	"delete":    KeyDelete,
	"right":     KeyRight,
	"left":      KeyLeft,
	"down":      KeyDown,
	"up":        KeyUp,
}

var namedModifiers = map[string]KeyModifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"shift":   ModShift,
	"alt":     ModAlt,
	"win":     ModWin,
	"cmd":     ModWin,
	"r_ctrl":  ModRCtrl,
	"r_shift": ModRShift,
	"r_alt":   ModRAlt,
	"r_win":   ModRWin,
}

// ParseKey resolves a key name. Accepted forms are the named keys, a single
// letter or digit, and f1 through f12.
func ParseKey(name string) (KeyCode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if code, ok := namedKeys[n]; ok {
		return code, nil
	}
	if len(n) == 1 {
		c := n[0]
		switch {
		case c >= 'a' && c <= 'z':
			return KeyA + KeyCode(c-'a'), nil
		case c >= '1' && c <= '9':
			return Key1 + KeyCode(c-'1'), nil
		case c == '0':
			return Key0, nil
		}
	}
	var fn int
	if _, err := fmt.Sscanf(n, "f%d", &fn); err == nil && fn >= 1 && fn <= 12 {
		return KeyF1 + KeyCode(fn-1), nil
	}
	return KeyNone, fmt.Errorf("unknown key %q", name)
}

// ParseModifiers ORs together the named modifiers.
func ParseModifiers(names []string) (KeyModifier, error) {
	var mod KeyModifier
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		m, ok := namedModifiers[n]
		if !ok {
			return ModNone, fmt.Errorf("unknown modifier %q", name)
		}
		mod |= m
	}
	return mod, nil
}

// ParseButtons reads a mask in the form produced by MouseButtons.String,
// e.g. "left" or "left+right". An empty string is ButtonNone.
func ParseButtons(s string) (MouseButtons, error) {
	var b MouseButtons
	for _, part := range strings.Split(strings.ToLower(strings.TrimSpace(s)), "+") {
		switch strings.TrimSpace(part) {
		case "", "none":
		case "left":
			b |= ButtonLeft
		case "right":
			b |= ButtonRight
		case "middle":
			b |= ButtonMiddle
		default:
			return ButtonNone, fmt.Errorf("unknown mouse button %q", part)
		}
	}
	return b, nil
}
