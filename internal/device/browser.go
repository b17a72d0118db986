// internal/device/browser.go
package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/minke/api/schemas"
)

// BrowserConfig selects the page the preview sink drives.
type BrowserConfig struct {
	URL      string
	Headless bool
}

// Browser replays commands as CDP input events on a Chrome page. Coordinates
// are CSS pixels and are passed through unscaled. It is meant for previewing
// motion without hardware attached.
type Browser struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *zap.Logger
	timeout time.Duration

	runActionsFunc func(ctx context.Context, actions ...chromedp.Action) error

	x, y    float64
	buttons schemas.MouseButtons
	key     schemas.KeyCode
	mod     schemas.KeyModifier
}

var _ schemas.Device = (*Browser)(nil)

// NewBrowser launches Chrome and navigates to cfg.URL. Close shuts it down.
func NewBrowser(ctx context.Context, cfg BrowserConfig, logger *zap.Logger) (*Browser, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", cfg.Headless),
			chromedp.Flag("disable-gpu", cfg.Headless),
		)...,
	)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	if err := chromedp.Run(browserCtx, chromedp.Navigate(cfg.URL)); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start browser preview at %s: %w", cfg.URL, err)
	}
	logger.Info("Browser preview ready.", zap.String("url", cfg.URL), zap.Bool("headless", cfg.Headless))

	b := newBrowser(browserCtx, logger)
	b.cancel = cancel
	return b, nil
}

func newBrowser(ctx context.Context, logger *zap.Logger) *Browser {
	return &Browser{
		ctx:            ctx,
		logger:         logger.Named("browser"),
		timeout:        5 * time.Second,
		runActionsFunc: chromedp.Run,
	}
}

func (b *Browser) run(actions ...chromedp.Action) error {
	opCtx, cancel := context.WithTimeout(b.ctx, b.timeout)
	defer cancel()
	return b.runActionsFunc(opCtx, actions...)
}

// primaryButton picks the button CDP reports for a press; CDP carries the
// full mask separately.
func primaryButton(m schemas.MouseButtons) input.MouseButton {
	switch {
	case m&schemas.ButtonLeft != 0:
		return input.MouseButton("left")
	case m&schemas.ButtonRight != 0:
		return input.MouseButton("right")
	case m&schemas.ButtonMiddle != 0:
		return input.MouseButton("middle")
	default:
		return input.MouseButton("none")
	}
}

// cdpButtons converts the HID mask (left, right, middle) to the CDP mask
// (left, right, middle happen to share bit order).
func cdpButtons(m schemas.MouseButtons) int64 {
	return int64(m & (schemas.ButtonLeft | schemas.ButtonRight | schemas.ButtonMiddle))
}

func (b *Browser) MouseAbs(x, y int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.x, b.y = float64(x), float64(y)
	p := input.DispatchMouseEvent(input.MouseMoved, b.x, b.y).
		WithButton(primaryButton(b.buttons)).
		WithButtons(cdpButtons(b.buttons))
	return b.run(p)
}

func (b *Browser) MouseDown(buttons schemas.MouseButtons) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := input.DispatchMouseEvent(input.MousePressed, b.x, b.y).
		WithButton(primaryButton(buttons)).
		WithButtons(cdpButtons(buttons)).
		WithClickCount(1)
	if err := b.run(p); err != nil {
		return fmt.Errorf("browser mouse down: %w", err)
	}
	b.buttons = buttons
	return nil
}

func (b *Browser) MouseUp() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := input.DispatchMouseEvent(input.MouseReleased, b.x, b.y).
		WithButton(primaryButton(b.buttons)).
		WithButtons(0).
		WithClickCount(1)
	if err := b.run(p); err != nil {
		return fmt.Errorf("browser mouse up: %w", err)
	}
	b.buttons = schemas.ButtonNone
	return nil
}

func cdpModifiers(m schemas.KeyModifier) input.Modifier {
	var out input.Modifier
	if m&(schemas.ModAlt|schemas.ModRAlt) != 0 {
		out |= input.ModifierAlt
	}
	if m&(schemas.ModCtrl|schemas.ModRCtrl) != 0 {
		out |= input.ModifierCtrl
	}
	if m&(schemas.ModWin|schemas.ModRWin) != 0 {
		out |= input.ModifierMeta
	}
	if m&(schemas.ModShift|schemas.ModRShift) != 0 {
		out |= input.ModifierShift
	}
	return out
}

// domKey describes a HID usage in DOM terms.
type domKey struct {
	key  string
	code string
	vk   int64
	text string
}

func domKeyFor(code schemas.KeyCode) (domKey, bool) {
	switch {
	case code >= schemas.KeyA && code <= schemas.KeyZ:
		c := rune('a' + code - schemas.KeyA)
		return domKey{key: string(c), code: "Key" + string(c-32), vk: int64(c - 32), text: string(c)}, true
	case code >= schemas.Key1 && code <= schemas.Key0-1:
		c := rune('1' + code - schemas.Key1)
		return domKey{key: string(c), code: "Digit" + string(c), vk: int64(c), text: string(c)}, true
	case code == schemas.Key0:
		return domKey{key: "0", code: "Digit0", vk: '0', text: "0"}, true
	case code >= schemas.KeyF1 && code <= schemas.KeyF12:
		n := int(code-schemas.KeyF1) + 1
		name := fmt.Sprintf("F%d", n)
		return domKey{key: name, code: name, vk: int64(0x6F + n)}, true
	}
	switch code {
	case schemas.KeyEnter:
		return domKey{key: "Enter", code: "Enter", vk: 13, text: "\r"}, true
	case schemas.KeyEscape:
		return domKey{key: "Escape", code: "Escape", vk: 27}, true
	case schemas.KeyBackspace:
		return domKey{key: "Backspace", code: "Backspace", vk: 8}, true
	case schemas.KeyTab:
		return domKey{key: "Tab", code: "Tab", vk: 9}, true
	case schemas.KeySpace:
		return domKey{key: " ", code: "Space", vk: 32, text: " "}, true
	case schemas.KeyDelete:
		return domKey{key: "Delete", code: "Delete", vk: 46}, true
	case schemas.KeyRight:
		return domKey{key: "ArrowRight", code: "ArrowRight", vk: 39}, true
	case schemas.KeyLeft:
		return domKey{key: "ArrowLeft", code: "ArrowLeft", vk: 37}, true
	case schemas.KeyDown:
		return domKey{key: "ArrowDown", code: "ArrowDown", vk: 40}, true
	case schemas.KeyUp:
		return domKey{key: "ArrowUp", code: "ArrowUp", vk: 38}, true
	}
	return domKey{}, false
}

func (b *Browser) KeyDown(code schemas.KeyCode, mod schemas.KeyModifier) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	k, ok := domKeyFor(code)
	if !ok {
		b.logger.Debug("No DOM mapping for key, dropped.", zap.Uint8("code", uint8(code)))
		return nil
	}
	p := input.DispatchKeyEvent(input.KeyDown).
		WithModifiers(cdpModifiers(mod)).
		WithKey(k.key).
		WithCode(k.code).
		WithWindowsVirtualKeyCode(k.vk)
	// Text only for unmodified printable keys, so shortcuts do not type.
	if k.text != "" && mod&^(schemas.ModShift|schemas.ModRShift) == 0 {
		p = p.WithText(k.text)
	}
	if err := b.run(p); err != nil {
		return fmt.Errorf("browser key down: %w", err)
	}
	b.key, b.mod = code, mod
	return nil
}

func (b *Browser) KeyUp() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	k, ok := domKeyFor(b.key)
	if !ok {
		return nil
	}
	p := input.DispatchKeyEvent(input.KeyUp).
		WithModifiers(cdpModifiers(b.mod)).
		WithKey(k.key).
		WithCode(k.code).
		WithWindowsVirtualKeyCode(k.vk)
	if err := b.run(p); err != nil {
		return fmt.Errorf("browser key up: %w", err)
	}
	b.key, b.mod = schemas.KeyNone, schemas.ModNone
	return nil
}

func (b *Browser) Heartbeat() error {
	return nil
}

// Close shuts the browser down.
func (b *Browser) Close() error {
	if b.cancel != nil {
		b.cancel()
	}
	return nil
}
