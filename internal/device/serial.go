// internal/device/serial.go
package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/minke/api/schemas"
	"github.com/xkilldash9x/minke/internal/config"
)

// ErrNoPort is returned by OpenSerial when no port name is configured.
var ErrNoPort = errors.New("device: serial port not configured")

// SerialConfig describes the link to the firmware and the screen geometry
// used to scale pixel coordinates into the absolute pointer space.
type SerialConfig struct {
	Port         string
	BaudRate     int
	ScreenWidth  int
	ScreenHeight int
	SafeMargin   int
	FrameGap     time.Duration
}

// SerialConfigFrom maps the device section of the application config.
func SerialConfigFrom(cfg config.DeviceConfig) SerialConfig {
	return SerialConfig{
		Port:         cfg.Port,
		BaudRate:     cfg.BaudRate,
		ScreenWidth:  cfg.ScreenWidth,
		ScreenHeight: cfg.ScreenHeight,
		SafeMargin:   cfg.SafeMargin,
		FrameGap:     cfg.FrameGap,
	}
}

// Serial drives the firmware over a UART link, one frame per command.
type Serial struct {
	mu      sync.Mutex
	port    io.WriteCloser
	cfg     SerialConfig
	limiter *rate.Limiter
	logger  *zap.Logger

	buttons schemas.MouseButtons
	keyHeld bool
	frames  uint64
}

var _ schemas.Device = (*Serial)(nil)

// OpenSerial opens the configured port at 8N1.
func OpenSerial(cfg SerialConfig, logger *zap.Logger) (*Serial, error) {
	if cfg.Port == "" {
		return nil, ErrNoPort
	}
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Port, err)
	}
	s := NewSerial(port, cfg, logger)
	s.logger.Info("Serial link opened.", zap.String("port", cfg.Port), zap.Int("baud_rate", cfg.BaudRate))
	return s, nil
}

// NewSerial drives an already open link. Frames are spaced at least
// cfg.FrameGap apart; a zero gap disables pacing.
func NewSerial(port io.WriteCloser, cfg SerialConfig, logger *zap.Logger) *Serial {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if cfg.FrameGap > 0 {
		limit = rate.Every(cfg.FrameGap)
	}
	return &Serial{
		port:    port,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.Named("serial"),
	}
}

// Scale maps a pixel coordinate on an axis of the given size into the
// absolute pointer space, clamped to stay margin units away from the edges.
func Scale(px, size, margin int) uint16 {
	v := 0
	if size > 0 {
		v = px * AbsMax / size
	}
	return uint16(min(max(v, margin), AbsMax-margin))
}

func (s *Serial) MouseAbs(x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sx := Scale(x, s.cfg.ScreenWidth, s.cfg.SafeMargin)
	sy := Scale(y, s.cfg.ScreenHeight, s.cfg.SafeMargin)
	// Held buttons ride along so a drag is not released by the next sample.
	return s.write(MouseAbsFrame(s.buttons, sx, sy))
}

// MouseDown sends the button mask as a zero-motion relative frame.
func (s *Serial) MouseDown(buttons schemas.MouseButtons) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(MouseRelFrame(buttons, 0, 0, 0)); err != nil {
		return err
	}
	s.buttons = buttons
	return nil
}

func (s *Serial) MouseUp() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mouseUp()
}

func (s *Serial) mouseUp() error {
	if err := s.write(MouseRelFrame(schemas.ButtonNone, 0, 0, 0)); err != nil {
		return err
	}
	s.buttons = schemas.ButtonNone
	return nil
}

func (s *Serial) KeyDown(code schemas.KeyCode, mod schemas.KeyModifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(KeyFrame(code, mod, false)); err != nil {
		return err
	}
	s.keyHeld = true
	return nil
}

// KeyUp releases everything; the firmware ignores the keycode on release.
func (s *Serial) KeyUp() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyUp()
}

func (s *Serial) keyUp() error {
	if err := s.write(KeyFrame(schemas.KeyNone, schemas.ModNone, true)); err != nil {
		return err
	}
	s.keyHeld = false
	return nil
}

func (s *Serial) Heartbeat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(HeartbeatFrame())
}

// SetIdentity switches the USB identity the firmware presents.
func (s *Serial) SetIdentity(id uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info("Switching device identity.", zap.Uint8("identity", id))
	return s.write(SetIDFrame(id))
}

// Frames reports how many frames were written.
func (s *Serial) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func (s *Serial) write(f Frame) error {
	if err := s.limiter.Wait(context.Background()); err != nil {
		return fmt.Errorf("frame pacing: %w", err)
	}
	b := f.Encode()
	n, err := s.port.Write(b[:])
	if err != nil {
		return fmt.Errorf("failed to write %s frame: %w", f.Type, err)
	}
	if n != len(b) {
		return fmt.Errorf("short write of %s frame: %d of %d bytes", f.Type, n, len(b))
	}
	s.frames++
	return nil
}

// Close releases anything still held on the host, then closes the port.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.keyHeld {
		err = multierr.Append(err, s.keyUp())
	}
	if s.buttons != schemas.ButtonNone {
		err = multierr.Append(err, s.mouseUp())
	}
	err = multierr.Append(err, s.port.Close())
	if err != nil {
		s.logger.Warn("Serial link closed with errors.", zap.Error(err))
	}
	return err
}
