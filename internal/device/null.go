package device

import (
	"go.uber.org/zap"

	"github.com/xkilldash9x/minke/api/schemas"
)

// Null accepts every command and does nothing with it beyond a debug line.
type Null struct {
	logger *zap.Logger
}

var _ schemas.Device = (*Null)(nil)

func NewNull(logger *zap.Logger) *Null {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Null{logger: logger.Named("null")}
}

func (n *Null) MouseAbs(x, y int) error {
	n.logger.Debug("mouse_abs", zap.Int("x", x), zap.Int("y", y))
	return nil
}

func (n *Null) MouseDown(buttons schemas.MouseButtons) error {
	n.logger.Debug("mouse_down", zap.Stringer("buttons", buttons))
	return nil
}

func (n *Null) MouseUp() error {
	n.logger.Debug("mouse_up")
	return nil
}

func (n *Null) KeyDown(code schemas.KeyCode, mod schemas.KeyModifier) error {
	n.logger.Debug("key_down", zap.Uint8("code", uint8(code)), zap.Uint8("mod", uint8(mod)))
	return nil
}

func (n *Null) KeyUp() error {
	n.logger.Debug("key_up")
	return nil
}

func (n *Null) Heartbeat() error {
	return nil
}
