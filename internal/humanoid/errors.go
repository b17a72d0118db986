package humanoid

import (
	"errors"

	"github.com/xkilldash9x/minke/api/schemas"
)

var (
	// ErrInvalidDuration is returned when a move is requested with a
	// non-positive duration. Nothing is emitted and the position is unchanged.
	ErrInvalidDuration = errors.New("humanoid: duration must be positive")

	// ErrInvalidWPM is returned by Type for a non-positive or non-finite speed.
	ErrInvalidWPM = errors.New("humanoid: words per minute must be positive")

	// ErrLockUnavailable signals that the device could not be acquired for a
	// single emission. The engine skips that emission and carries on.
	ErrLockUnavailable = schemas.ErrLockUnavailable
)
