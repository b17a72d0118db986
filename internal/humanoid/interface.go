// internal/humanoid/interface.go
package humanoid

import (
	"time"

	"github.com/xkilldash9x/minke/api/schemas"
)

// Handle grants exclusive access to the device for exactly one command.
// Implementations return ErrLockUnavailable (wrapped or not) when access
// cannot be obtained; fn is not called in that case.
type Handle interface {
	Do(fn func(dev schemas.Device) error) error
}

// Clock is the time source used to pace samples and holds.
// github.com/benbjohnson/clock.Clock satisfies it.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}
