// internal/humanoid/config.go
package humanoid

import (
	"math/rand/v2"
	"time"

	"github.com/xkilldash9x/minke/internal/config"
)

// Config holds the parameters defining the behavior of the simulation.
type Config struct {
	config.HumanoidConfig

	// Rng, when set, is the random stream for every sample. It takes
	// precedence over HumanoidConfig.Seed.
	Rng *rand.Rand
}

// DefaultConfig returns the stock parameters with no fixed random stream.
func DefaultConfig() Config {
	return Config{HumanoidConfig: config.DefaultHumanoidConfig()}
}

// FromSettings wraps loaded settings.
func FromSettings(s config.HumanoidConfig) Config {
	return Config{HumanoidConfig: s}
}

// newRng resolves the random stream: an explicit Rng, else Seed, else a
// time-derived seed.
func (c Config) newRng() *rand.Rand {
	if c.Rng != nil {
		return c.Rng
	}
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// msToDuration converts fractional milliseconds, truncating below the nanosecond.
func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
