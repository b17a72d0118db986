// internal/humanoid/random.go
package humanoid

import (
	"math"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

// sampler serializes draws from a single random stream; *rand.Rand is not
// safe for concurrent use.
type sampler struct {
	mu  sync.Mutex
	src *rand.Rand
}

func newSampler(src *rand.Rand) *sampler {
	return &sampler{src: src}
}

// uniform draws from U[min, max).
func (s *sampler) uniform(min, max float64) float64 {
	if max <= min {
		return min
	}
	s.mu.Lock()
	v := distuv.Uniform{Min: min, Max: max, Src: s.src}.Rand()
	s.mu.Unlock()
	// Scaling can round the top of [0,1) up onto max.
	if v >= max {
		v = math.Nextafter(max, min)
	}
	return v
}

// spread draws a symmetric offset from U(-r, r).
func (s *sampler) spread(r float64) float64 {
	return s.uniform(-r, r)
}

// normal draws from N(mu, sigma). A zero sigma returns mu exactly.
func (s *sampler) normal(mu, sigma float64) float64 {
	if sigma <= 0 {
		return mu
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: s.src}.Rand()
}
