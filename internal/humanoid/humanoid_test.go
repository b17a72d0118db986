package humanoid

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/minke/internal/config"
)

func TestNew_Defaults(t *testing.T) {
	clk := newMockClock()
	handle := newMockHandle(t, clk)

	h := New(DefaultConfig(), nil, handle, nil, Pt(960, 540))
	require.NotNil(t, h)
	assert.NotNil(t, h.logger, "nil logger is replaced by a no-op logger")
	assert.NotNil(t, h.clock, "nil clock falls back to wall time")
	assert.Equal(t, Pt(960, 540), h.Position())

	_, err := uuid.Parse(h.Session())
	assert.NoError(t, err, "session id is a uuid")

	other := New(DefaultConfig(), nil, handle, nil, Point{})
	assert.NotEqual(t, h.Session(), other.Session())
}

func TestNew_SeedFromSettings(t *testing.T) {
	settings := config.DefaultHumanoidConfig()
	settings.Seed = 77

	run := func() Point {
		clk := newMockClock()
		h := New(FromSettings(settings), nil, newMockHandle(t, clk), clk, Pt(0, 0))
		require.NoError(t, h.MoveTo(400, 400, 50*time.Millisecond))
		return h.Position()
	}
	assert.Equal(t, run(), run(), "a fixed seed reproduces the landing point")
}

func TestNew_ExplicitRngWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 1
	cfg.Rng = rand.New(rand.NewPCG(5, 5))

	clk := newMockClock()
	h := New(cfg, nil, newMockHandle(t, clk), clk, Pt(0, 0))
	assert.Same(t, cfg.Rng, h.rng.src)
}

func TestHumanoid_ConcurrentCallersSerialize(t *testing.T) {
	h, handle, _ := setupTest(t, Pt(0, 0), 9)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		assert.NoError(t, h.MoveTo(800, 600, 250*time.Millisecond))
	}()
	go func() {
		defer wg.Done()
		h.Click(true, false)
	}()
	go func() {
		defer wg.Done()
		assert.NoError(t, h.Type("go", 120))
	}()
	wg.Wait()

	// Operations never interleave: every press is directly followed by its release.
	events := handle.getEvents()
	require.Len(t, events, 21+2+4)
	for i, e := range events {
		switch e.Kind {
		case evMouseDown:
			assert.Equal(t, evMouseUp, events[i+1].Kind)
		case evKeyDown:
			assert.Equal(t, evKeyUp, events[i+1].Kind)
		}
	}
	assert.Equal(t, uint64(27), h.Stats().Emitted)
}
