package humanoid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/minke/api/schemas"
)

func TestDrag(t *testing.T) {
	h, handle, clk := setupTest(t, Pt(100, 100), 21)

	require.NoError(t, h.Drag(400, 250, 200*time.Millisecond, schemas.ButtonLeft))

	events := handle.getEvents()
	require.Len(t, events, 1+17+1)
	assert.Equal(t, evMouseDown, events[0].Kind)
	assert.Equal(t, schemas.ButtonLeft, events[0].Buttons)
	assert.Equal(t, evMouseUp, events[len(events)-1].Kind)

	// Settle before the stroke starts and after it ends.
	firstMove, lastMove := events[1], events[len(events)-2]
	settleIn := firstMove.At - events[0].At
	settleOut := events[len(events)-1].At - lastMove.At
	for _, d := range []time.Duration{settleIn, settleOut} {
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.Less(t, d, 200*time.Millisecond)
	}
	assert.Equal(t, settleIn+200*time.Millisecond+settleOut, clk.elapsed())

	assert.InDelta(t, 400, h.Position().X, 2)
	assert.InDelta(t, 250, h.Position().Y, 2)
}

func TestDrag_Defaults(t *testing.T) {
	h, handle, _ := setupTest(t, Pt(0, 0), 22)

	require.NoError(t, h.Drag(50, 50, 100*time.Millisecond, schemas.ButtonNone))
	downs := handle.eventsOf(evMouseDown)
	require.Len(t, downs, 1)
	assert.Equal(t, schemas.ButtonLeft, downs[0].Buttons, "no buttons means the primary button")

	err := h.Drag(50, 50, -time.Second, schemas.ButtonRight)
	assert.ErrorIs(t, err, ErrInvalidDuration)
	assert.Len(t, handle.eventsOf(evMouseDown), 1, "invalid drag must not press")
}
