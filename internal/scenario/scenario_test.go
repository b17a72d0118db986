package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/minke/api/schemas"
)

type fakeDriver struct {
	calls   []string
	slept   time.Duration
	failOn  string
	onCall  func(call string)
	failErr error
}

func (f *fakeDriver) rec(format string, args ...any) error {
	call := fmt.Sprintf(format, args...)
	f.calls = append(f.calls, call)
	if f.onCall != nil {
		f.onCall(call)
	}
	if f.failOn != "" && strings.HasPrefix(call, f.failOn) {
		return f.failErr
	}
	return nil
}

func (f *fakeDriver) MoveTo(x, y int, d time.Duration) error {
	return f.rec("move %d,%d %s", x, y, d)
}
func (f *fakeDriver) ClickAt(x, y int, d time.Duration, left, right bool) error {
	return f.rec("click_at %d,%d %s %s", x, y, d, schemas.Buttons(left, right))
}
func (f *fakeDriver) Click(left, right bool) { _ = f.rec("click %s", schemas.Buttons(left, right)) }
func (f *fakeDriver) Press(b schemas.MouseButtons) {
	_ = f.rec("press %s", b)
}
func (f *fakeDriver) Release() { _ = f.rec("release") }
func (f *fakeDriver) Drag(x, y int, d time.Duration, b schemas.MouseButtons) error {
	return f.rec("drag %d,%d %s %s", x, y, d, b)
}
func (f *fakeDriver) Type(text string, wpm float64) error {
	return f.rec("type %q %g", text, wpm)
}
func (f *fakeDriver) PressKey(code schemas.KeyCode, mod schemas.KeyModifier) {
	_ = f.rec("key 0x%02x 0x%02x", uint8(code), uint8(mod))
}
func (f *fakeDriver) Sleep(d time.Duration) {
	f.slept += d
	_ = f.rec("pause %s", d)
}

const samplePlan = `
name: login
steps:
  - op: click_at
    x: 640
    y: 360
    duration: 400ms
  - op: type
    text: hello
    wpm: 80
  - op: key
    key: enter
    mods: [ctrl]
  - op: pause
    duration: 1s
  - op: repeat
    count: 2
    steps:
      - op: drag
        x: 10
        y: 20
        duration: 250ms
        button: right
      - op: click
`

func TestLoad(t *testing.T) {
	p, err := Load(strings.NewReader(samplePlan))
	require.NoError(t, err)
	assert.Equal(t, "login", p.Name)
	require.Len(t, p.Steps, 5)
	assert.Equal(t, 400*time.Millisecond, p.Steps[0].Duration)
	assert.Equal(t, []string{"ctrl"}, p.Steps[2].Mods)
	assert.Equal(t, 8, p.Count())

	t.Run("UnknownField", func(t *testing.T) {
		_, err := Load(strings.NewReader("name: x\nsteps:\n  - op: move\n    speed: 3\n"))
		assert.Error(t, err)
	})

	t.Run("InvalidStep", func(t *testing.T) {
		_, err := Load(strings.NewReader("name: x\nsteps:\n  - op: move\n    x: 1\n"))
		assert.ErrorIs(t, err, ErrInvalidPlan)
		assert.ErrorContains(t, err, "steps[0] (move): duration must be positive")
	})
}

func TestValidate(t *testing.T) {
	ms := time.Millisecond
	testCases := []struct {
		name string
		step Step
		msg  string
	}{
		{"MissingOp", Step{}, "op is required"},
		{"UnknownOp", Step{Op: "scroll"}, "unknown op"},
		{"MoveNoDuration", Step{Op: OpMove, X: 1}, "duration must be positive"},
		{"ClickAtNegative", Step{Op: OpClickAt, Duration: -ms}, "duration must be positive"},
		{"ClickBadButton", Step{Op: OpClick, Button: "thumb"}, "unknown mouse button"},
		{"DragNoDuration", Step{Op: OpDrag}, "duration must be positive"},
		{"PressNoButton", Step{Op: OpPress}, "button is required"},
		{"TypeNoWPM", Step{Op: OpType, Text: "x"}, "wpm must be positive"},
		{"KeyUnknown", Step{Op: OpKey, Key: "hyper"}, "unknown key"},
		{"KeyBadMod", Step{Op: OpKey, Key: "a", Mods: []string{"fn"}}, "unknown modifier"},
		{"PauseZero", Step{Op: OpPause}, "duration must be positive"},
		{"RepeatZero", Step{Op: OpRepeat, Steps: []Step{{Op: OpRelease}}}, "count must be positive"},
		{"RepeatEmpty", Step{Op: OpRepeat, Count: 2}, "no steps to repeat"},
		{"RepeatNested", Step{Op: OpRepeat, Count: 2, Steps: []Step{{Op: OpMove}}}, "steps[0] (repeat).steps[0] (move)"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Plan{Steps: []Step{tc.step}}.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPlan)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}

	assert.ErrorIs(t, Plan{Name: "empty"}.Validate(), ErrInvalidPlan)
	assert.NoError(t, Demo().Validate())
}

func TestRunner_Run(t *testing.T) {
	p, err := Load(strings.NewReader(samplePlan))
	require.NoError(t, err)

	drv := &fakeDriver{}
	require.NoError(t, NewRunner(drv, drv, zaptest.NewLogger(t)).Run(context.Background(), p))

	want := []string{
		"click_at 640,360 400ms left",
		`type "hello" 80`,
		"key 0x28 0x01",
		"pause 1s",
		"drag 10,20 250ms right",
		"click left",
		"drag 10,20 250ms right",
		"click left",
	}
	if diff := cmp.Diff(want, drv.calls); diff != "" {
		t.Fatalf("unexpected calls (-want +got):\n%s", diff)
	}
	assert.Equal(t, time.Second, drv.slept)
}

func TestRunner_Demo(t *testing.T) {
	drv := &fakeDriver{}
	require.NoError(t, NewRunner(drv, drv, nil).Run(context.Background(), Demo()))

	assert.Equal(t, 30, Demo().Count())
	require.Len(t, drv.calls, 30)
	assert.Equal(t, "move 500,500 500ms", drv.calls[0])
	assert.Equal(t, []string{"press left", "move 1200,500 1.5s", "release"}, drv.calls[1:4])
	assert.Equal(t, "click_at 1000,300 400ms left", drv.calls[10])
	assert.Equal(t, "move 1050,350 200ms", drv.calls[29])
}

func TestRunner_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	drv := &fakeDriver{failOn: "type", failErr: boom}
	p := Plan{Steps: []Step{
		{Op: OpRelease},
		{Op: OpType, Text: "x", WPM: 60},
		{Op: OpRelease},
	}}

	err := NewRunner(drv, drv, nil).Run(context.Background(), p)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "step 2 (type)")
	assert.Len(t, drv.calls, 2)
}

func TestRunner_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	drv := &fakeDriver{}
	drv.onCall = func(call string) {
		if strings.HasPrefix(call, "click_at") {
			cancel()
		}
	}

	err := NewRunner(drv, drv, nil).Run(ctx, Demo())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, drv.calls, 11, "the step in progress completes, nothing after it starts")
}

func TestRunner_InvalidPlanRunsNothing(t *testing.T) {
	drv := &fakeDriver{}
	p := Plan{Steps: []Step{{Op: OpRelease}, {Op: OpMove}}}
	err := NewRunner(drv, drv, nil).Run(context.Background(), p)
	assert.ErrorIs(t, err, ErrInvalidPlan)
	assert.Empty(t, drv.calls)
}
