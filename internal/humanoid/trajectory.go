package humanoid

import (
	"fmt"
	"math"
	"time"

	"github.com/xkilldash9x/minke/api/schemas"
	"go.uber.org/zap"
)

// EaseInOutCubic maps linear progress to a slow-fast-slow profile.
// Inputs outside [0, 1] are clamped.
func EaseInOutCubic(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 4 * t * t * t
	default:
		return 1 - math.Pow(-2*t+2, 3)/2
	}
}

// Trajectory is a cubic Bezier curve from Start to End shaped by two
// interior control points.
type Trajectory struct {
	Start Point
	Ctrl1 Point
	Ctrl2 Point
	End   Point
}

// At evaluates the curve at parameter t.
func (tr Trajectory) At(t float64) Point {
	omt := 1.0 - t
	omt2 := omt * omt
	omt3 := omt2 * omt
	t2 := t * t
	t3 := t2 * t

	return tr.Start.Mul(omt3).
		Add(tr.Ctrl1.Mul(3 * omt2 * t)).
		Add(tr.Ctrl2.Mul(3 * omt * t2)).
		Add(tr.End.Mul(t3))
}

// Samples returns the steps+1 eased positions along the curve, endpoints included.
func (tr Trajectory) Samples(steps int) []Point {
	if steps < 1 {
		steps = 1
	}
	path := make([]Point, steps+1)
	for i := 0; i <= steps; i++ {
		path[i] = tr.At(EaseInOutCubic(float64(i) / float64(steps)))
	}
	return path
}

// SampleCount is the number of intervals in a move lasting d at rateHz.
// It is never less than one.
func SampleCount(d time.Duration, rateHz float64) int {
	steps := int(math.Round(d.Seconds() * rateHz))
	if steps < 1 {
		return 1
	}
	return steps
}

// planTrajectory builds a fresh curve from the current position toward target.
// The end point is jittered; Ctrl2 is biased positive for overshoot.
func (h *Humanoid) planTrajectory(target Point) Trajectory {
	c := h.cfg
	start := h.cur
	end := target.Add(Point{X: h.rng.spread(c.EndJitter), Y: h.rng.spread(c.EndJitter)})

	ctrl1 := start.Lerp(end, c.Ctrl1Ratio).Add(Point{
		X: h.rng.spread(c.Ctrl1Spread),
		Y: h.rng.spread(c.Ctrl1Spread),
	})
	ctrl2 := start.Lerp(end, c.Ctrl2Ratio).Add(Point{
		X: h.rng.uniform(c.Ctrl2SpreadMin, c.Ctrl2SpreadMax),
		Y: h.rng.uniform(c.Ctrl2SpreadMin, c.Ctrl2SpreadMax),
	})

	return Trajectory{Start: start, Ctrl1: ctrl1, Ctrl2: ctrl2, End: end}
}

// MoveTo glides the pointer to (x, y) over d. The call blocks for the full
// duration and emits SampleCount(d)+1 absolute positions at a fixed cadence.
// Afterwards Position reports the jittered landing point, not (x, y).
func (h *Humanoid) MoveTo(x, y int, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("move to (%d, %d) over %s: %w", x, y, d, ErrInvalidDuration)
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.moveTo(Pt(x, y), d)
	return nil
}

// moveTo runs the sampling loop. The caller holds h.mu and has validated d.
func (h *Humanoid) moveTo(target Point, d time.Duration) {
	tr := h.planTrajectory(target)
	steps := SampleCount(d, h.cfg.SampleRateHz)

	h.logger.Debug("Humanoid: moving",
		zap.Float64("from_x", tr.Start.X), zap.Float64("from_y", tr.Start.Y),
		zap.Float64("to_x", tr.End.X), zap.Float64("to_y", tr.End.Y),
		zap.Int("steps", steps), zap.Duration("duration", d))

	// Deadlines are measured from the start so per-sample overhead does not
	// accumulate; the last sample lands at start+d with no trailing sleep.
	begin := h.clock.Now()
	for i := 0; i <= steps; i++ {
		px, py := tr.At(EaseInOutCubic(float64(i) / float64(steps))).Round()
		h.emit("mouse_abs", func(dev schemas.Device) error {
			return dev.MouseAbs(px, py)
		}, zap.Int("x", px), zap.Int("y", py))

		if i < steps {
			h.sleepUntil(begin.Add(d * time.Duration(i+1) / time.Duration(steps)))
		}
	}

	h.cur = tr.End
}
