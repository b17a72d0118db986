// internal/scenario/runner.go
package scenario

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/minke/api/schemas"
)

// Driver is the motion engine a plan runs against. *humanoid.Humanoid
// satisfies it.
type Driver interface {
	MoveTo(x, y int, d time.Duration) error
	ClickAt(x, y int, d time.Duration, left, right bool) error
	Click(left, right bool)
	Press(buttons schemas.MouseButtons)
	Release()
	Drag(x, y int, d time.Duration, buttons schemas.MouseButtons) error
	Type(text string, wpm float64) error
	PressKey(code schemas.KeyCode, mod schemas.KeyModifier)
}

// Sleeper serves pause steps.
type Sleeper interface {
	Sleep(d time.Duration)
}

// Runner executes plans step by step. Cancellation is honoured between
// steps; a step in progress always completes.
type Runner struct {
	driver Driver
	clock  Sleeper
	logger *zap.Logger
	done   int
	total  int
}

func NewRunner(driver Driver, clk Sleeper, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{driver: driver, clock: clk, logger: logger.Named("scenario")}
}

// Run validates the plan and executes it.
func (r *Runner) Run(ctx context.Context, p Plan) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.done, r.total = 0, p.Count()
	r.logger.Info("Running plan.", zap.String("plan", p.Name), zap.Int("steps", r.total))
	if err := r.runSteps(ctx, p.Steps); err != nil {
		return err
	}
	r.logger.Info("Plan finished.", zap.String("plan", p.Name))
	return nil
}

func (r *Runner) runSteps(ctx context.Context, steps []Step) error {
	for _, s := range steps {
		if s.Note != "" {
			r.logger.Info(s.Note)
		}
		if s.Op == OpRepeat {
			for i := 0; i < s.Count; i++ {
				if err := r.runSteps(ctx, s.Steps); err != nil {
					return err
				}
			}
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		r.done++
		r.logger.Debug("Step.", zap.Int("n", r.done), zap.Int("of", r.total), zap.String("op", string(s.Op)))
		if err := r.step(s); err != nil {
			return fmt.Errorf("step %d (%s): %w", r.done, s.Op, err)
		}
	}
	return nil
}

func (r *Runner) step(s Step) error {
	d := r.driver
	switch s.Op {
	case OpMove:
		return d.MoveTo(s.X, s.Y, s.Duration)
	case OpClick:
		b := s.buttons()
		d.Click(b&schemas.ButtonLeft != 0, b&schemas.ButtonRight != 0)
	case OpClickAt:
		b := s.buttons()
		return d.ClickAt(s.X, s.Y, s.Duration, b&schemas.ButtonLeft != 0, b&schemas.ButtonRight != 0)
	case OpPress:
		d.Press(s.buttons())
	case OpRelease:
		d.Release()
	case OpDrag:
		return d.Drag(s.X, s.Y, s.Duration, s.buttons())
	case OpType:
		return d.Type(s.Text, s.WPM)
	case OpKey:
		code, _ := schemas.ParseKey(s.Key)
		mod, _ := schemas.ParseModifiers(s.Mods)
		d.PressKey(code, mod)
	case OpPause:
		r.clock.Sleep(s.Duration)
	}
	return nil
}
