// internal/scenario/scenario.go
package scenario

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/minke/api/schemas"
)

// Op names one kind of step.
type Op string

const (
	OpMove    Op = "move"
	OpClick   Op = "click"
	OpClickAt Op = "click_at"
	OpPress   Op = "press"
	OpRelease Op = "release"
	OpDrag    Op = "drag"
	OpType    Op = "type"
	OpKey     Op = "key"
	OpPause   Op = "pause"
	OpRepeat  Op = "repeat"
)

// ErrInvalidPlan wraps every validation failure.
var ErrInvalidPlan = errors.New("invalid plan")

// Step is one instruction. Which fields matter depends on Op.
type Step struct {
	Op       Op            `yaml:"op"`
	X        int           `yaml:"x,omitempty"`
	Y        int           `yaml:"y,omitempty"`
	Duration time.Duration `yaml:"duration,omitempty"`
	Button   string        `yaml:"button,omitempty"`
	Text     string        `yaml:"text,omitempty"`
	WPM      float64       `yaml:"wpm,omitempty"`
	Key      string        `yaml:"key,omitempty"`
	Mods     []string      `yaml:"mods,omitempty"`
	Count    int           `yaml:"count,omitempty"`
	Steps    []Step        `yaml:"steps,omitempty"`
	Note     string        `yaml:"note,omitempty"`
}

// Plan is a named sequence of steps.
type Plan struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Load decodes a YAML plan and validates it.
func Load(r io.Reader) (Plan, error) {
	var p Plan
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Plan{}, fmt.Errorf("failed to decode plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// Validate checks every step before anything is run.
func (p Plan) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidPlan)
	}
	return validateSteps(p.Steps, "steps")
}

func validateSteps(steps []Step, path string) error {
	for i, s := range steps {
		where := fmt.Sprintf("%s[%d] (%s)", path, i, s.Op)
		if err := s.validate(where); err != nil {
			return err
		}
	}
	return nil
}

func (s Step) validate(where string) error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", ErrInvalidPlan, where, fmt.Sprintf(format, args...))
	}
	needDuration := func() error {
		if s.Duration <= 0 {
			return fail("duration must be positive")
		}
		return nil
	}
	needButton := func(allowNone bool) error {
		b, err := schemas.ParseButtons(s.Button)
		if err != nil {
			return fail("%v", err)
		}
		if b == schemas.ButtonNone && !allowNone {
			return fail("button is required")
		}
		return nil
	}

	switch s.Op {
	case OpMove:
		return needDuration()
	case OpClickAt:
		if err := needDuration(); err != nil {
			return err
		}
		return needButton(true)
	case OpClick, OpDrag:
		if s.Op == OpDrag {
			if err := needDuration(); err != nil {
				return err
			}
		}
		return needButton(true)
	case OpPress:
		return needButton(false)
	case OpRelease:
		return nil
	case OpType:
		if !(s.WPM > 0) {
			return fail("wpm must be positive")
		}
		return nil
	case OpKey:
		if _, err := schemas.ParseKey(s.Key); err != nil {
			return fail("%v", err)
		}
		if _, err := schemas.ParseModifiers(s.Mods); err != nil {
			return fail("%v", err)
		}
		return nil
	case OpPause:
		return needDuration()
	case OpRepeat:
		if s.Count <= 0 {
			return fail("count must be positive")
		}
		if len(s.Steps) == 0 {
			return fail("no steps to repeat")
		}
		return validateSteps(s.Steps, where+".steps")
	case "":
		return fail("op is required")
	default:
		return fail("unknown op")
	}
}

// buttons resolves the step's button, defaulting to left. Only call on a
// validated step.
func (s Step) buttons() schemas.MouseButtons {
	b, _ := schemas.ParseButtons(s.Button)
	if b == schemas.ButtonNone {
		return schemas.ButtonLeft
	}
	return b
}

// Count returns the number of leaf steps the plan will execute.
func (p Plan) Count() int {
	return countSteps(p.Steps)
}

func countSteps(steps []Step) int {
	n := 0
	for _, s := range steps {
		if s.Op == OpRepeat {
			n += s.Count * countSteps(s.Steps)
			continue
		}
		n++
	}
	return n
}
