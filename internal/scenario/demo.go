package scenario

import "time"

// Demo is the drawing exercise used to eyeball motion quality in a paint
// program with the pencil tool selected: a straight stroke to show the
// ease-in/ease-out, a V stroke without lifting, and ten clicks on the same
// target to show landing scatter.
func Demo() Plan {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return Plan{
		Name: "demo",
		Steps: []Step{
			{Op: OpMove, X: 500, Y: 500, Duration: ms(500)},

			{Op: OpPress, Button: "left", Note: "Stroke 1: variable-speed line."},
			{Op: OpMove, X: 1200, Y: 500, Duration: ms(1500)},
			{Op: OpRelease},
			{Op: OpPause, Duration: ms(500)},

			{Op: OpMove, X: 500, Y: 700, Duration: ms(500), Note: "Stroke 2: V without lifting."},
			{Op: OpPress, Button: "left"},
			{Op: OpMove, X: 850, Y: 900, Duration: ms(1200)},
			{Op: OpMove, X: 1200, Y: 700, Duration: ms(1200)},
			{Op: OpRelease},

			{Op: OpRepeat, Count: 10, Note: "Stroke 3: landing scatter.", Steps: []Step{
				{Op: OpClickAt, X: 1000, Y: 300, Duration: ms(400), Button: "left"},
				{Op: OpMove, X: 1050, Y: 350, Duration: ms(200)},
			}},
		},
	}
}
