// internal/simulate/report.go
package simulate

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/montanaflynn/stats"
)

// Summary describes one timing distribution in milliseconds.
type Summary struct {
	N      int     `json:"n" yaml:"n"`
	Mean   float64 `json:"mean_ms" yaml:"mean_ms"`
	StdDev float64 `json:"stddev_ms" yaml:"stddev_ms"`
	Min    float64 `json:"min_ms" yaml:"min_ms"`
	Median float64 `json:"median_ms" yaml:"median_ms"`
	P95    float64 `json:"p95_ms" yaml:"p95_ms"`
	Max    float64 `json:"max_ms" yaml:"max_ms"`
}

// Report is the statistical picture of a dry run.
type Report struct {
	Duration     time.Duration `json:"duration" yaml:"duration"`
	Events       int           `json:"events" yaml:"events"`
	Moves        int           `json:"moves" yaml:"moves"`
	PathLength   float64       `json:"path_px" yaml:"path_px"`
	MoveSpacing  Summary       `json:"move_spacing" yaml:"move_spacing"`
	ButtonHolds  Summary       `json:"button_holds" yaml:"button_holds"`
	KeyHolds     Summary       `json:"key_holds" yaml:"key_holds"`
	KeyIntervals Summary       `json:"key_intervals" yaml:"key_intervals"`
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// summarize ignores the errors montanaflynn/stats returns for empty input;
// an empty distribution reports N=0 and zero values.
func summarize(ms stats.Float64Data) Summary {
	if len(ms) == 0 {
		return Summary{}
	}
	s := Summary{N: len(ms)}
	s.Mean, _ = ms.Mean()
	s.StdDev, _ = ms.StandardDeviation()
	s.Min, _ = ms.Min()
	s.Median, _ = ms.Median()
	s.P95, _ = ms.Percentile(95)
	s.Max, _ = ms.Max()
	return s
}

// Analyze derives the report from a recorded event stream. Spacing is
// measured between consecutive samples of the same move; button events and
// gaps longer than maxSpacing separate moves.
func Analyze(events []Event, total time.Duration) Report {
	const maxSpacing = 100 * time.Millisecond

	r := Report{Duration: total, Events: len(events)}
	var spacing, buttonHolds, keyHolds, keyIntervals stats.Float64Data
	var lastMove, buttonDown, keyDown, prevKeyDown *Event
	for i := range events {
		e := &events[i]
		switch e.Kind {
		case KindMove:
			r.Moves++
			if lastMove != nil {
				gap := e.At - lastMove.At
				if gap <= maxSpacing {
					r.PathLength += math.Hypot(float64(e.X-lastMove.X), float64(e.Y-lastMove.Y))
				}
				// A zero gap is the first sample of a new move.
				if gap > 0 && gap <= maxSpacing {
					spacing = append(spacing, toMillis(gap))
				}
			}
			lastMove = e
		case KindMouseDown:
			buttonDown, lastMove = e, nil
		case KindMouseUp:
			lastMove = nil
			if buttonDown != nil {
				buttonHolds = append(buttonHolds, toMillis(e.At-buttonDown.At))
				buttonDown = nil
			}
		case KindKeyDown:
			if prevKeyDown != nil {
				keyIntervals = append(keyIntervals, toMillis(e.At-prevKeyDown.At))
			}
			keyDown, prevKeyDown = e, e
		case KindKeyUp:
			if keyDown != nil {
				keyHolds = append(keyHolds, toMillis(e.At-keyDown.At))
				keyDown = nil
			}
		}
	}

	r.MoveSpacing = summarize(spacing)
	r.ButtonHolds = summarize(buttonHolds)
	r.KeyHolds = summarize(keyHolds)
	r.KeyIntervals = summarize(keyIntervals)
	return r
}

// Write renders the report as an aligned table.
func (r Report) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Virtual duration\t%s\n", r.Duration)
	fmt.Fprintf(tw, "Commands\t%d\n", r.Events)
	fmt.Fprintf(tw, "Pointer samples\t%d\n", r.Moves)
	fmt.Fprintf(tw, "Path length\t%.0f px\n", r.PathLength)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Distribution\tn\tmean\tstddev\tmin\tmedian\tp95\tmax")
	for _, row := range []struct {
		name string
		s    Summary
	}{
		{"sample spacing", r.MoveSpacing},
		{"button hold", r.ButtonHolds},
		{"key hold", r.KeyHolds},
		{"key interval", r.KeyIntervals},
	} {
		s := row.s
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\n",
			row.name, s.N, s.Mean, s.StdDev, s.Min, s.Median, s.P95, s.Max)
	}
	return tw.Flush()
}
