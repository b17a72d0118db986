// internal/simulate/simulate.go
package simulate

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/minke/api/schemas"
	"github.com/xkilldash9x/minke/internal/device"
	"github.com/xkilldash9x/minke/internal/humanoid"
	"github.com/xkilldash9x/minke/internal/scenario"
)

// Options tune a dry run.
type Options struct {
	Start humanoid.Point
	// Trace, when set, receives one JSON line per command.
	Trace io.Writer
	Logger *zap.Logger
}

// Result is what a dry run produced.
type Result struct {
	Report Report
	Events []Event
	Stats  humanoid.Stats
}

// Run executes a plan against an in-memory device on virtual time. Nothing
// touches hardware and the run takes no wall time beyond computation.
func Run(ctx context.Context, cfg humanoid.Config, plan scenario.Plan, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	clk := NewVirtualClock()
	rec := NewRecorder(clk)
	var dev schemas.Device = rec
	var trace *device.Trace
	if opts.Trace != nil {
		trace = device.NewTrace(rec, opts.Trace, clk)
		dev = trace
	}

	// The virtual run is single threaded; the handle never waits.
	handle := device.NewHandle(dev, nil, time.Second, logger)
	defer handle.Close()

	h := humanoid.New(cfg, logger, handle, clk, opts.Start)
	if err := scenario.NewRunner(h, clk, logger).Run(ctx, plan); err != nil {
		return nil, fmt.Errorf("simulating plan %q: %w", plan.Name, err)
	}
	if trace != nil {
		if err := trace.Err(); err != nil {
			return nil, fmt.Errorf("writing trace: %w", err)
		}
	}

	events := rec.Events()
	return &Result{
		Report: Analyze(events, clk.Elapsed()),
		Events: events,
		Stats:  h.Stats(),
	}, nil
}
