// internal/device/replay.go
package device

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/minke/api/schemas"
)

// ErrInvalidSpeed is returned by Replay for a non-positive speed factor.
var ErrInvalidSpeed = errors.New("device: replay speed must be positive")

// Sleeper paces a replay.
type Sleeper interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// ReplayStats summarizes a replay.
type ReplayStats struct {
	Events  int
	Skipped int
	Failed  int
	Ignored int
}

// Replay reads trace records from r and issues them through d, keeping the
// recorded spacing divided by speed. Lines are read lazily so a long trace
// starts playing at once. Busy or failed commands are counted and skipped;
// malformed input stops the replay.
func Replay(ctx context.Context, r io.Reader, d Doer, clk Sleeper, speed float64, logger *zap.Logger) (ReplayStats, error) {
	var stats ReplayStats
	if !(speed > 0) {
		return stats, ErrInvalidSpeed
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sc := bufio.NewScanner(r)
	var (
		begin     time.Time
		firstT    float64
		haveFirst bool
		line      int
	)
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		var rec TraceRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return stats, fmt.Errorf("trace line %d: %w", line, err)
		}
		cmd, err := replayCommand(rec)
		if err != nil {
			return stats, fmt.Errorf("trace line %d: %w", line, err)
		}
		if cmd == nil {
			stats.Ignored++
			logger.Debug("Ignoring unknown trace event.", zap.String("event", rec.Event), zap.Int("line", line))
			continue
		}

		if !haveFirst {
			begin, firstT, haveFirst = clk.Now(), rec.T, true
		}
		offset := time.Duration((rec.T - firstT) / speed * float64(time.Millisecond))
		if wait := begin.Add(offset).Sub(clk.Now()); wait > 0 {
			clk.Sleep(wait)
		}

		stats.Events++
		switch err := d.Do(cmd); {
		case err == nil:
		case errors.Is(err, schemas.ErrLockUnavailable):
			stats.Skipped++
		default:
			stats.Failed++
			logger.Warn("Replay command failed.", zap.String("event", rec.Event), zap.Int("line", line), zap.Error(err))
		}
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("reading trace: %w", err)
	}
	return stats, nil
}

// replayCommand turns a record into a device command. Unknown events yield
// nil and no error.
func replayCommand(rec TraceRecord) (func(schemas.Device) error, error) {
	pressed := func() (bool, error) {
		if rec.State == nil {
			return false, fmt.Errorf("%s event without state", rec.Event)
		}
		return *rec.State != 0, nil
	}

	switch rec.Event {
	case "move":
		if rec.X == nil || rec.Y == nil {
			return nil, errors.New("move event without coordinates")
		}
		x, y := *rec.X, *rec.Y
		return func(dev schemas.Device) error { return dev.MouseAbs(x, y) }, nil

	case "button":
		down, err := pressed()
		if err != nil {
			return nil, err
		}
		if !down {
			return func(dev schemas.Device) error { return dev.MouseUp() }, nil
		}
		buttons := schemas.ButtonLeft
		if rec.Btn != nil && *rec.Btn != 0 {
			buttons = schemas.MouseButtons(*rec.Btn)
		}
		return func(dev schemas.Device) error { return dev.MouseDown(buttons) }, nil

	case "key":
		down, err := pressed()
		if err != nil {
			return nil, err
		}
		if !down {
			return func(dev schemas.Device) error { return dev.KeyUp() }, nil
		}
		if rec.Key == nil {
			return nil, errors.New("key press without key code")
		}
		code := schemas.KeyCode(*rec.Key)
		var mod schemas.KeyModifier
		if rec.Mod != nil {
			mod = schemas.KeyModifier(*rec.Mod)
		}
		return func(dev schemas.Device) error { return dev.KeyDown(code, mod) }, nil

	case "heartbeat":
		return func(dev schemas.Device) error { return dev.Heartbeat() }, nil
	}
	return nil, nil
}
