// cmd/session.go
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/minke/api/schemas"
	"github.com/xkilldash9x/minke/internal/config"
	"github.com/xkilldash9x/minke/internal/device"
	"github.com/xkilldash9x/minke/internal/humanoid"
	"github.com/xkilldash9x/minke/internal/observability"
	"github.com/xkilldash9x/minke/internal/scenario"
)

// openDevice builds the sink named by device.kind. Tests replace it.
var openDevice = defaultOpenDevice

func defaultOpenDevice(ctx context.Context, cfg config.DeviceConfig, logger *zap.Logger) (schemas.Device, error) {
	switch cfg.Kind {
	case config.DeviceSerial:
		s, err := device.OpenSerial(device.SerialConfigFrom(cfg), logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DeviceBrowser:
		b, err := device.NewBrowser(ctx, device.BrowserConfig{URL: cfg.BrowserURL, Headless: cfg.Headless}, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.DeviceNull:
		return device.NewNull(logger), nil
	default:
		return nil, fmt.Errorf("unknown device kind %q", cfg.Kind)
	}
}

// session is one opened device with the engine bound to it. The pointer
// starts at the centre of the configured screen.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	clock  clock.Clock
	dev    schemas.Device
	handle *device.Handle
	human  *humanoid.Humanoid
	record *os.File
}

func newSession(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()
	cfg, err := configFrom(ctx)
	if err != nil {
		return nil, err
	}
	logger := observability.GetLogger()

	dev, err := openDevice(ctx, cfg.Device(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s device: %w", cfg.Device().Kind, err)
	}

	s := &session{cfg: cfg, logger: logger, clock: clock.New(), dev: dev}
	sink := dev
	if path, _ := cmd.Flags().GetString("record"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("opening record file: %w", err), closeDevice(dev))
		}
		s.record = f
		sink = device.NewTrace(dev, f, s.clock)
		logger.Info("Recording commands.", zap.String("file", path))
	}

	d := cfg.Device()
	s.handle = device.NewHandle(sink, s.clock, d.AcquireTimeout, logger)
	s.human = humanoid.New(humanoid.FromSettings(cfg.Humanoid()), logger, s.handle, s.clock,
		humanoid.Pt(d.ScreenWidth/2, d.ScreenHeight/2))
	return s, nil
}

func closeDevice(dev schemas.Device) error {
	if c, ok := dev.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// run executes action while the keep-alive beats in the background, then
// closes the device. The keep-alive stops as soon as action returns.
func (s *session) run(ctx context.Context, action func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	var keep *device.KeepAlive
	if ka := s.cfg.KeepAlive(); ka.Enabled {
		keep = device.NewKeepAlive(s.handle, s.clock, ka.Interval, s.logger)
		g.Go(func() error { return keep.Run(gctx) })
	}
	g.Go(func() error {
		defer cancel()
		return action(gctx)
	})

	err := g.Wait()
	err = multierr.Append(err, s.close())

	st := s.human.Stats()
	fields := []zap.Field{
		zap.String("session_id", s.human.Session()),
		zap.Uint64("emitted", st.Emitted),
		zap.Uint64("skipped", st.Skipped),
		zap.Uint64("failed", st.Failed),
	}
	if keep != nil {
		fields = append(fields, zap.Uint64("heartbeats", keep.Beats()), zap.Uint64("missed", keep.Missed()))
	}
	s.logger.Info("Session finished.", fields...)
	return err
}

func (s *session) close() error {
	err := s.handle.Close()
	if s.record != nil {
		err = multierr.Append(err, s.record.Close())
	}
	return err
}

// runPlan opens a session and executes plan on it.
func runPlan(cmd *cobra.Command, plan scenario.Plan) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	return s.run(cmd.Context(), func(ctx context.Context) error {
		return scenario.NewRunner(s.human, s.clock, s.logger).Run(ctx, plan)
	})
}
