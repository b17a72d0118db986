// cmd/plan.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/minke/internal/scenario"
)

func loadPlan(path string) (scenario.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return scenario.Plan{}, fmt.Errorf("opening plan: %w", err)
	}
	defer f.Close()
	p, err := scenario.Load(f)
	if err != nil {
		return scenario.Plan{}, fmt.Errorf("loading plan %s: %w", path, err)
	}
	return p, nil
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run PLAN.yaml",
		Short: "Execute a YAML plan on the device.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(args[0])
			if err != nil {
				return err
			}
			return runPlan(cmd, plan)
		},
	}
}

func newDrawCmd() *cobra.Command {
	var (
		countdown time.Duration
		planFile  string
	)
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw the demo strokes after a countdown.",
		Long: `Draw the demo strokes after a countdown.

Open a paint program, select the pencil tool and focus the canvas before
the countdown ends. The demo draws a straight line, a V and ten clicks on
one target so speed profile, curvature and landing scatter can be judged by
eye. --plan draws a different plan with the same countdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := scenario.Demo()
			if planFile != "" {
				var err error
				if plan, err = loadPlan(planFile); err != nil {
					return err
				}
			}
			if err := plan.Validate(); err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return s.run(cmd.Context(), func(ctx context.Context) error {
				for left := countdown; left > 0; left -= time.Second {
					fmt.Fprintf(cmd.ErrOrStderr(), "Starting in %s...\n", left.Round(time.Second))
					select {
					case <-ctx.Done():
						return ctx.Err()
					case <-s.clock.After(min(time.Second, left)):
					}
				}
				s.logger.Info("Drawing.", zap.String("plan", plan.Name))
				return scenario.NewRunner(s.human, s.clock, s.logger).Run(ctx, plan)
			})
		},
	}
	cmd.Flags().DurationVar(&countdown, "countdown", 5*time.Second, "time to focus the target window")
	cmd.Flags().StringVarP(&planFile, "plan", "p", "", "draw this YAML plan instead of the demo")
	return cmd
}
