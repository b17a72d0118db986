// cmd/replay.go
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/minke/internal/device"
)

func newReplayCmd() *cobra.Command {
	var speed float64
	cmd := &cobra.Command{
		Use:   "replay TRACE.jsonl",
		Short: "Play back a recorded command trace on the device.",
		Long: `Play back a recorded command trace on the device.

Traces come from --record on any live command or from simulate --trace.
The recorded spacing between commands is kept, divided by --speed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(speed > 0) {
				return device.ErrInvalidSpeed
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening trace: %w", err)
			}
			defer f.Close()

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return s.run(cmd.Context(), func(ctx context.Context) error {
				stats, err := device.Replay(ctx, f, s.handle, s.clock, speed, s.logger)
				s.logger.Info("Replay finished.",
					zap.Int("events", stats.Events),
					zap.Int("skipped", stats.Skipped),
					zap.Int("failed", stats.Failed),
					zap.Int("ignored", stats.Ignored),
				)
				fmt.Fprintf(cmd.OutOrStdout(), "replayed %d events (%d skipped, %d failed, %d ignored)\n",
					stats.Events, stats.Skipped, stats.Failed, stats.Ignored)
				return err
			})
		},
	}
	cmd.Flags().Float64VarP(&speed, "speed", "s", 1, "playback speed factor")
	return cmd
}
