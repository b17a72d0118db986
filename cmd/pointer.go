// cmd/pointer.go
package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/minke/internal/scenario"
)

func parseXY(args []string) (int, int, error) {
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x coordinate %q", args[0])
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y coordinate %q", args[1])
	}
	return x, y, nil
}

func newMoveCmd() *cobra.Command {
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "move X Y",
		Short: "Glide the pointer to screen pixel (X, Y).",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parseXY(args)
			if err != nil {
				return err
			}
			return runPlan(cmd, scenario.Plan{Name: "move", Steps: []scenario.Step{
				{Op: scenario.OpMove, X: x, Y: y, Duration: duration},
			}})
		},
	}
	cmd.Flags().DurationVarP(&duration, "duration", "d", 500*time.Millisecond, "how long the movement takes")
	return cmd
}

func newClickCmd() *cobra.Command {
	var (
		duration time.Duration
		button   string
	)
	cmd := &cobra.Command{
		Use:   "click [X Y]",
		Short: "Click in place, or move to (X, Y) first.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts 0 or 2 arg(s), received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			step := scenario.Step{Op: scenario.OpClick, Button: button}
			if len(args) == 2 {
				x, y, err := parseXY(args)
				if err != nil {
					return err
				}
				step = scenario.Step{Op: scenario.OpClickAt, X: x, Y: y, Duration: duration, Button: button}
			}
			return runPlan(cmd, scenario.Plan{Name: "click", Steps: []scenario.Step{step}})
		},
	}
	cmd.Flags().DurationVarP(&duration, "duration", "d", 400*time.Millisecond, "approach time when coordinates are given")
	cmd.Flags().StringVarP(&button, "button", "b", "left", "button to click: left, right or left+right")
	return cmd
}

func newDragCmd() *cobra.Command {
	var (
		duration time.Duration
		button   string
	)
	cmd := &cobra.Command{
		Use:   "drag X Y",
		Short: "Press, drag to (X, Y) and release.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parseXY(args)
			if err != nil {
				return err
			}
			return runPlan(cmd, scenario.Plan{Name: "drag", Steps: []scenario.Step{
				{Op: scenario.OpDrag, X: x, Y: y, Duration: duration, Button: button},
			}})
		},
	}
	cmd.Flags().DurationVarP(&duration, "duration", "d", time.Second, "how long the stroke takes")
	cmd.Flags().StringVarP(&button, "button", "b", "left", "buttons held during the stroke")
	return cmd
}
