// cmd/keyboard.go
package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/minke/internal/scenario"
)

func newKeyCmd() *cobra.Command {
	var mods []string
	cmd := &cobra.Command{
		Use:   "key NAME",
		Short: "Tap one key, optionally with modifiers held.",
		Long: `Tap one key, optionally with modifiers held.

NAME is a letter, a digit, f1-f12 or one of enter, esc, backspace, tab,
space, delete, left, right, up, down. Modifiers are ctrl, shift, alt, win
and their r_ variants.`,
		Example: "  minke key a --mod ctrl\n  minke key enter",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, scenario.Plan{Name: "key", Steps: []scenario.Step{
				{Op: scenario.OpKey, Key: args[0], Mods: mods},
			}})
		},
	}
	cmd.Flags().StringSliceVarP(&mods, "mod", "m", nil, "modifiers to hold, comma separated")
	return cmd
}

func newTypeCmd() *cobra.Command {
	var wpm float64
	cmd := &cobra.Command{
		Use:   "type TEXT...",
		Short: "Type lowercase letters and spaces at a human cadence.",
		Long: `Type lowercase letters and spaces at a human cadence.

Other characters send no key but still take their share of time. Set
humanoid.fold_case to type A-Z as their lowercase keys.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, scenario.Plan{Name: "type", Steps: []scenario.Step{
				{Op: scenario.OpType, Text: strings.Join(args, " "), WPM: wpm},
			}})
		},
	}
	cmd.Flags().Float64VarP(&wpm, "wpm", "w", 60, "typing speed in words per minute")
	return cmd
}
