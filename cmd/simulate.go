// cmd/simulate.go
package cmd

import (
	"fmt"
	"io"
	"os"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/minke/internal/humanoid"
	"github.com/xkilldash9x/minke/internal/observability"
	"github.com/xkilldash9x/minke/internal/scenario"
	"github.com/xkilldash9x/minke/internal/simulate"
)

func newSimulateCmd() *cobra.Command {
	var (
		traceFile string
		format    string
	)
	cmd := &cobra.Command{
		Use:   "simulate [PLAN.yaml]",
		Short: "Dry-run a plan on virtual time and report its timing statistics.",
		Long: `Dry-run a plan on virtual time and report its timing statistics.

No device is opened. The demo plan runs when no file is given. --trace
writes every command as a JSON line ("-" for stdout) in the format replay
reads.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			switch format {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
			}

			plan := scenario.Demo()
			if len(args) == 1 {
				if plan, err = loadPlan(args[0]); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			opts := simulate.Options{
				Start:  humanoid.Pt(cfg.Device().ScreenWidth/2, cfg.Device().ScreenHeight/2),
				Logger: observability.GetLogger(),
			}
			switch traceFile {
			case "":
			case "-":
				opts.Trace = out
				out = cmd.ErrOrStderr()
			default:
				f, err := os.Create(traceFile)
				if err != nil {
					return fmt.Errorf("creating trace file: %w", err)
				}
				defer f.Close()
				opts.Trace = f
			}

			res, err := simulate.Run(cmd.Context(), humanoid.FromSettings(cfg.Humanoid()), plan, opts)
			if err != nil {
				return err
			}
			return writeReport(out, res.Report, format)
		},
	}
	cmd.Flags().StringVarP(&traceFile, "trace", "t", "", "write the command trace to this file")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "report format: text, json or yaml")
	return cmd
}

func writeReport(w io.Writer, r simulate.Report, format string) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return enc.Close()
	default:
		return r.Write(w)
	}
}
