// cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/minke/internal/config"
	"github.com/xkilldash9x/minke/internal/observability"
)

type contextKey string

const configKey contextKey = "config"

// NewRootCommand builds a fresh command tree. Every call returns an
// independent tree so flags never leak between interactive commands.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "minke",
		Short: "Minke drives a USB HID bridge with human-like pointer and keyboard input.",
		// Version is dynamically set at build time. See cmd/version.go.
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)

			if err := initializeConfig(cmd, v); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Starting minke.",
				zap.String("version", Version),
				zap.String("device", cfg.Device().Kind),
			)

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "", "config file (default is ./config.yaml or ~/.minke/config.yaml)")
	pf.String("device", "", "input sink: serial, browser or null")
	pf.String("port", "", "serial port of the HID bridge")
	pf.Uint64("seed", 0, "random seed for reproducible motion (0 picks one)")
	pf.String("record", "", "append every command sent to the device to this JSONL file")
	cmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	cmd.AddCommand(
		newMoveCmd(),
		newClickCmd(),
		newDragCmd(),
		newKeyCmd(),
		newTypeCmd(),
		newDrawCmd(),
		newRunCmd(),
		newSimulateCmd(),
		newReplayCmd(),
		newIdentityCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the command line in os.Args under ctx.
func Execute(ctx context.Context) error {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		logger := observability.GetLogger()
		if errors.Is(err, context.Canceled) {
			logger.Info("Interrupted.")
		} else {
			logger.Error("Command execution failed", zap.Error(err))
		}
		observability.Sync()
		return err
	}
	observability.Sync()
	return nil
}

// initializeConfig reads the config file and MINKE_* environment variables
// into v and binds the persistent flags over them.
func initializeConfig(cmd *cobra.Command, v *viper.Viper) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return fmt.Errorf("expanding config path %q: %w", cfgFile, err)
		}
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".minke"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("MINKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	for key, flag := range map[string]string{
		"device.kind":   "device",
		"device.port":   "port",
		"humanoid.seed": "seed",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding --%s: %w", flag, err)
			}
		}
	}
	return nil
}

// configFrom returns the configuration stored by the root command.
func configFrom(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}
