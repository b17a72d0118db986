// cmd/identity.go
package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/xkilldash9x/minke/api/schemas"
)

// identitySetter is a device whose firmware can re-enumerate under another
// USB identity.
type identitySetter interface {
	SetIdentity(id uint8) error
}

func newIdentityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identity ID",
		Short: "Ask the bridge firmware to switch to USB identity ID (0-255).",
		Long: `Ask the bridge firmware to switch to USB identity ID (0-255).

The bridge stores the choice and re-enumerates with the matching vendor and
product IDs. Only the serial device supports this.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 8)
			if err != nil {
				return fmt.Errorf("invalid identity %q: must be 0-255", args[0])
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			setter, ok := s.dev.(identitySetter)
			if !ok {
				return multierr.Append(fmt.Errorf("%s device cannot change identity", s.cfg.Device().Kind), s.close())
			}
			return s.run(cmd.Context(), func(ctx context.Context) error {
				if err := s.handle.Do(func(schemas.Device) error { return setter.SetIdentity(uint8(id)) }); err != nil {
					return fmt.Errorf("setting identity: %w", err)
				}
				s.logger.Info("Identity change sent.", zap.Uint64("id", id))
				return nil
			})
		},
	}
}
