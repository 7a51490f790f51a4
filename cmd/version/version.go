package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hsrdle/datagen/internal/buildinfo"
)

// Command creates a command printing build information.
func Command(info *buildinfo.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print datagen build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return err
		},
	}
}
