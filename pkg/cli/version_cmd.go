package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version may be overridden at build-time with
// -ldflags "-X github.com/jlrickert/indihash/pkg/cli.Version=v1.2.3"
var Version = "dev"

// NewVersionCmd returns the `version` cobra command.
func NewVersionCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the indihash version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "indihash %s\n", Version)
			return err
		},
	}
}
