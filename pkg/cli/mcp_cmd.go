package cli

import (
	"github.com/jlrickert/indihash/pkg/indihash"
	"github.com/spf13/cobra"
)

// NewMCPCmd returns the `mcp` cobra command, which serves the digest engine
// as Model Context Protocol tools over stdio.
func NewMCPCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "serve list_algorithms and compute_digest as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return indihash.ServeMCP(cmd.Context(), indihash.MCPServerOptions{
				Version: Version,
				Config:  deps.Config,
			})
		},
	}
}
