package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/jlrickert/indihash/pkg/indihash"
	"github.com/spf13/cobra"
)

// NewAlgorithmsCmd returns the `algorithms` cobra command.
//
// Usage examples:
//
//	indihash algorithms
//	indihash algorithms --index
func NewAlgorithmsCmd(deps *Deps) *cobra.Command {
	var withIndex bool

	cmd := &cobra.Command{
		Use:     "algorithms",
		Short:   "list the supported digest algorithms",
		Aliases: []string{"algos"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !withIndex {
				for _, info := range indihash.Algorithms() {
					if _, err := fmt.Fprintln(out, info.Name); err != nil {
						return err
					}
				}
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintf(tw, "INDEX\tNAME\tBITS\n")
			_, _ = fmt.Fprintf(tw, "0\t%s\t-\n", indihash.NoneLabel)
			for _, info := range indihash.Algorithms() {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\n", info.Index, info.Name, info.Size*8)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&withIndex, "index", false, "show selection indices (0 is None)")

	return cmd
}
