package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/jlrickert/indihash/pkg/indihash"
	"github.com/spf13/cobra"
)

// NewWatchCmd returns the `watch` cobra command.
//
// Usage examples:
//
//	indihash watch notes.txt -a sha1
//	indihash watch build/app.bin --debounce 500ms
func NewWatchCmd(deps *Deps) *cobra.Command {
	var (
		flags    digestFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "print the digest of a file every time it changes",
		Long: strings.TrimSpace(`
Print the digest of FILE, then print it again whenever the file is written,
replaced or removed, until interrupted. A change that arrives while a digest
is still being computed cancels that computation; only the newest result is
printed.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			alg, opts, err := flags.resolve(cmd, deps.Config)
			if err != nil {
				return err
			}
			if !alg.Valid() {
				return indihash.ErrNoAlgorithmSelected
			}
			if !cmd.Flags().Changed("debounce") {
				debounce = deps.Config.Debounce
			}

			path, err := hostPath(deps.Runtime, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := errorStyle(out, deps.Runtime)
			session := indihash.NewSession(indihash.SessionOptions{
				Digest:   opts,
				Request:  indihash.NewRequest(path, alg),
				OnResult: func(res indihash.Result) {
					line := res.Message()
					if !res.OK() {
						line = failed.Render(line)
					}
					_, _ = fmt.Fprintln(out, line)
				},
			})
			defer session.Close()

			return indihash.Watch(ctx, indihash.WatchOptions{
				Path:     path,
				Debounce: debounce,
				Session:  session,
			})
		},
	}

	bindDigestFlags(cmd, &flags)
	cmd.Flags().DurationVar(&debounce, "debounce", indihash.DefaultDebounce, "quiet period before re-hashing a changed file")

	return cmd
}
