package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jlrickert/indihash/pkg/digest"
	"github.com/jlrickert/indihash/pkg/indihash"
	"github.com/spf13/cobra"
)

// NewHashCmd returns the `hash` cobra command.
//
// Usage examples:
//
//	indihash hash ./image.iso -a sha256
//	indihash hash ~/big.tar --algorithm SHA512/256 --pipelined
//	cat file | indihash hash - -a md5
func NewHashCmd(deps *Deps) *cobra.Command {
	var (
		flags digestFlags
		stat  bool
	)

	cmd := &cobra.Command{
		Use:   "hash FILE",
		Short: "print the digest of a file",
		Long: strings.TrimSpace(`
Print "<ALGORITHM>: <hex digest>" for FILE. Use "-" to read standard input.

When --algorithm is omitted the algorithm from the config file is used. If
neither is set the command fails with "No hashing algorithm selected".
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			alg, opts, err := flags.resolve(cmd, deps.Config)
			if err != nil {
				return err
			}

			path := args[0]
			req := indihash.NewRequest(path, alg)
			var res indihash.Result
			switch {
			case !alg.Valid():
				res = indihash.Result{Request: req, Err: indihash.ErrNoAlgorithmSelected}
			case path == "-":
				d, err := digest.Compute(ctx, cmd.InOrStdin(), alg, opts)
				res = indihash.Result{Request: req, Digest: d, Err: err}
			default:
				resolved, err := hostPath(deps.Runtime, path)
				if err != nil {
					return err
				}
				req.Path = resolved
				res = indihash.Calculate(ctx, req, opts)
			}
			if res.Err != nil {
				return res.Err
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, res.Message()); err != nil {
				return err
			}
			if stat {
				_, err := fmt.Fprintf(out, "size: %s (%d bytes)\n",
					humanize.Bytes(uint64(res.Digest.Bytes)), res.Digest.Bytes)
				return err
			}
			return nil
		},
	}

	bindDigestFlags(cmd, &flags)
	cmd.Flags().BoolVar(&stat, "stat", false, "also print the number of bytes hashed")

	return cmd
}
