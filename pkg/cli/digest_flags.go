package cli

import (
	"fmt"
	"strings"

	"github.com/jlrickert/indihash/pkg/digest"
	"github.com/jlrickert/indihash/pkg/indihash"
	"github.com/spf13/cobra"
)

// digestFlags are the engine flags shared by hash and watch. Unset flags
// fall back to the loaded config.
type digestFlags struct {
	Algorithm  string
	Pipelined  bool
	BufferSize int
	QueueDepth int
}

func bindDigestFlags(cmd *cobra.Command, opts *digestFlags) {
	cmd.Flags().StringVarP(&opts.Algorithm, "algorithm", "a", "",
		"digest algorithm ("+strings.Join(digest.Names(), ", ")+")")
	_ = cmd.RegisterFlagCompletionFunc("algorithm", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return digest.Names(), cobra.ShellCompDirectiveNoFileComp
	})
	cmd.Flags().BoolVar(&opts.Pipelined, "pipelined", false, "read and hash on separate goroutines")
	cmd.Flags().IntVar(&opts.BufferSize, "buffer-size", 0, "read buffer size in bytes (default: memory page size)")
	cmd.Flags().IntVar(&opts.QueueDepth, "queue-depth", 0, "chunks the pipelined reader may run ahead")
}

// resolve merges the flags over cfg. A zero Algorithm means nothing was
// selected by either source.
func (f *digestFlags) resolve(cmd *cobra.Command, cfg *indihash.Config) (digest.Algorithm, digest.Options, error) {
	alg := cfg.DefaultAlgorithm()
	if strings.TrimSpace(f.Algorithm) != "" {
		parsed, err := digest.Parse(f.Algorithm)
		if err != nil {
			return 0, digest.Options{}, err
		}
		alg = parsed
	}

	opts := cfg.DigestOptions()
	flags := cmd.Flags()
	if flags.Changed("pipelined") {
		opts.Mode = digest.Sequential
		if f.Pipelined {
			opts.Mode = digest.Pipelined
		}
	}
	if flags.Changed("buffer-size") {
		if f.BufferSize < 0 {
			return 0, digest.Options{}, fmt.Errorf("--buffer-size must not be negative")
		}
		opts.BufferSize = f.BufferSize
	}
	if flags.Changed("queue-depth") {
		if f.QueueDepth < 0 {
			return 0, digest.Options{}, fmt.Errorf("--queue-depth must not be negative")
		}
		opts.QueueDepth = f.QueueDepth
	}
	return alg, opts, nil
}
