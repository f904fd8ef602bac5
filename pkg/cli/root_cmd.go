package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/jlrickert/cli-toolkit/mylog"
	"github.com/jlrickert/cli-toolkit/toolkit"
	"github.com/jlrickert/indihash/pkg/indihash"
	"github.com/spf13/cobra"
)

// annotationIgnoreConfigErr marks commands that must run even when the
// config file is missing or broken.
const annotationIgnoreConfigErr = "indihash/ignore-config-error"

type Deps struct {
	// Shutdown releases resources opened while preparing a command. The
	// caller runs it after Execute, whether or not the command failed.
	Shutdown func()
	Runtime  *toolkit.Runtime

	ConfigPath string
	LogFile    string
	LogLevel   string
	LogJSON    bool

	Config *indihash.Config
}

// NewRootCmd builds the root cobra command and wires persistent flags. The
// PersistentPreRunE resolves the runtime, the logger and the effective config
// into Deps before any subcommand runs.
func NewRootCmd(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = &Deps{}
	}
	if deps.Shutdown == nil {
		deps.Shutdown = func() {}
	}

	cmd := &cobra.Command{
		Use:   "indihash",
		Short: "show the digest of a file",
		Long: `indihash computes the hex digest of a file with one of a fixed set of
algorithms (SHA512/256, SHA512, SHA384, SHA256, SHA1, MD5). Files of any
size are streamed through a page-sized buffer.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if deps.Runtime == nil {
				rt, err := toolkit.NewRuntime()
				if err != nil {
					return fmt.Errorf("unable to create runtime: %w", err)
				}
				deps.Runtime = rt
			}

			var out io.Writer = cmd.ErrOrStderr()
			if deps.LogFile != "" {
				f, err := os.OpenFile(deps.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return err
				}
				out = f
				deps.Shutdown = func() { _ = f.Close() }
			}
			lg := mylog.NewLogger(mylog.LoggerConfig{
				Out:     out,
				Level:   mylog.ParseLevel(deps.LogLevel),
				JSON:    deps.LogJSON,
				Version: Version,
			})
			deps.Runtime.Logger = lg
			ctx = mylog.WithLogger(ctx, lg)

			cfg, err := indihash.LoadConfig(ctx, deps.ConfigPath)
			if err != nil {
				if cmd.Annotations[annotationIgnoreConfigErr] != "true" {
					return err
				}
				lg.Debug("ignoring config error", "err", err)
				cfg = indihash.DefaultConfig()
			}
			deps.Config = cfg

			cmd.SetContext(ctx)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&deps.LogFile, "log-file", "", "write logs to file (default stderr)")
	cmd.PersistentFlags().StringVar(&deps.LogLevel, "log-level", "warn", "minimum log level")
	cmd.PersistentFlags().BoolVar(&deps.LogJSON, "log-json", false, "output logs as JSON")
	cmd.PersistentFlags().StringVarP(&deps.ConfigPath, "config", "c", "", "path to config file")

	cmd.AddCommand(
		NewHashCmd(deps),
		NewAlgorithmsCmd(deps),
		NewWatchCmd(deps),
		NewMCPCmd(deps),
		NewConfigCmd(deps),
		NewVersionCmd(deps),
	)

	return cmd
}
