package cli

import (
	"fmt"
	"os"

	"github.com/jlrickert/indihash/pkg/indihash"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd returns the `config` cobra command tree.
//
// Usage examples:
//
//	indihash config show
//	indihash config path
//	indihash config init --force
func NewConfigCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "inspect or create the indihash config file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "print the effective configuration as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				b, err := yaml.Marshal(deps.Config)
				if err != nil {
					return fmt.Errorf("marshal config: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := configPath(deps)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
				return err
			},
		},
		newConfigInitCmd(deps),
	)

	return cmd
}

func newConfigInitCmd(deps *Deps) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "write a config file with the default settings",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationIgnoreConfigErr: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(deps)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}
			if err := indihash.DefaultConfig().WriteConfig(path); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

func configPath(deps *Deps) (string, error) {
	if deps.ConfigPath != "" {
		return deps.ConfigPath, nil
	}
	return indihash.DefaultConfigPath()
}
