package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/petal-labs/coulomb/cli/config"
)

func (a *App) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write a default configuration file",
		Long: `Write a configuration file with default settings.
Defaults to ~/.coulomb/config.yaml; an existing file is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runConfigInit,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(a.stdout)
			defer enc.Close()
			return enc.Encode(a.cfg)
		},
	})

	return cmd
}

func (a *App) runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultConfigPath()
	if len(args) == 1 {
		path = args[0]
	}

	if err := config.WriteDefault(path); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return exitWithCode(ExitValidation, err)
		}
		return exitWithCode(ExitValidation, fmt.Errorf("failed to write config: %w", err))
	}

	fmt.Fprintf(a.stdout, "Wrote %s\n", path)
	return nil
}
