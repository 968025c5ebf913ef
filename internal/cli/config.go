package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/holopanel/pkg/config"
)

// configCommand creates the configuration command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the layout configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML.

Without --config this prints the defaults, which makes a good starting point
for a configuration file:

  holopanel config print > holopanel.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			return cfg.Write(c.out)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check [file]",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(args[0]); err != nil {
				return err
			}
			printSuccess(c.out, "Configuration is valid")
			printDetail(c.out, "File: %s", args[0])
			return nil
		},
	})

	return cmd
}
