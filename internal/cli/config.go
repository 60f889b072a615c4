package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcelayout/pkg/config"
)

// configCommand creates the config command printing the effective constants.
func (c *CLI) configCommand() *cobra.Command {
	var (
		format     string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective physics constants",
		Long: `Print the effective physics constants.

Without --config the built-in defaults are printed, which makes a good starting
point for a config file:

  forcelayout config --format toml > layout.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(configPath)
			if err != nil {
				return err
			}
			return cfg.Encode(cmd.OutOrStdout(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", config.FormatTOML, "output format: toml, yaml")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file to validate and print")

	return cmd
}
