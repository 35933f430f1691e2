package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ByLCY/pnpstitch/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after applying defaults, the --config file and
PNPSTITCH_* environment variables. The output is a valid config file:

  pnpstitch config > sheet.ini`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return cfg.Write(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
