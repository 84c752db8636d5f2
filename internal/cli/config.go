package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/dategif/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration the slideshow would run with, after applying
the config file and flags. Redirect it to a file to start a config:

  dategif config > dategif.yaml
  dategif config --write dategif.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if writePath != "" {
			if err := config.Save(cfg, writePath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+++] config written: %s\n", writePath)
			return nil
		}
		return config.Write(cmd.OutOrStdout(), cfg)
	},
}

var writePath string

func init() {
	configCmd.Flags().StringVarP(&writePath, "write", "w", "", "Write the configuration to this file instead of stdout")
	rootCmd.AddCommand(configCmd)
}
