package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pytutor/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pytutor configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure pytutor and writes the config file (.pytutor.yml unless --config is given).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
