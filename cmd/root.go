package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pytutor/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pytutor",
	Short: "Serve a multi-chapter Python tutorial from Markdown files",
	Long: `pytutor turns a directory of tutorial-*.md chapters into a browsable
tutorial: a chapter sidebar, rendered Markdown with highlighted code, and
fragment-addressable navigation (#5 opens chapter 5). It can serve the
tutorial live, export it as a static site, check the chapters for problems
and expose them to AI agents via MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
