package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pytutor/internal/loader"
)

var renderCmd = &cobra.Command{
	Use:   "render <id>",
	Short: "Print the rendered HTML of one chapter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid chapter id %q", args[0])
		}

		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		reg, l, err := newPipeline(cfg, logger, loader.FragmentLinks)
		if err != nil {
			return err
		}

		ch, ok := reg.Get(id)
		if !ok {
			return fmt.Errorf("no chapter with id %d", id)
		}
		page, err := l.Load(cmd.Context(), ch)
		if err != nil {
			return err
		}
		fmt.Println(page.HTML)
		if page.Failed {
			return fmt.Errorf("chapter %d could not be loaded", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
