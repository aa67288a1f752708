package main

import (
	"os"

	"github.com/spf13/cobra"
)

var spikesCmd = &cobra.Command{
	Use:   "spikes",
	Short: "Lists upcoming dates where vacancy fell and prices rose since the previous crawl.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		report, err := a.Dashboard.Spikes(cmd.Context(), mode)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(os.Stdout, report)
		}
		renderSpikes(os.Stdout, report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(spikesCmd)
}
