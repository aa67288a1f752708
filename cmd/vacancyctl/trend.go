package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/calendar"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Prints the recorded stock and price history of one stay date.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dateFlag, _ := cmd.Flags().GetString("date")
		step, _ := cmd.Flags().GetInt("step")
		if dateFlag == "" {
			return errors.New("--date is required")
		}
		date, err := calendar.ParseDate(dateFlag)
		if err != nil {
			return err
		}

		a, err := loadApp()
		if err != nil {
			return err
		}
		tv, err := a.History.Step(cmd.Context(), mode, date, step)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(os.Stdout, tv)
		}
		renderTrend(os.Stdout, tv)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trendCmd)
	trendCmd.Flags().StringP("date", "d", "", "stay date (YYYY-MM-DD)")
	trendCmd.Flags().Int("step", 0, "move this many days from --date before printing")
}
