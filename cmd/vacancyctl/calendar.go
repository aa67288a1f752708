package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/calendar"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Prints two months of demand levels, stock and prices.",
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, _ := cmd.Flags().GetInt("offset")
		selectedFlag, _ := cmd.Flags().GetString("selected")

		var selected calendar.Date
		if selectedFlag != "" {
			d, err := calendar.ParseDate(selectedFlag)
			if err != nil {
				return err
			}
			selected = d
		}

		a, err := loadApp()
		if err != nil {
			return err
		}
		view, err := a.Dashboard.Calendar(cmd.Context(), mode, offset, selected)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(os.Stdout, view)
		}
		renderCalendar(os.Stdout, view, colorOutput())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.Flags().IntP("offset", "o", 0, "months away from the current month")
	calendarCmd.Flags().StringP("selected", "s", "", "highlight a date (YYYY-MM-DD)")
}
