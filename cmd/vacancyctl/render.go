package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/calendar"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/service"
)

var weekdayHeader = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// ANSI background per demand level, 1..5.
var levelColors = [...]string{"", "\x1b[48;5;194m", "\x1b[48;5;229m", "\x1b[48;5;223m", "\x1b[48;5;217m", "\x1b[48;5;210m"}

const ansiReset = "\x1b[0m"

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderCalendar(w io.Writer, view service.CalendarView, color bool) {
	fmt.Fprintf(w, "mode %s  today %s  last updated %s\n", view.Mode, view.Today, view.LastUpdated)
	for _, mv := range view.Months {
		fmt.Fprintln(w)
		renderGrid(w, mv, color)
	}
	fmt.Fprintln(w)
	renderDays(w, view)
}

// renderGrid prints the month as a 6x7 grid. Each cell shows the day and its
// demand level as "10:4"; a selected day is bracketed and holidays carry a '*'.
// Past days show no level.
func renderGrid(w io.Writer, mv calendar.MonthView, color bool) {
	fmt.Fprintln(w, mv.YearMonth.String())
	for _, h := range weekdayHeader {
		fmt.Fprintf(w, " %-6s", h)
	}
	fmt.Fprintln(w)
	for _, week := range mv.Weeks {
		var b strings.Builder
		for _, vm := range week {
			b.WriteString(" ")
			b.WriteString(gridCell(vm, color))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

func gridCell(vm *calendar.DayViewModel, color bool) string {
	if vm == nil {
		return "      "
	}
	shown := 0
	if !vm.Past {
		shown = vm.DemandLevel
	}
	level := "  "
	if shown > 0 {
		level = fmt.Sprintf(":%d", shown)
	}
	mark := " "
	if vm.HolidayName != "" {
		mark = "*"
	}
	left, right := " ", mark
	if vm.Selected {
		left, right = "[", "]"
	}
	cell := fmt.Sprintf("%s%2d%s%s", left, vm.Date.Day, level, right)
	if color && shown > 0 && shown < len(levelColors) {
		return levelColors[shown] + cell + ansiReset
	}
	return cell
}

// renderDays lists every upcoming day that has market data or events.
func renderDays(w io.Writer, view service.CalendarView) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDAY\tSTOCK\tΔ\tAVG PRICE\tΔ\tLEVEL\tEVENTS")
	for _, mv := range view.Months {
		for _, week := range mv.Weeks {
			for _, vm := range week {
				if vm == nil || vm.Past || (vm.Stock == nil && vm.Price == nil && len(vm.Events) == 0) {
					continue
				}
				day := weekdayHeader[vm.DayOfWeek]
				if vm.HolidayName != "" {
					day += " " + vm.HolidayName
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
					vm.Date, day,
					formatInt(vm.Stock), formatDelta(vm.StockDelta),
					formatYen(vm.Price), formatDelta(vm.PriceDelta),
					vm.DemandLevel, formatEvents(vm.Events))
			}
		}
	}
	tw.Flush()
}

func renderTrend(w io.Writer, tv service.TrendView) {
	if tv.Empty {
		fmt.Fprintf(w, "no history recorded for %s (%s)\n", tv.Date, tv.Mode)
		return
	}
	fmt.Fprintf(w, "history of %s (%s)\n", tv.Date, tv.Mode)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SNAPSHOT\tSTOCK\tAVG PRICE")
	for i, label := range tv.Labels {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", label, formatInt(tv.Stock[i]), formatYen(tv.Price[i]))
	}
	tw.Flush()
}

func renderSpikes(w io.Writer, report service.SpikeReport) {
	if len(report.Spikes) == 0 {
		fmt.Fprintf(w, "no demand spikes from %s (%s)\n", report.Today, report.Mode)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tAVG PRICE\tCHANGE\tSTOCK\tCHANGE")
	for _, s := range report.Spikes {
		fmt.Fprintf(tw, "%s\t%s\t%+.1f%%\t%d\t%+.1f%%\n",
			s.Date, formatYen(&s.Price), s.PriceRatio*100, s.Vacancy, s.VacancyRatio*100)
	}
	tw.Flush()
}

func formatInt(v *int) string {
	if v == nil {
		return "-"
	}
	return humanize.Comma(int64(*v))
}

func formatYen(v *float64) string {
	if v == nil {
		return "-"
	}
	return "¥" + humanize.Comma(int64(math.Round(*v)))
}

func formatDelta(v *int) string {
	if v == nil {
		return "-"
	}
	if *v > 0 {
		return "+" + humanize.Comma(int64(*v))
	}
	return humanize.Comma(int64(*v))
}

func formatEvents(events []calendar.EventEntry) string {
	parts := make([]string, 0, len(events))
	for _, e := range events {
		parts = append(parts, e.Icon+" "+e.Name)
	}
	return strings.Join(parts, ", ")
}
