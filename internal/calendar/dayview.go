package calendar

import (
	"math"
	"time"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/demand"
)

// Classifier maps a day's vacancy and average price to a demand level.
type Classifier interface {
	Classify(vacancy *int, avgPrice *float64) int
}

// DayViewModel is the render-ready state of one calendar cell. It is built
// fresh on every pass and shares no memory with the source maps.
type DayViewModel struct {
	Date             Date         `json:"date"`
	Stock            *int         `json:"stock"`
	StockDelta       *int         `json:"stock_delta"`
	Price            *float64     `json:"price"`
	PriceDelta       *int         `json:"price_delta"`
	MyPrice          *float64     `json:"my_price"`
	MyVsAvgPct       *float64     `json:"my_vs_avg_pct"`
	DemandLevel      int          `json:"demand_level"`
	WeekendOrHoliday bool         `json:"is_weekend_or_holiday"`
	HolidayName      string       `json:"holiday_name,omitempty"`
	DayOfWeek        int          `json:"day_of_week"`
	Events           []EventEntry `json:"events"`
	Past             bool         `json:"is_past"`
	Selected         bool         `json:"is_selected"`
}

// DayBuilder joins the snapshot, event and holiday sources for single dates.
// The zero value uses the default demand ladder and no holidays.
type DayBuilder struct {
	Classifier Classifier
	Holidays   Holidays
}

// Build resolves one date. Deltas are set only when both the current and the
// previous snapshot carry the field; price deltas compare prices rounded to
// whole yen.
func (b DayBuilder) Build(date Date, current, previous SnapshotMap, events EventMap, today Date) DayViewModel {
	cur := current[date]
	prev := previous[date]

	vm := DayViewModel{
		Date:      date,
		DayOfWeek: int(date.Weekday()),
		Past:      date.Before(today),
		Events:    []EventEntry{},
	}

	if cur.Vacancy != nil {
		vm.Stock = intPtr(*cur.Vacancy)
		if prev.Vacancy != nil {
			vm.StockDelta = intPtr(*cur.Vacancy - *prev.Vacancy)
		}
	}
	if cur.AvgPrice != nil {
		vm.Price = floatPtr(*cur.AvgPrice)
		if prev.AvgPrice != nil {
			vm.PriceDelta = intPtr(roundYen(*cur.AvgPrice) - roundYen(*prev.AvgPrice))
		}
	}
	if cur.MyPrice != nil {
		vm.MyPrice = floatPtr(*cur.MyPrice)
	}
	if cur.MyVsAvgPct != nil {
		vm.MyVsAvgPct = floatPtr(*cur.MyVsAvgPct)
	}

	vm.DemandLevel = b.classifier().Classify(cur.Vacancy, cur.AvgPrice)

	name, holiday := b.holidays().Lookup(date)
	wd := date.Weekday()
	vm.WeekendOrHoliday = wd == time.Sunday || wd == time.Saturday || holiday
	if holiday {
		vm.HolidayName = name
	}

	vm.Events = append(vm.Events, events[date]...)
	return vm
}

// MonthView is a Month page with every in-month cell resolved.
type MonthView struct {
	YearMonth
	Weeks [WeeksPerMonth][7]*DayViewModel `json:"weeks"`
}

func (b DayBuilder) BuildMonth(m Month, current, previous SnapshotMap, events EventMap, today Date) MonthView {
	mv := MonthView{YearMonth: m.YearMonth}
	for w, week := range m.Days {
		for c, d := range week {
			if d == nil {
				continue
			}
			vm := b.Build(*d, current, previous, events, today)
			mv.Weeks[w][c] = &vm
		}
	}
	return mv
}

// Cell returns the view model for d, or nil when d is not on this page.
func (mv *MonthView) Cell(d Date) *DayViewModel {
	for _, week := range mv.Weeks {
		for _, vm := range week {
			if vm != nil && vm.Date == d {
				return vm
			}
		}
	}
	return nil
}

func (b DayBuilder) classifier() Classifier {
	if b.Classifier == nil {
		return demand.Default()
	}
	return b.Classifier
}

func (b DayBuilder) holidays() Holidays {
	if b.Holidays == nil {
		return NoHolidays
	}
	return b.Holidays
}

func roundYen(v float64) int { return int(math.Round(v)) }

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
