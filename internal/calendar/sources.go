package calendar

import "strings"

// SnapshotRecord is one day of the current or previous crawl. A nil field
// means the crawl had no value for that day, which is not the same as zero.
type SnapshotRecord struct {
	Vacancy    *int     `json:"vacancy,omitempty"`
	AvgPrice   *float64 `json:"avg_price,omitempty"`
	MyPrice    *float64 `json:"my_price,omitempty"`
	MyVsAvgPct *float64 `json:"my_vs_avg_pct,omitempty"`
}

type SnapshotMap map[Date]SnapshotRecord

// HistoryMap is keyed by stay date, then by the date each snapshot was taken.
type HistoryMap map[Date]SnapshotMap

type EventEntry struct {
	Icon string `json:"icon"`
	Name string `json:"name"`
}

const (
	EventKindKyocera = "kyocera"
	EventKindYanmar  = "yanmar"
	EventKindOther   = "other"
)

// Kind groups events by the venue marker in their icon.
func (e EventEntry) Kind() string {
	switch {
	case strings.Contains(e.Icon, "🔴"):
		return EventKindKyocera
	case strings.Contains(e.Icon, "🔵"):
		return EventKindYanmar
	default:
		return EventKindOther
	}
}

type EventMap map[Date][]EventEntry

// Holidays resolves whether a date is a public holiday and its name.
type Holidays interface {
	Lookup(d Date) (name string, ok bool)
}

// HolidayFunc adapts a plain predicate. A nil HolidayFunc reports no holidays.
type HolidayFunc func(Date) bool

func (f HolidayFunc) Lookup(d Date) (string, bool) {
	if f == nil {
		return "", false
	}
	return "", f(d)
}

var NoHolidays Holidays = HolidayFunc(nil)
