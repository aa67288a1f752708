package sources

import (
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/calendar"
)

// DecodeSnapshots reads {"YYYY-MM-DD": {"vacancy": n, "avg_price": n, ...}}.
// Keys that are not dates and fields that are not numbers are dropped, so a
// missing field stays absent instead of turning into zero.
func DecodeSnapshots(data []byte) calendar.SnapshotMap {
	out := calendar.SnapshotMap{}
	forEachDate(data, func(d calendar.Date, v gjson.Result) {
		if v.IsObject() {
			out[d] = decodeRecord(v)
		}
	})
	return out
}

// DecodeHistory reads {"stay date": {"snapshot date": {...}}}.
func DecodeHistory(data []byte) calendar.HistoryMap {
	out := calendar.HistoryMap{}
	forEachDate(data, func(d calendar.Date, v gjson.Result) {
		if !v.IsObject() {
			return
		}
		snaps := calendar.SnapshotMap{}
		v.ForEach(func(key, value gjson.Result) bool {
			taken, err := calendar.ParseDate(key.String())
			if err == nil && value.IsObject() {
				snaps[taken] = decodeRecord(value)
			}
			return true
		})
		out[d] = snaps
	})
	return out
}

// DecodeEvents accepts the three shapes the event file has been published
// in and normalises them into one list per date, in document order:
//
//	{"2025-05-03": [{"icon": "🔴", "name": "..."}]}
//	{"2025-05-03": {"events": [{"icon": "🔴", "name": "..."}]}}
//	[{"date": "2025-05-03", "name": "...", "venue": "京セラドーム"}]
//
// Entries without a name are skipped. An entry with no icon gets one from its
// venue.
func DecodeEvents(data []byte) calendar.EventMap {
	out := calendar.EventMap{}
	if !gjson.ValidBytes(data) {
		return out
	}
	root := gjson.ParseBytes(data)

	addDated := func(v gjson.Result) {
		d, err := calendar.ParseDate(v.Get("date").String())
		if err != nil {
			return
		}
		if e, ok := decodeEvent(v); ok {
			out[d] = append(out[d], e)
		}
	}

	switch {
	case root.IsArray():
		root.ForEach(func(_, v gjson.Result) bool {
			addDated(v)
			return true
		})
	case root.IsObject():
		root.ForEach(func(key, v gjson.Result) bool {
			d, err := calendar.ParseDate(key.String())
			switch {
			case err == nil && v.IsArray():
				out[d] = appendEvents(out[d], v)
			case err == nil && v.Get("events").IsArray():
				out[d] = appendEvents(out[d], v.Get("events"))
			case v.IsObject() && v.Get("date").Exists():
				addDated(v)
			}
			return true
		})
	}
	return out
}

// DecodeLastUpdated reads the crawler's last_updated.json.
func DecodeLastUpdated(data []byte) string {
	if !gjson.ValidBytes(data) {
		return ""
	}
	return gjson.GetBytes(data, "last_updated_jst").String()
}

func appendEvents(dst []calendar.EventEntry, list gjson.Result) []calendar.EventEntry {
	list.ForEach(func(_, v gjson.Result) bool {
		if e, ok := decodeEvent(v); ok {
			dst = append(dst, e)
		}
		return true
	})
	return dst
}

func decodeEvent(v gjson.Result) (calendar.EventEntry, bool) {
	if !v.IsObject() {
		return calendar.EventEntry{}, false
	}
	e := calendar.EventEntry{
		Icon: v.Get("icon").String(),
		Name: strings.TrimSpace(v.Get("name").String()),
	}
	if e.Name == "" {
		return calendar.EventEntry{}, false
	}
	if e.Icon == "" {
		e.Icon = iconForVenue(v.Get("venue").String())
	}
	return e, true
}

func iconForVenue(venue string) string {
	switch {
	case strings.Contains(venue, "京セラ"):
		return "🔴"
	case strings.Contains(venue, "ヤンマー"):
		return "🔵"
	default:
		return "★"
	}
}

// maxVacancy bounds a room count well beyond any real property.
const maxVacancy = math.MaxInt32

// decodeRecord keeps only values the core can work with: a vacancy must be a
// whole number in [0, maxVacancy] and prices must be finite and not negative.
// Anything else is left absent.
func decodeRecord(v gjson.Result) calendar.SnapshotRecord {
	var rec calendar.SnapshotRecord
	if f, ok := finite(v, "vacancy"); ok && f >= 0 && f <= maxVacancy && f == math.Trunc(f) {
		n := int(f)
		rec.Vacancy = &n
	}
	rec.AvgPrice = price(v, "avg_price")
	rec.MyPrice = price(v, "my_price")
	if f, ok := finite(v, "my_vs_avg_pct"); ok {
		rec.MyVsAvgPct = &f
	}
	return rec
}

func price(v gjson.Result, path string) *float64 {
	f, ok := finite(v, path)
	if !ok || f < 0 {
		return nil
	}
	return &f
}

func finite(v gjson.Result, path string) (float64, bool) {
	f := v.Get(path)
	if f.Type != gjson.Number {
		return 0, false
	}
	n := f.Float()
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func forEachDate(data []byte, fn func(calendar.Date, gjson.Result)) {
	if !gjson.ValidBytes(data) {
		return
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return
	}
	root.ForEach(func(key, value gjson.Result) bool {
		if d, err := calendar.ParseDate(key.String()); err == nil {
			fn(d, value)
		}
		return true
	})
}
