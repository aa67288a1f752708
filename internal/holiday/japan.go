// Package holiday provides the public-holiday lookups used to colour
// calendar cells.
package holiday

import (
	"sort"
	"sync"
	"time"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/calendar"
)

// Table maps a date to its holiday name.
type Table map[calendar.Date]string

func (t Table) Lookup(d calendar.Date) (string, bool) {
	name, ok := t[d]
	return name, ok
}

// ParseTable builds a Table from ISO date keys, skipping malformed ones.
func ParseTable(raw map[string]string) Table {
	t := make(Table, len(raw))
	for k, name := range raw {
		d, err := calendar.ParseDate(k)
		if err != nil {
			continue
		}
		t[d] = name
	}
	return t
}

// Japan computes Japanese national holidays year by year and keeps each
// computed year. Extra entries take precedence over computed ones.
type Japan struct {
	mu    sync.Mutex
	years map[int]Table
	extra Table
}

func NewJapan(extra Table) *Japan {
	return &Japan{years: make(map[int]Table), extra: extra}
}

func (j *Japan) Lookup(d calendar.Date) (string, bool) {
	if name, ok := j.extra[d]; ok {
		return name, true
	}
	return j.Year(d.Year).Lookup(d)
}

func (j *Japan) Year(year int) Table {
	j.mu.Lock()
	defer j.mu.Unlock()
	t, ok := j.years[year]
	if !ok {
		t = JapanYear(year)
		j.years[year] = t
	}
	return t
}

// JapanYear applies the holiday law as it stood in year, for 1989 onward:
// fixed days, the Happy Monday moves of 2000 and 2003, the two equinoxes, the
// 2019 enthronement days, the 2020/2021 Olympic moves, citizens' holidays
// between two holidays, and substitute holidays after a Sunday holiday.
// Substitute days follow the 2007 rule in every year.
func JapanYear(year int) Table {
	t := Table{}
	add := func(m time.Month, day int, name string) {
		t[calendar.NewDate(year, m, day)] = name
	}

	add(time.January, 1, "元日")
	if year >= 2000 {
		t[nthWeekday(year, time.January, time.Monday, 2)] = "成人の日"
	} else {
		add(time.January, 15, "成人の日")
	}
	add(time.February, 11, "建国記念の日")
	switch {
	case year >= 2020:
		add(time.February, 23, "天皇誕生日")
	case year <= 2018:
		add(time.December, 23, "天皇誕生日")
	}
	add(time.March, vernalEquinox(year), "春分の日")
	if year >= 2007 {
		add(time.April, 29, "昭和の日")
		add(time.May, 4, "みどりの日")
	} else {
		add(time.April, 29, "みどりの日")
	}
	add(time.May, 3, "憲法記念日")
	add(time.May, 5, "こどもの日")
	add(time.September, autumnalEquinox(year), "秋分の日")
	add(time.November, 3, "文化の日")
	add(time.November, 23, "勤労感謝の日")

	if year == 2019 {
		add(time.May, 1, "天皇の即位の日")
		add(time.October, 22, "即位礼正殿の儀の行われる日")
	}

	switch {
	case year == 2020:
		add(time.July, 23, "海の日")
		add(time.July, 24, "スポーツの日")
		add(time.August, 10, "山の日")
	case year == 2021:
		add(time.July, 22, "海の日")
		add(time.July, 23, "スポーツの日")
		add(time.August, 8, "山の日")
	default:
		switch {
		case year >= 2003:
			t[nthWeekday(year, time.July, time.Monday, 3)] = "海の日"
		case year >= 1996:
			add(time.July, 20, "海の日")
		}
		switch {
		case year >= 2022:
			t[nthWeekday(year, time.October, time.Monday, 2)] = "スポーツの日"
		case year >= 2000:
			t[nthWeekday(year, time.October, time.Monday, 2)] = "体育の日"
		default:
			add(time.October, 10, "体育の日")
		}
		if year >= 2016 {
			add(time.August, 11, "山の日")
		}
	}
	if year >= 2003 {
		t[nthWeekday(year, time.September, time.Monday, 3)] = "敬老の日"
	} else {
		add(time.September, 15, "敬老の日")
	}

	addCitizensHolidays(t, year)
	addSubstituteHolidays(t)
	return t
}

func addCitizensHolidays(t Table, year int) {
	var found []calendar.Date
	for d := calendar.NewDate(year, time.January, 2); d.Year == year; d = d.AddDays(1) {
		if _, ok := t[d]; ok || d.Weekday() == time.Sunday {
			continue
		}
		_, before := t[d.AddDays(-1)]
		_, after := t[d.AddDays(1)]
		if before && after {
			found = append(found, d)
		}
	}
	for _, d := range found {
		t[d] = "国民の休日"
	}
}

func addSubstituteHolidays(t Table) {
	sundays := make([]calendar.Date, 0, 4)
	for d := range t {
		if d.Weekday() == time.Sunday {
			sundays = append(sundays, d)
		}
	}
	sort.Slice(sundays, func(i, j int) bool { return sundays[i].Before(sundays[j]) })
	for _, d := range sundays {
		next := d.AddDays(1)
		for {
			if _, ok := t[next]; !ok {
				break
			}
			next = next.AddDays(1)
		}
		t[next] = "振替休日"
	}
}

func nthWeekday(year int, month time.Month, wd time.Weekday, n int) calendar.Date {
	first := calendar.NewDate(year, month, 1)
	offset := (int(wd) - int(first.Weekday()) + 7) % 7
	return calendar.NewDate(year, month, 1+offset+7*(n-1))
}

// Equinox days follow the approximation published for 1980-2099.
func vernalEquinox(year int) int {
	if year < 1980 || year > 2099 {
		return 20
	}
	y := year - 1980
	return int(20.8431 + 0.242194*float64(y) - float64(y/4))
}

func autumnalEquinox(year int) int {
	if year < 1980 || year > 2099 {
		return 23
	}
	y := year - 1980
	return int(23.2488 + 0.242194*float64(y) - float64(y/4))
}
