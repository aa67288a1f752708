package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolve_TwoConsecutiveMonths(t *testing.T) {
	months := Resolve(YearMonth{Year: 2025, Month: time.July}, 0)

	require.Equal(t, YearMonth{Year: 2025, Month: time.July}, months[0].YearMonth)
	require.Equal(t, YearMonth{Year: 2025, Month: time.August}, months[1].YearMonth)
}

func TestResolve_YearRollover(t *testing.T) {
	cases := []struct {
		name        string
		anchor      YearMonth
		offset      int
		first, next YearMonth
	}{
		{"december", YearMonth{2025, time.December}, 0, YearMonth{2025, time.December}, YearMonth{2026, time.January}},
		{"forward into next year", YearMonth{2025, time.November}, 2, YearMonth{2026, time.January}, YearMonth{2026, time.February}},
		{"back into previous year", YearMonth{2025, time.January}, -1, YearMonth{2024, time.December}, YearMonth{2025, time.January}},
		{"far back", YearMonth{2025, time.March}, -15, YearMonth{2023, time.December}, YearMonth{2024, time.January}},
		{"far forward", YearMonth{2025, time.March}, 22, YearMonth{2027, time.January}, YearMonth{2027, time.February}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			months := Resolve(tc.anchor, tc.offset)
			if months[0].YearMonth != tc.first || months[1].YearMonth != tc.next {
				t.Fatalf("got %s/%s, want %s/%s", months[0].YearMonth, months[1].YearMonth, tc.first, tc.next)
			}
		})
	}
}

func TestResolve_GridShape(t *testing.T) {
	// February 2026 starts on a Sunday and fits in four rows; August 2026
	// starts on a Saturday and needs six.
	for _, ym := range []YearMonth{{2026, time.February}, {2026, time.August}} {
		m := Resolve(ym, 0)[0]

		require.Len(t, m.Days, WeeksPerMonth)
		dates := m.Dates()
		require.Len(t, dates, ym.DaysIn())
		for i, d := range dates {
			require.Equal(t, i+1, d.Day)
			require.True(t, m.Contains(d))
		}
	}

	feb := Resolve(YearMonth{2026, time.February}, 0)[0]
	require.NotNil(t, feb.Days[0][0])
	require.Equal(t, 1, feb.Days[0][0].Day)
	for _, week := range feb.Days[4:] {
		for _, cell := range week {
			require.Nil(t, cell)
		}
	}

	aug := Resolve(YearMonth{2026, time.August}, 0)[0]
	for col := 0; col < 6; col++ {
		require.Nil(t, aug.Days[0][col])
	}
	require.Equal(t, NewDate(2026, time.August, 1), *aug.Days[0][6])
	require.Equal(t, NewDate(2026, time.August, 31), *aug.Days[5][1])
}

func TestResolve_ColumnIsWeekday(t *testing.T) {
	for _, m := range Resolve(YearMonth{2025, time.January}, 0) {
		for _, week := range m.Days {
			for col, d := range week {
				if d != nil && int(d.Weekday()) != col {
					t.Fatalf("%s sits in column %d but is a %s", d, col, d.Weekday())
				}
			}
		}
	}
}

func TestResolve_LeapFebruary(t *testing.T) {
	m := Resolve(YearMonth{2024, time.January}, 1)[0]
	require.Len(t, m.Dates(), 29)
}

func TestMonth_JSONShape(t *testing.T) {
	m := Resolve(YearMonth{2026, time.August}, 0)[0]
	raw, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded struct {
		Year  int         `json:"year"`
		Month int         `json:"month"`
		Days  [][]*string `json:"days"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, 2026, decoded.Year)
	require.Equal(t, 8, decoded.Month)
	require.Len(t, decoded.Days, 6)
	require.Nil(t, decoded.Days[0][0])
	require.Equal(t, "2026-08-01", *decoded.Days[0][6])
}
