package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDate_StringIsZeroPadded(t *testing.T) {
	require.Equal(t, "2025-01-05", NewDate(2025, time.January, 5).String())
	require.Equal(t, "0999-12-31", Date{Year: 999, Month: time.December, Day: 31}.String())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-07-22")
	require.NoError(t, err)
	require.Equal(t, Date{Year: 2025, Month: time.July, Day: 22}, d)

	for _, bad := range []string{"", "2025-7-22", "2025/07/22", "2025-02-30", "last_updated", "2025-07-22T00:00:00Z"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("ParseDate(%q): expected error", bad)
		}
	}
}

func TestDate_AddDaysCrossesBoundaries(t *testing.T) {
	require.Equal(t, NewDate(2026, time.January, 1), NewDate(2025, time.December, 31).AddDays(1))
	require.Equal(t, NewDate(2024, time.February, 29), NewDate(2024, time.March, 1).AddDays(-1))
}

func TestDate_Compare(t *testing.T) {
	a := NewDate(2025, time.January, 31)
	b := NewDate(2025, time.February, 1)

	require.True(t, a.Before(b))
	require.True(t, b.After(a))
	require.False(t, a.Before(a))
	require.Equal(t, 0, a.Compare(a))
}

func TestToday_UsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 20:30 UTC on the 9th is already the 10th in Tokyo.
	now := time.Date(2025, time.January, 9, 20, 30, 0, 0, time.UTC)

	require.Equal(t, NewDate(2025, time.January, 10), Today(now, tokyo))
	require.Equal(t, NewDate(2025, time.January, 9), Today(now, nil))
}

func TestDate_JSONMapKey(t *testing.T) {
	in := map[Date]int{NewDate(2025, time.March, 1): 7}
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	require.JSONEq(t, `{"2025-03-01":7}`, string(raw))

	var out map[Date]int
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Equal(t, in, out)
}

func TestYearMonth_DaysIn(t *testing.T) {
	require.Equal(t, 31, YearMonth{2025, time.January}.DaysIn())
	require.Equal(t, 28, YearMonth{2025, time.February}.DaysIn())
	require.Equal(t, 29, YearMonth{2028, time.February}.DaysIn())
	require.Equal(t, 30, YearMonth{2025, time.November}.DaysIn())
}
