package calendar

// WeeksPerMonth is fixed so every month page has the same 6x7 shape.
const WeeksPerMonth = 6

// Month is one calendar page. Days holds nil for cells outside the month;
// columns run Sunday to Saturday.
type Month struct {
	YearMonth
	Days [WeeksPerMonth][7]*Date `json:"days"`
}

// Resolve returns the two consecutive pages shown side by side: the month
// offset months away from anchor and the one after it.
func Resolve(anchor YearMonth, offset int) [2]Month {
	first := anchor.AddMonths(offset)
	return [2]Month{newMonth(first), newMonth(first.AddMonths(1))}
}

func newMonth(ym YearMonth) Month {
	m := Month{YearMonth: ym}
	lead := int(ym.FirstDay().Weekday())
	for day := 1; day <= ym.DaysIn(); day++ {
		d := Date{Year: ym.Year, Month: ym.Month, Day: day}
		idx := lead + day - 1
		m.Days[idx/7][idx%7] = &d
	}
	return m
}

// Dates lists the in-month days in order.
func (m Month) Dates() []Date {
	out := make([]Date, 0, 31)
	for _, week := range m.Days {
		for _, d := range week {
			if d != nil {
				out = append(out, *d)
			}
		}
	}
	return out
}

func (m Month) Contains(d Date) bool {
	return d.Year == m.Year && d.Month == m.Month
}
