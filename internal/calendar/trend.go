package calendar

import "sort"

// Series is the snapshot history of one stay date, aligned for a two-line
// chart. Labels ascend chronologically; Stock and Price share their index.
type Series struct {
	Date   Date       `json:"date"`
	Labels []Date     `json:"labels"`
	Stock  []*int     `json:"stock"`
	Price  []*float64 `json:"price"`
}

// Empty reports a date with no recorded history. Callers show an explicit
// "no data" state for it rather than an empty chart.
func (s Series) Empty() bool { return len(s.Labels) == 0 }

// BuildSeries never fails: a date missing from history, including one
// reached by stepping past the recorded range, yields an empty Series.
func BuildSeries(selected Date, history HistoryMap) Series {
	s := Series{
		Date:   selected,
		Labels: []Date{},
		Stock:  []*int{},
		Price:  []*float64{},
	}
	entry, ok := history[selected]
	if !ok {
		return s
	}

	labels := make([]Date, 0, len(entry))
	for d := range entry {
		labels = append(labels, d)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].Before(labels[j]) })

	for _, d := range labels {
		rec := entry[d]
		s.Labels = append(s.Labels, d)
		var stock *int
		if rec.Vacancy != nil {
			stock = intPtr(*rec.Vacancy)
		}
		var price *float64
		if rec.AvgPrice != nil {
			price = floatPtr(*rec.AvgPrice)
		}
		s.Stock = append(s.Stock, stock)
		s.Price = append(s.Price, price)
	}
	return s
}
