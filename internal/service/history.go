package service

import (
	"context"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/calendar"
)

type TrendView struct {
	Mode string `json:"mode"`
	calendar.Series
	Empty bool `json:"empty"`
}

// HistoryService serves the snapshot history of single stay dates.
type HistoryService struct {
	store *Store
}

func NewHistoryService(store *Store) *HistoryService {
	return &HistoryService{store: store}
}

func (h *HistoryService) Series(ctx context.Context, mode string, date calendar.Date) (TrendView, error) {
	m, b, err := h.store.Bundle(ctx, mode)
	if err != nil {
		return TrendView{}, err
	}
	s := calendar.BuildSeries(date, b.History)
	return TrendView{Mode: m.Name, Series: s, Empty: s.Empty()}, nil
}

// Step moves delta days from date and returns the series there. Stepping
// past the recorded range is allowed and yields an empty series.
func (h *HistoryService) Step(ctx context.Context, mode string, date calendar.Date, delta int) (TrendView, error) {
	return h.Series(ctx, mode, date.AddDays(delta))
}
