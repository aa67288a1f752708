package service

import (
	"context"
	"time"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/calendar"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/spike"
)

type Options struct {
	MaxMonthOffset int
	Location       *time.Location
	Holidays       calendar.Holidays
	Spike          spike.Thresholds
	Now            func() time.Time
}

// CalendarView is the two-month page shown to the user.
type CalendarView struct {
	Mode        string                `json:"mode"`
	Today       calendar.Date         `json:"today"`
	Offset      int                   `json:"offset"`
	CanPrev     bool                  `json:"can_prev"`
	CanNext     bool                  `json:"can_next"`
	Selected    *calendar.Date        `json:"selected,omitempty"`
	LastUpdated string                `json:"last_updated"`
	Months      [2]calendar.MonthView `json:"months"`
}

type SpikeReport struct {
	Mode   string        `json:"mode"`
	Today  calendar.Date `json:"today"`
	Spikes []spike.Spike `json:"spikes"`
}

type DashboardService struct {
	store *Store
	opts  Options
}

func NewDashboardService(store *Store, opts Options) *DashboardService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Holidays == nil {
		opts.Holidays = calendar.NoHolidays
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &DashboardService{store: store, opts: opts}
}

// Today is the civil date in the configured zone.
func (s *DashboardService) Today() calendar.Date {
	return calendar.Today(s.opts.Now(), s.opts.Location)
}

// ClampOffset keeps month navigation within MaxMonthOffset of the current
// month.
func (s *DashboardService) ClampOffset(offset int) int {
	limit := s.opts.MaxMonthOffset
	switch {
	case offset > limit:
		return limit
	case offset < -limit:
		return -limit
	}
	return offset
}

// Calendar builds the two months starting offset months from today. A
// non-zero selected date is marked on whichever page shows it.
func (s *DashboardService) Calendar(ctx context.Context, mode string, offset int, selected calendar.Date) (CalendarView, error) {
	m, b, err := s.store.Bundle(ctx, mode)
	if err != nil {
		return CalendarView{}, err
	}

	today := s.Today()
	offset = s.ClampOffset(offset)
	view := CalendarView{
		Mode:        m.Name,
		Today:       today,
		Offset:      offset,
		CanPrev:     offset > -s.opts.MaxMonthOffset,
		CanNext:     offset < s.opts.MaxMonthOffset,
		LastUpdated: b.LastUpdated,
	}

	builder := calendar.DayBuilder{Classifier: m.Classifier, Holidays: s.opts.Holidays}
	for i, month := range calendar.Resolve(calendar.MonthOf(today), offset) {
		view.Months[i] = builder.BuildMonth(month, b.Current, b.Previous, b.Events, today)
	}

	if !selected.IsZero() {
		sel := selected
		view.Selected = &sel
		for i := range view.Months {
			if vm := view.Months[i].Cell(selected); vm != nil {
				vm.Selected = true
			}
		}
	}
	return view, nil
}

// Day resolves a single date outside any page.
func (s *DashboardService) Day(ctx context.Context, mode string, date calendar.Date) (calendar.DayViewModel, error) {
	m, b, err := s.store.Bundle(ctx, mode)
	if err != nil {
		return calendar.DayViewModel{}, err
	}
	builder := calendar.DayBuilder{Classifier: m.Classifier, Holidays: s.opts.Holidays}
	return builder.Build(date, b.Current, b.Previous, b.Events, s.Today()), nil
}

func (s *DashboardService) Spikes(ctx context.Context, mode string) (SpikeReport, error) {
	m, b, err := s.store.Bundle(ctx, mode)
	if err != nil {
		return SpikeReport{}, err
	}
	today := s.Today()
	return SpikeReport{
		Mode:   m.Name,
		Today:  today,
		Spikes: spike.Detect(b.Current, b.Previous, today, s.opts.Spike),
	}, nil
}

func (s *DashboardService) Reload(mode string) error {
	return s.store.Reload(mode)
}
