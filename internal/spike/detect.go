// Package spike flags stay dates where demand jumped between two crawls:
// the market's vacancy fell and its average price rose at the same time.
package spike

import (
	"math"
	"sort"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/calendar"
)

// Thresholds are fractions of the previous value, e.g. 0.05 for 5%.
type Thresholds struct {
	PriceUpPct     float64
	VacancyDownPct float64
}

var DefaultThresholds = Thresholds{PriceUpPct: 0.05, VacancyDownPct: 0.05}

type Spike struct {
	Date         calendar.Date `json:"spike_date"`
	Price        float64       `json:"price"`
	LastPrice    float64       `json:"last_price"`
	PriceDiff    float64       `json:"price_diff"`
	PriceRatio   float64       `json:"price_ratio"`
	Vacancy      int           `json:"vacancy"`
	LastVacancy  int           `json:"last_vac"`
	VacancyDiff  int           `json:"vacancy_diff"`
	VacancyRatio float64       `json:"vacancy_ratio"`
}

// Detect compares current against previous for every date on or after
// today. Dates lacking a positive previous vacancy and price are skipped,
// since no ratio can be formed. Results are ordered by date.
func Detect(current, previous calendar.SnapshotMap, today calendar.Date, th Thresholds) []Spike {
	out := []Spike{}
	for d, cur := range current {
		if d.Before(today) || cur.Vacancy == nil || cur.AvgPrice == nil {
			continue
		}
		prev, ok := previous[d]
		if !ok || prev.Vacancy == nil || prev.AvgPrice == nil || *prev.Vacancy <= 0 || *prev.AvgPrice <= 0 {
			continue
		}

		priceDiff := *cur.AvgPrice - *prev.AvgPrice
		vacDiff := *cur.Vacancy - *prev.Vacancy
		priceRatio := priceDiff / *prev.AvgPrice
		vacRatio := float64(vacDiff) / float64(*prev.Vacancy)

		if vacRatio > -th.VacancyDownPct || priceRatio < th.PriceUpPct {
			continue
		}
		out = append(out, Spike{
			Date:         d,
			Price:        *cur.AvgPrice,
			LastPrice:    *prev.AvgPrice,
			PriceDiff:    priceDiff,
			PriceRatio:   round4(priceRatio),
			Vacancy:      *cur.Vacancy,
			LastVacancy:  *prev.Vacancy,
			VacancyDiff:  vacDiff,
			VacancyRatio: round4(vacRatio),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func round4(v float64) float64 { return math.Round(v*1e4) / 1e4 }
