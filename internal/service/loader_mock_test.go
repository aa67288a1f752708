package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/calendar"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/sources"
)

// LoaderMock serves fixed bundles keyed by the mode's current document.
type LoaderMock struct {
	bundles   map[string]sources.Bundle
	err       error
	callCount *int32
}

func (l LoaderMock) Load(ctx context.Context, files sources.Files) (sources.Bundle, error) {
	if l.callCount != nil {
		atomic.AddInt32(l.callCount, 1)
	}
	if l.err != nil {
		return sources.Bundle{}, l.err
	}
	if err := ctx.Err(); err != nil {
		return sources.Bundle{}, err
	}
	return l.bundles[files.Current], nil
}

func valToPtr[T any](param T) *T {
	return &param
}

func rec(vacancy int, price float64) calendar.SnapshotRecord {
	return calendar.SnapshotRecord{Vacancy: valToPtr(vacancy), AvgPrice: valToPtr(price)}
}

func day(month time.Month, d int) calendar.Date {
	return calendar.NewDate(2025, month, d)
}
