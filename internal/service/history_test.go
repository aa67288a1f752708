package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/sources"
)

func newTestHistory() *HistoryService {
	loader := LoaderMock{bundles: map[string]sources.Bundle{"cur_1p.json": testBundle()}}
	store := NewStore(loader, testModes(), "1p", time.Minute)
	return NewHistoryService(store)
}

func TestSeries(t *testing.T) {
	h := newTestHistory()

	tv, err := h.Series(context.Background(), "1p", day(time.January, 10))
	if err != nil {
		t.Fatal(err)
	}

	require.False(t, tv.Empty)
	require.Equal(t, "1p", tv.Mode)
	require.Equal(t, day(time.January, 10), tv.Date)
	require.Len(t, tv.Labels, 2)
	require.Equal(t, day(time.January, 1), tv.Labels[0])
	require.Equal(t, 100, *tv.Stock[0])
	require.Equal(t, 26000.0, *tv.Price[1])
}

func TestSeries_NoHistory(t *testing.T) {
	h := newTestHistory()

	tv, err := h.Series(context.Background(), "", day(time.March, 1))

	require.NoError(t, err)
	require.True(t, tv.Empty)
	raw, err := json.Marshal(tv)
	require.NoError(t, err)
	require.JSONEq(t, `{"mode":"1p","date":"2025-03-01","labels":[],"stock":[],"price":[],"empty":true}`, string(raw))
}

func TestStep(t *testing.T) {
	h := newTestHistory()
	ctx := context.Background()

	tv, err := h.Step(ctx, "1p", day(time.January, 9), 1)
	require.NoError(t, err)
	require.Equal(t, day(time.January, 10), tv.Date)
	require.False(t, tv.Empty)

	tv, err = h.Step(ctx, "1p", day(time.January, 10), 1)
	require.NoError(t, err)
	require.Equal(t, day(time.January, 11), tv.Date)
	require.True(t, tv.Empty)

	tv, err = h.Step(ctx, "1p", day(time.January, 1), -1)
	require.NoError(t, err)
	require.Equal(t, "2024-12-31", tv.Date.String())
	require.True(t, tv.Empty)

	_, err = h.Step(ctx, "9p", day(time.January, 10), 1)
	require.ErrorIs(t, err, ErrUnknownMode)
}
