package sources

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type sourceMock struct {
	docs      map[string]string
	failures  map[string]error
	delay     time.Duration
	callCount *int32
}

func (s sourceMock) Name() string { return "mock" }

func (s sourceMock) Fetch(ctx context.Context, file string) ([]byte, error) {
	if s.callCount != nil {
		atomic.AddInt32(s.callCount, 1)
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := s.failures[file]; ok {
		return nil, err
	}
	doc, ok := s.docs[file]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(doc), nil
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var testFiles = Files{
	Current:     "current.json",
	Previous:    "previous.json",
	History:     "history.json",
	Events:      "events.json",
	LastUpdated: "last_updated.json",
}

func TestLoad_DecodesEveryDocument(t *testing.T) {
	var calls int32
	src := sourceMock{callCount: &calls, docs: map[string]string{
		"current.json":      `{"2025-01-10": {"vacancy": 100, "avg_price": 30000}}`,
		"previous.json":     `{"2025-01-10": {"vacancy": 120, "avg_price": 28000}}`,
		"history.json":      `{"2025-01-10": {"2025-01-01": {"vacancy": 150, "avg_price": 25000}}}`,
		"events.json":       `{"2025-01-10": [{"icon": "★", "name": "Expo"}]}`,
		"last_updated.json": `{"last_updated_jst": "2025-01-09 06:00:00 JST"}`,
	}}

	b, err := NewLoader(src, time.Second, quietLogger()).Load(context.Background(), testFiles)

	require.NoError(t, err)
	require.Equal(t, int32(5), atomic.LoadInt32(&calls))
	require.Equal(t, 100, *b.Current[d(time.January, 10)].Vacancy)
	require.Equal(t, 120, *b.Previous[d(time.January, 10)].Vacancy)
	require.Len(t, b.History[d(time.January, 10)], 1)
	require.Len(t, b.Events[d(time.January, 10)], 1)
	require.Equal(t, "2025-01-09 06:00:00 JST", b.LastUpdated)
	require.False(t, b.LoadedAt.IsZero())
}

func TestLoad_FailuresDegradeToEmpty(t *testing.T) {
	src := sourceMock{
		docs: map[string]string{
			"current.json": `{"2025-01-10": {"vacancy": 100}, "2025-02-01": {"vacancy": 90}}`,
			"history.json": `<html>oops</html>`,
		},
		failures: map[string]error{"previous.json": errors.New("connection reset")},
	}

	b, err := NewLoader(src, time.Second, quietLogger()).Load(context.Background(), testFiles)

	require.NoError(t, err)
	require.Len(t, b.Current, 2)
	require.NotNil(t, b.Previous)
	require.Empty(t, b.Previous)
	require.Empty(t, b.History)
	require.Empty(t, b.Events)
	require.Equal(t, "2025-02-01", b.LastUpdated)
	require.Equal(t, []string{"previous.json"}, b.Degraded)
}

func TestLoad_SkipsUnnamedFiles(t *testing.T) {
	var calls int32
	src := sourceMock{callCount: &calls, docs: map[string]string{"current.json": `{}`}}

	b, err := NewLoader(src, time.Second, quietLogger()).Load(context.Background(), Files{Current: "current.json"})

	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	require.Empty(t, b.LastUpdated)
	require.Empty(t, b.Degraded)
}

func TestLoad_TimeoutIsNotAnError(t *testing.T) {
	src := sourceMock{delay: 2 * time.Second, docs: map[string]string{"current.json": `{}`}}

	start := time.Now()
	b, err := NewLoader(src, 100*time.Millisecond, quietLogger()).Load(context.Background(), testFiles)

	require.NoError(t, err)
	require.Empty(t, b.Current)
	require.Len(t, b.Degraded, 5)
	require.Less(t, time.Since(start), time.Second)
}

func TestLoad_CallerCancellation(t *testing.T) {
	src := sourceMock{delay: 2 * time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := NewLoader(src, 5*time.Second, quietLogger()).Load(ctx, testFiles)

	require.Error(t, err)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline exceeded, got %v", err)
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "current.json"), []byte(`{"2025-01-10": {"vacancy": 1}}`), 0o644))

	src := NewDirSource(dir)

	data, err := src.Fetch(context.Background(), "current.json")
	require.NoError(t, err)
	require.Contains(t, string(data), "2025-01-10")

	_, err = src.Fetch(context.Background(), "missing.json")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = src.Fetch(context.Background(), "../../etc/passwd")
	require.ErrorIs(t, err, ErrNotFound)
}
