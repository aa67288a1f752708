package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/calendar"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/config"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/demand"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/holiday"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/service"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/sources"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vacancy_price_cache.json"),
		[]byte(`{"2025-01-10": {"vacancy": 60, "avg_price": 30000}}`), 0o644))
	cfg, err := config.LoadFile(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	cfg.DataDir = dir
	return cfg
}

func TestNewHolidays(t *testing.T) {
	cfg := &config.Config{Holidays: "jp", ExtraHolidays: map[string]string{"2025-12-29": "年末休業"}}
	h := NewHolidays(cfg)
	require.IsType(t, &holiday.Japan{}, h)

	name, ok := h.Lookup(calendar.NewDate(2025, time.January, 13))
	require.True(t, ok)
	require.Equal(t, "成人の日", name)
	name, ok = h.Lookup(calendar.NewDate(2025, time.December, 29))
	require.True(t, ok)
	require.Equal(t, "年末休業", name)

	cfg.Holidays = "none"
	h = NewHolidays(cfg)
	_, ok = h.Lookup(calendar.NewDate(2025, time.January, 13))
	require.False(t, ok)
	_, ok = h.Lookup(calendar.NewDate(2025, time.December, 29))
	require.True(t, ok)
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(&config.Config{DataSource: "dir", DataDir: "/data"}, quietLogger())
	require.NoError(t, err)
	require.IsType(t, &sources.DirSource{}, src)

	src, err = NewSource(&config.Config{DataSource: "http", DataBaseURL: "https://example.com/data"}, quietLogger())
	require.NoError(t, err)
	require.IsType(t, &sources.HTTPSource{}, src)

	_, err = NewSource(&config.Config{DataSource: "s3"}, quietLogger())
	require.Error(t, err)
}

func TestModes(t *testing.T) {
	cfg := &config.Config{Modes: map[string]config.ModeConfig{
		"2p": {Current: "c2.json", Thresholds: []demand.Tier{{Level: 2, MaxVacancy: 10, MinPrice: 1}}},
		"1p": {Current: "c1.json", History: "h1.json"},
	}}

	modes, err := Modes(cfg)
	require.NoError(t, err)
	require.Len(t, modes, 2)
	require.Equal(t, "1p", modes[0].Name)
	require.Equal(t, "h1.json", modes[0].Files.History)
	require.Nil(t, modes[0].Classifier)
	require.Equal(t, []demand.Tier{{Level: 2, MaxVacancy: 10, MinPrice: 1}}, modes[1].Classifier.Tiers())

	cfg.Modes["3p"] = config.ModeConfig{Current: "c3.json", Thresholds: []demand.Tier{{Level: 9}}}
	_, err = Modes(cfg)
	require.Error(t, err)
}

func TestHandler_Routes(t *testing.T) {
	a, err := New(testConfig(t), quietLogger())
	require.NoError(t, err)
	h := a.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/calendar?mode=2p", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var view service.CalendarView
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&view))
	require.Equal(t, "2p", view.Mode)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/trend?date=2025-01-10", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/spikes", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestHandler_AuthEnabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.JWTSecret = "s3cret"
	a, err := New(cfg, quietLogger())
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/calendar", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}
