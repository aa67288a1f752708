// Package app wires configuration into the sources, services and routes
// shared by the server and the CLI.
package app

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/auth"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/calendar"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/config"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/demand"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/holiday"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/httpx"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/service"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/sources"
)

type App struct {
	Config    *config.Config
	Store     *service.Store
	Dashboard *service.DashboardService
	History   *service.HistoryService
}

func New(cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	src, err := NewSource(cfg, log)
	if err != nil {
		return nil, err
	}
	modes, err := Modes(cfg)
	if err != nil {
		return nil, err
	}

	loader := sources.NewLoader(src, cfg.FetchTimeout, log)
	store := service.NewStore(loader, modes, cfg.DefaultMode, cfg.CacheTTL)
	dash := service.NewDashboardService(store, service.Options{
		MaxMonthOffset: cfg.MaxMonthOffset,
		Location:       cfg.Location,
		Holidays:       NewHolidays(cfg),
		Spike:          cfg.Spike,
	})

	log.WithFields(logrus.Fields{
		"source": src.Name(),
		"modes":  cfg.ModeNames(),
	}).Info("dashboard ready")

	return &App{
		Config:    cfg,
		Store:     store,
		Dashboard: dash,
		History:   service.NewHistoryService(store),
	}, nil
}

func NewSource(cfg *config.Config, log logrus.FieldLogger) (sources.Source, error) {
	switch cfg.DataSource {
	case "dir":
		return sources.NewDirSource(cfg.DataDir), nil
	case "http":
		return sources.NewHTTPSource(cfg.DataBaseURL, cfg.HTTPRetryMax, cfg.FetchTimeout, log), nil
	}
	return nil, fmt.Errorf("unknown data_source %q", cfg.DataSource)
}

func NewHolidays(cfg *config.Config) calendar.Holidays {
	extra := holiday.ParseTable(cfg.ExtraHolidays)
	if cfg.Holidays == "jp" {
		return holiday.NewJapan(extra)
	}
	return extra
}

// Modes turns the configured modes into service modes in name order.
func Modes(cfg *config.Config) ([]service.Mode, error) {
	out := make([]service.Mode, 0, len(cfg.Modes))
	for _, name := range cfg.ModeNames() {
		mc := cfg.Modes[name]
		m := service.Mode{
			Name: name,
			Files: sources.Files{
				Current:     mc.Current,
				Previous:    mc.Previous,
				History:     mc.History,
				Events:      mc.Events,
				LastUpdated: mc.LastUpdated,
			},
		}
		if len(mc.Thresholds) > 0 {
			c, err := demand.New(mc.Thresholds)
			if err != nil {
				return nil, fmt.Errorf("mode %s: %w", name, err)
			}
			m.Classifier = c
		}
		out = append(out, m)
	}
	return out, nil
}

// Handler builds the route table. /auth/ and /healthz stay public; the rest
// sits behind the JWT middleware when a secret is configured.
func (a *App) Handler() http.Handler {
	publicMux := http.NewServeMux()
	publicMux.HandleFunc("/auth/login", auth.LoginHandler(a.Config))
	publicMux.HandleFunc("/healthz", httpx.HealthHandler())

	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("/api/calendar", httpx.CalendarHandler(a.Dashboard))
	protectedMux.HandleFunc("/api/trend", httpx.TrendHandler(a.History))
	protectedMux.HandleFunc("/api/spikes", httpx.SpikesHandler(a.Dashboard))
	protectedMux.HandleFunc("/api/reload", httpx.ReloadHandler(a.Dashboard))
	protectedMux.HandleFunc("/sse/calendar", httpx.CalendarSSEHandler(a.Dashboard, a.Config.StreamInterval))
	protectedMux.HandleFunc("/ws/trend", httpx.TrendWSHandler(a.History))

	return auth.JWTMiddleware(publicMux, protectedMux, a.Config)
}
