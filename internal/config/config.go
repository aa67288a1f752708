package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/demand"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/logging"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/spike"
)

// ModeConfig names the documents of one pricing mode. Thresholds overrides
// the default demand tier table when set.
type ModeConfig struct {
	Current     string        `mapstructure:"current"`
	Previous    string        `mapstructure:"previous"`
	History     string        `mapstructure:"history"`
	Events      string        `mapstructure:"events"`
	LastUpdated string        `mapstructure:"last_updated"`
	Thresholds  []demand.Tier `mapstructure:"thresholds"`
}

type Config struct {
	ListenAddr  string
	TLSCertFile string
	TLSKeyFile  string

	DataSource   string
	DataDir      string
	DataBaseURL  string
	FetchTimeout time.Duration
	HTTPRetryMax int

	CacheTTL       time.Duration
	StreamInterval time.Duration
	Location       *time.Location
	MaxMonthOffset int

	Holidays      string
	ExtraHolidays map[string]string

	LogLevel string

	JWTSecret   string
	JWTUser     string
	JWTPassword string
	TokenTTL    time.Duration

	Spike       spike.Thresholds
	Modes       map[string]ModeConfig
	DefaultMode string
}

// AuthEnabled reports whether protected routes require a token.
func (c *Config) AuthEnabled() bool { return c.JWTSecret != "" }

// ModeNames returns the configured modes in sorted order.
func (c *Config) ModeNames() []string {
	names := make([]string, 0, len(c.Modes))
	for n := range c.Modes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

const (
	sharedEvents      = "event_data.json"
	sharedLastUpdated = "last_updated.json"
)

func defaultModes() map[string]ModeConfig {
	return map[string]ModeConfig{
		"1p": {
			Current:     "vacancy_price_cache.json",
			Previous:    "vacancy_price_cache_previous.json",
			History:     "historical_data.json",
			Events:      sharedEvents,
			LastUpdated: sharedLastUpdated,
		},
		"2p": {
			Current:     "vacancy_price_cache_2p.json",
			Previous:    "vacancy_price_cache_2p_previous.json",
			History:     "historical_data_2p.json",
			Events:      sharedEvents,
			LastUpdated: sharedLastUpdated,
		},
	}
}

// Load reads the file named by $VACANCY_CONFIG, or config.* from the usual
// locations, then applies VACANCY_* environment overrides.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("VACANCY_CONFIG"))
}

// LoadFile is Load with an explicit file. An empty path falls back to the
// conventional locations. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/vacancy-dashboard")
	}

	v.SetEnvPrefix("vacancy")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		logging.Log.Debugf("no config file found, using defaults + env vars: %v", err)
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("data_source", "dir")
	v.SetDefault("data_dir", ".")
	v.SetDefault("data_base_url", "")
	v.SetDefault("fetch_timeout", "10s")
	v.SetDefault("http_retry_max", 2)
	v.SetDefault("cache_ttl", "5m")
	v.SetDefault("stream_interval", "30s")
	v.SetDefault("timezone", "Asia/Tokyo")
	v.SetDefault("max_month_offset", 12)
	v.SetDefault("holidays", "jp")
	v.SetDefault("log_level", "info")
	v.SetDefault("auth_user", "demo")
	v.SetDefault("auth_pass", "demo123")
	v.SetDefault("token_ttl", "1h")
	v.SetDefault("spike.price_up_pct", spike.DefaultThresholds.PriceUpPct)
	v.SetDefault("spike.vacancy_down_pct", spike.DefaultThresholds.VacancyDownPct)
	v.SetDefault("default_mode", "1p")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ListenAddr:     v.GetString("listen_addr"),
		TLSCertFile:    v.GetString("tls_cert_file"),
		TLSKeyFile:     v.GetString("tls_key_file"),
		DataSource:     strings.ToLower(v.GetString("data_source")),
		DataDir:        v.GetString("data_dir"),
		DataBaseURL:    v.GetString("data_base_url"),
		HTTPRetryMax:   v.GetInt("http_retry_max"),
		MaxMonthOffset: v.GetInt("max_month_offset"),
		Holidays:       strings.ToLower(v.GetString("holidays")),
		ExtraHolidays:  v.GetStringMapString("extra_holidays"),
		LogLevel:       v.GetString("log_level"),
		JWTSecret:      v.GetString("jwt_secret"),
		JWTUser:        v.GetString("auth_user"),
		JWTPassword:    v.GetString("auth_pass"),
		Spike: spike.Thresholds{
			PriceUpPct:     v.GetFloat64("spike.price_up_pct"),
			VacancyDownPct: v.GetFloat64("spike.vacancy_down_pct"),
		},
		DefaultMode: v.GetString("default_mode"),
	}

	for _, d := range []struct {
		key string
		dst *time.Duration
	}{
		{"fetch_timeout", &cfg.FetchTimeout},
		{"cache_ttl", &cfg.CacheTTL},
		{"stream_interval", &cfg.StreamInterval},
		{"token_ttl", &cfg.TokenTTL},
	} {
		dur, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("bad %s: %w", d.key, err)
		}
		*d.dst = dur
	}

	loc, err := time.LoadLocation(v.GetString("timezone"))
	if err != nil {
		return nil, fmt.Errorf("bad timezone: %w", err)
	}
	cfg.Location = loc

	modes, err := loadModes(v)
	if err != nil {
		return nil, err
	}
	cfg.Modes = modes

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadModes unmarshals the modes table. Viper does not merge nested maps with
// their defaults, so blank file names are filled from the built-in modes.
func loadModes(v *viper.Viper) (map[string]ModeConfig, error) {
	defaults := defaultModes()
	if !v.IsSet("modes") {
		return defaults, nil
	}
	var modes map[string]ModeConfig
	if err := v.UnmarshalKey("modes", &modes); err != nil {
		return nil, fmt.Errorf("bad modes: %w", err)
	}
	for name, m := range modes {
		def, ok := defaults[name]
		if !ok {
			def = ModeConfig{Events: sharedEvents, LastUpdated: sharedLastUpdated}
		}
		m.Current = orDefault(m.Current, def.Current)
		m.Previous = orDefault(m.Previous, def.Previous)
		m.History = orDefault(m.History, def.History)
		m.Events = orDefault(m.Events, def.Events)
		m.LastUpdated = orDefault(m.LastUpdated, def.LastUpdated)
		modes[name] = m
	}
	return modes, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (c *Config) validate() error {
	switch c.DataSource {
	case "dir":
	case "http":
		if c.DataBaseURL == "" {
			return errors.New("data_base_url is required when data_source is http")
		}
	default:
		return fmt.Errorf("unknown data_source %q", c.DataSource)
	}
	switch c.Holidays {
	case "jp", "none":
	default:
		return fmt.Errorf("unknown holidays %q", c.Holidays)
	}
	if c.MaxMonthOffset < 0 {
		return fmt.Errorf("max_month_offset must not be negative, got %d", c.MaxMonthOffset)
	}
	if c.StreamInterval <= 0 {
		return fmt.Errorf("stream_interval must be positive, got %s", c.StreamInterval)
	}
	if len(c.Modes) == 0 {
		return errors.New("no modes configured")
	}
	for name, m := range c.Modes {
		if m.Current == "" {
			return fmt.Errorf("mode %s: current document is required", name)
		}
		if len(m.Thresholds) > 0 {
			if _, err := demand.New(m.Thresholds); err != nil {
				return fmt.Errorf("mode %s: %w", name, err)
			}
		}
	}
	if _, ok := c.Modes[c.DefaultMode]; !ok {
		return fmt.Errorf("default_mode %q is not configured", c.DefaultMode)
	}
	return nil
}
