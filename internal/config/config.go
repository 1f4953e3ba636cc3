// Package config loads service configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/pressroom/pkg/db"
)

// Config aggregates every tunable of the service. Values come from
// environment variables; defaults suit local development.
type Config struct {
	HTTP     HTTP
	Database db.Config
	Feed     Feed

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CORSAllowOrigins is a comma-separated list of allowed origins.
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
}

// HTTP configures the listener and request handling limits.
type HTTP struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"60s"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"90s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Feed configures feed fetching and the optional background refresh.
type Feed struct {
	// FetchTimeout bounds a single feed download; a hanging origin must
	// not pin an ingestion request forever.
	FetchTimeout time.Duration `env:"FEED_FETCH_TIMEOUT" envDefault:"20s"`

	// RefreshSchedule is a cron expression. Empty disables the scheduler.
	RefreshSchedule string `env:"FEED_REFRESH_SCHEDULE"`

	// RefreshURLs, RefreshAuthorID, and RefreshCategoryID feed the
	// scheduled re-ingestion run.
	RefreshURLs       []string `env:"FEED_REFRESH_URLS"`
	RefreshAuthorID   string   `env:"FEED_REFRESH_AUTHOR_ID"`
	RefreshCategoryID string   `env:"FEED_REFRESH_CATEGORY_ID"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
