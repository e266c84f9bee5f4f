package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Port the web server listens on
	Port string `env:"PORT" envDefault:"5250"`

	// LogLevel is parsed by logrus (debug, info, warn, error)
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// SiteContentPath points at the YAML file with marketing copy and credit packs
	SiteContentPath string `env:"SITE_CONTENT_PATH" envDefault:"config/site.yaml"`

	// API configuration for the remote PropTrackrr backend
	API struct {
		BaseURL string        `env:"API_BASE_URL" envDefault:"https://key-mate.onrender.com/api/"`
		Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	}

	// Session configuration
	Session struct {
		// Sqlite file holding session records
		DBPath string `env:"SESSION_DB_PATH" envDefault:"database/sessions.db"`

		CookieName   string `env:"SESSION_COOKIE" envDefault:"ptk_session"`
		CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"false"`

		// Sessions idle for longer than TTL are purged by the sweeper
		TTL time.Duration `env:"SESSION_TTL" envDefault:"720h"`

		// Cron spec for the sweeper
		SweepSpec string `env:"SESSION_SWEEP" envDefault:"@every 1h"`
	}

	// HTTP middleware configuration
	HTTP struct {
		CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:","`
		RateLimitRPS   float64  `env:"RATE_LIMIT_RPS" envDefault:"5"`
		RateLimitBurst int      `env:"RATE_LIMIT_BURST" envDefault:"20"`
	}

	// Telegram chat receiving Contact page messages. Disabled when empty.
	Telegram struct {
		BotToken string `env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `env:"TELEGRAM_CHAT_ID"`
	}

	Contact struct {
		QueueSize int `env:"CONTACT_QUEUE_SIZE" envDefault:"32"`
	}
}

// LoadConfig reads an optional .env file and parses the environment into a Config
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values env.Parse cannot check on its own
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid API_BASE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid API_BASE_URL: scheme must be http or https, got %q", u.Scheme)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %s", c.API.Timeout)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Session.TTL)
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE must not be empty")
	}
	if c.HTTP.RateLimitRPS <= 0 || c.HTTP.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive, got %.2f rps burst %d", c.HTTP.RateLimitRPS, c.HTTP.RateLimitBurst)
	}
	if c.Contact.QueueSize <= 0 {
		c.Contact.QueueSize = 32
	}
	return nil
}
