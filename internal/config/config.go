// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads folio's runtime configuration from FOLIO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Environments folio knows how to run in.
var knownEnvs = []string{"development", "production", "test"}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env        string `env:"FOLIO_ENV" envDefault:"development"`
	ServerHost string `env:"FOLIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"FOLIO_SERVER_PORT" envDefault:"5000"`
	DBPath     string `env:"FOLIO_DB_PATH" envDefault:"./data/folio.db"`
	LogLevel   string `env:"FOLIO_LOG_LEVEL" envDefault:"info"`

	SessionSecret string        `env:"FOLIO_SESSION_SECRET,required"`
	SessionTTL    time.Duration `env:"FOLIO_SESSION_TTL" envDefault:"24h"`

	UploadsDir    string `env:"FOLIO_UPLOADS_DIR" envDefault:"./uploads"`
	MaxUploadSize int64  `env:"FOLIO_MAX_UPLOAD_SIZE" envDefault:"5242880"` // bytes

	CORSOrigins []string `env:"FOLIO_CORS_ORIGINS" envDefault:"http://localhost:3000,http://localhost:5173" envSeparator:","`

	// Public front end, used for robots.txt and /sitemap.xml.
	SiteURL string `env:"FOLIO_SITE_URL"`

	// Rate limiting
	RateLimitRPS          float64  `env:"FOLIO_RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst        int      `env:"FOLIO_RATE_LIMIT_BURST" envDefault:"100"`
	ContactRateLimitRPS   float64  `env:"FOLIO_CONTACT_RATE_LIMIT_RPS" envDefault:"0.0167"` // about one per minute
	ContactRateLimitBurst int      `env:"FOLIO_CONTACT_RATE_LIMIT_BURST" envDefault:"3"`
	TrustedProxies        []string `env:"FOLIO_TRUSTED_PROXIES" envSeparator:","`

	// Cache
	RedisURL     string        `env:"FOLIO_REDIS_URL"`
	CachePrefix  string        `env:"FOLIO_CACHE_PREFIX" envDefault:"folio:"`
	ListCacheTTL time.Duration `env:"FOLIO_LIST_CACHE_TTL" envDefault:"60s"`
	CacheMaxSize int           `env:"FOLIO_CACHE_MAX_SIZE" envDefault:"1000"`

	// Outbound mail. An empty SMTPHost logs messages instead of sending them.
	SMTPHost     string `env:"FOLIO_SMTP_HOST"`
	SMTPPort     int    `env:"FOLIO_SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"FOLIO_SMTP_USERNAME"`
	SMTPPassword string `env:"FOLIO_SMTP_PASSWORD"`
	SMTPFrom     string `env:"FOLIO_SMTP_FROM" envDefault:"folio@localhost"`
	MailWorkers  int    `env:"FOLIO_MAIL_WORKERS" envDefault:"2"`
	MailQueue    int    `env:"FOLIO_MAIL_QUEUE" envDefault:"100"`

	// Admin account created on first start or by `folio seed`.
	AdminName     string `env:"FOLIO_ADMIN_NAME" envDefault:"Administrator"`
	AdminEmail    string `env:"FOLIO_ADMIN_EMAIL"`
	AdminPassword string `env:"FOLIO_ADMIN_PASSWORD"`

	GeoIPDBPath string `env:"FOLIO_GEOIP_DB_PATH"` // GeoLite2-Country.mmdb
	ProfilePath string `env:"FOLIO_PROFILE_PATH"`  // overrides the embedded profile.json

	EventRetention time.Duration `env:"FOLIO_EVENT_RETENTION" envDefault:"720h"`
	SeedOnStart    bool          `env:"FOLIO_SEED_ON_START" envDefault:"false"`

	// Demo mode wipes the database and uploads at startup once the reset
	// interval has passed, then seeds the sample content.
	DemoMode          bool          `env:"FOLIO_DEMO_MODE" envDefault:"false"`
	DemoResetInterval time.Duration `env:"FOLIO_DEMO_RESET_INTERVAL" envDefault:"24h"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if the application is running in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// SMTPEnabled returns true if outbound mail goes to a real server.
func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("FOLIO_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if len(c.SessionSecret) < MinSessionSecretLength {
		errs = append(errs, fmt.Errorf("FOLIO_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret)))
	}
	if slices.Contains(knownWeakSecrets, c.SessionSecret) {
		errs = append(errs, errors.New("FOLIO_SESSION_SECRET is a known default value and must not be used"))
	}
	if !slices.Contains(knownEnvs, c.Env) {
		errs = append(errs, fmt.Errorf("FOLIO_ENV must be one of %s, got %q", strings.Join(knownEnvs, ", "), c.Env))
	}
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("FOLIO_SERVER_PORT out of range: %d", c.ServerPort))
	}
	if c.MaxUploadSize <= 0 {
		errs = append(errs, errors.New("FOLIO_MAX_UPLOAD_SIZE must be positive"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("FOLIO_RATE_LIMIT_RPS and FOLIO_RATE_LIMIT_BURST must be positive"))
	}
	if c.ContactRateLimitRPS <= 0 || c.ContactRateLimitBurst <= 0 {
		errs = append(errs, errors.New("FOLIO_CONTACT_RATE_LIMIT_RPS and FOLIO_CONTACT_RATE_LIMIT_BURST must be positive"))
	}
	if c.ListCacheTTL < 0 {
		errs = append(errs, errors.New("FOLIO_LIST_CACHE_TTL must not be negative"))
	}
	if c.MailWorkers < 1 || c.MailQueue < 1 {
		errs = append(errs, errors.New("FOLIO_MAIL_WORKERS and FOLIO_MAIL_QUEUE must be positive"))
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("FOLIO_ADMIN_EMAIL and FOLIO_ADMIN_PASSWORD must be set together"))
	}
	if c.DemoMode && c.DemoResetInterval <= 0 {
		errs = append(errs, errors.New("FOLIO_DEMO_RESET_INTERVAL must be positive"))
	}
	if c.SiteURL != "" {
		if u, err := url.Parse(c.SiteURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("FOLIO_SITE_URL must be an absolute http(s) URL, got %q", c.SiteURL))
		}
	}

	return errors.Join(errs...)
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
