package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string
	SeedFile    string // YAML catalog loaded into an empty database

	// Admin panel
	AdminPassword string   // Shared secret for the moderation panel
	AdminEmails   []string // OIDC identities allowed into the panel

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// Shared storage for sessions and the rate limiter; in-memory when empty
	RedisURL string

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Rate limiting
	RateLimitPerMinute int

	// OIDC
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Email
	SMTPEnabled     bool
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
	SMTPFrom        string
	SMTPFromName    string
	SMTPTLS         string // "none", "tls" or "starttls"
	ModeratorEmails []string

	// Link health checks
	HealthCheckInterval time.Duration // 0 disables the background checker
	HealthCheckMaxAge   time.Duration

	// Site Branding
	SiteTitle   string
	SiteTagline string
	SiteFooter  string
}

// DefaultSessionSecret is the development fallback for SESSION_SECRET.
const DefaultSessionSecret = "change-me-in-production-min-32-chars"

// MinAdminPasswordLength is the shortest ADMIN_PASSWORD accepted outside development.
const MinAdminPasswordLength = 8

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/apiexplorer?sslmode=disable"),
		SeedFile:    getEnv("SEED_FILE", "catalog.yaml"),

		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminEmails:   splitList(getEnv("ADMIN_EMAILS", "")),
		SessionSecret: getEnv("SESSION_SECRET", DefaultSessionSecret),
		RedisURL:      getEnv("REDIS_URL", ""),
		CORSOrigins:   getEnv("CORS_ORIGINS", ""),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),

		SMTPEnabled:     getEnv("SMTP_ENABLED", "") != "",
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnvInt("SMTP_PORT", 587),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:        getEnv("SMTP_FROM", ""),
		SMTPFromName:    getEnv("SMTP_FROM_NAME", "API Explorer"),
		SMTPTLS:         getEnv("SMTP_TLS", "starttls"),
		ModeratorEmails: splitList(getEnv("MODERATOR_EMAILS", "")),

		HealthCheckInterval: getEnvDuration("HEALTH_CHECK_INTERVAL", 0),
		HealthCheckMaxAge:   getEnvDuration("HEALTH_CHECK_MAX_AGE", 24*time.Hour),

		SiteTitle:   getEnv("SITE_TITLE", "Public API Explorer"),
		SiteTagline: getEnv("SITE_TAGLINE", "Community-curated public APIs"),
		SiteFooter:  getEnv("SITE_FOOTER", "Public API Explorer - vote on the APIs that work"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}

// splitList splits a comma-separated value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsAdminPanelEnabled returns true if the shared admin secret is configured.
func (c *Config) IsAdminPanelEnabled() bool {
	return c.AdminPassword != ""
}

// IsOIDCEnabled returns true if OIDC admin login is configured.
func (c *Config) IsOIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

// IsRedisEnabled returns true if a Redis URL is configured.
func (c *Config) IsRedisEnabled() bool {
	return c.RedisURL != ""
}

// IsEmailEnabled returns true if SMTP is configured well enough to send mail.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPEnabled && c.SMTPHost != "" && c.SMTPFrom != ""
}

// IsAdminEmail returns true if email may sign in to the admin panel via OIDC.
func (c *Config) IsAdminEmail(email string) bool {
	if email == "" {
		return false
	}
	for _, e := range c.AdminEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

// Validate rejects settings that are unsafe outside development: a short
// admin password and the default session secret.
func (c *Config) Validate() error {
	if c.IsDev() {
		return nil
	}
	var errs []error
	if c.AdminPassword != "" && utf8.RuneCountInString(c.AdminPassword) < MinAdminPasswordLength {
		errs = append(errs, fmt.Errorf("ADMIN_PASSWORD must be at least %d characters", MinAdminPasswordLength))
	}
	if c.SessionSecret == "" || c.SessionSecret == DefaultSessionSecret {
		errs = append(errs, errors.New("SESSION_SECRET must be set"))
	}
	return errors.Join(errs...)
}
