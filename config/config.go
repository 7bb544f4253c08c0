package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DBDriver string
	DBDSN    string

	JWTSecret     string
	SessionTTL    time.Duration
	CookieSecure  bool
	CookieDomain  string
	CORSOrigins   []string
	ScopeCacheTTL time.Duration

	// TrustedProxies may set X-Forwarded-For. Empty means the peer address is always the client.
	TrustedProxies []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Timezone          string
	StrictTransitions bool

	AuthRateLimit  int
	AuthRateWindow time.Duration
	APIRateLimit   int
	APIRateWindow  time.Duration
}

// Load reads an optional .env file and then the process environment. Environment values win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:              v.GetString("PORT"),
		GinMode:           v.GetString("GIN_MODE"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:             v.GetString("DB_DSN"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		SessionTTL:        v.GetDuration("SESSION_TTL"),
		CookieSecure:      v.GetBool("COOKIE_SECURE"),
		CookieDomain:      v.GetString("COOKIE_DOMAIN"),
		CORSOrigins:       splitList(v.GetString("CORS_ORIGINS")),
		TrustedProxies:    splitList(v.GetString("TRUSTED_PROXIES")),
		ScopeCacheTTL:     v.GetDuration("SCOPE_CACHE_TTL"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		Timezone:          v.GetString("TIMEZONE"),
		StrictTransitions: v.GetBool("ORDER_STRICT_TRANSITIONS"),
		AuthRateLimit:     v.GetInt("RATE_LIMIT_AUTH"),
		AuthRateWindow:    v.GetDuration("RATE_LIMIT_AUTH_WINDOW"),
		APIRateLimit:      v.GetInt("RATE_LIMIT_API"),
		APIRateWindow:     v.GetDuration("RATE_LIMIT_API_WINDOW"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "restaurant.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SESSION_TTL", 7*24*time.Hour)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("SCOPE_CACHE_TTL", 30*time.Second)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("ORDER_STRICT_TRANSITIONS", false)
	v.SetDefault("RATE_LIMIT_AUTH", 5)
	v.SetDefault("RATE_LIMIT_AUTH_WINDOW", 15*time.Minute)
	v.SetDefault("RATE_LIMIT_API", 100)
	v.SetDefault("RATE_LIMIT_API_WINDOW", time.Minute)
}

// Validate checks the settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	if c.GinMode == "release" && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in release mode")
	}
	if c.JWTSecret == "" {
		c.JWTSecret = "dev-only-session-secret"
	}
	switch c.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AuthRateLimit <= 0 || c.APIRateLimit <= 0 {
		return errors.New("rate limits must be positive")
	}
	if c.AuthRateWindow <= 0 || c.APIRateWindow <= 0 {
		return errors.New("rate limit windows must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	return nil
}

// Location resolves the configured default zone for calendar-day queries.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
