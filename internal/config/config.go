// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :3001).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN. Empty means the in-memory stores are used (dev/test only).
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or a path to it.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or a path to it.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTIssuer is the iss claim set on issued tokens and required on verify.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim set on issued tokens and required on verify.
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// JWTAccessTTL is the access token lifetime (e.g. "24h").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// JWTRefreshTTL is the refresh token lifetime (e.g. "720h" = 30d). Sessions expire with it.
	JWTRefreshTTL string `mapstructure:"JWT_REFRESH_TTL"`
	// BcryptCost is the bcrypt cost factor (4-31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// StoreTimeout bounds every repository call (e.g. "5s"). Timeouts surface as a storage fault.
	StoreTimeout string `mapstructure:"STORE_TIMEOUT"`

	// TravelAPIURL is the base URL of the external trip-search API.
	TravelAPIURL string `mapstructure:"TRAVEL_API_URL"`
	// TravelAPIUsername authenticates against the trip-search API token endpoint.
	TravelAPIUsername string `mapstructure:"TRAVEL_API_USERNAME"`
	// TravelAPIPassword authenticates against the trip-search API token endpoint.
	TravelAPIPassword string `mapstructure:"TRAVEL_API_PASSWORD"`

	// FrontendURL is the allowed CORS origin for the web client.
	FrontendURL string `mapstructure:"FRONTEND_URL"`
	// LoginRateLimitMax is the max login attempts per IP per window.
	LoginRateLimitMax int `mapstructure:"LOGIN_RATE_LIMIT_MAX"`
	// LoginRateLimitWindowSeconds is the login rate-limit window in seconds.
	LoginRateLimitWindowSeconds int `mapstructure:"LOGIN_RATE_LIMIT_WINDOW_SECONDS"`

	// SentryDSN enables Sentry error reporting when set.
	SentryDSN string `mapstructure:"SENTRY_DSN"`
	// OTLPEndpoint enables OpenTelemetry export when set (e.g. localhost:4317).
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the
// environment via Viper. Missing .env is ignored (e.g. in CI); env vars
// override .env values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":3001")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_ISSUER", "yookye-auth")
	v.SetDefault("JWT_AUDIENCE", "yookye-api")
	v.SetDefault("JWT_ACCESS_TTL", "24h")
	v.SetDefault("JWT_REFRESH_TTL", "720h") // 30d
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("TRAVEL_API_URL", "")
	v.SetDefault("TRAVEL_API_USERNAME", "")
	v.SetDefault("TRAVEL_API_PASSWORD", "")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("LOGIN_RATE_LIMIT_MAX", 10)
	v.SetDefault("LOGIN_RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("SENTRY_DSN", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "development")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	if cfg.Env == "production" && (cfg.JWTPrivateKey == "" || cfg.JWTPublicKey == "") {
		return nil, errors.New("config: JWT_PRIVATE_KEY and JWT_PUBLIC_KEY must be set when APP_ENV=production")
	}

	return &cfg, nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// RefreshTTL parses JWTRefreshTTL as a time.Duration. Returns 720h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTRefreshTTL)
	if err != nil || d <= 0 {
		return 720 * time.Hour
	}
	return d
}

// StoreCallTimeout parses StoreTimeout as a time.Duration. Returns 5s if unset or invalid.
func (c *Config) StoreCallTimeout() time.Duration {
	d, err := time.ParseDuration(c.StoreTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// LoginRateLimitWindow returns the login rate-limit window. Returns 60s if unset or invalid.
func (c *Config) LoginRateLimitWindow() time.Duration {
	if c.LoginRateLimitWindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.LoginRateLimitWindowSeconds) * time.Second
}
