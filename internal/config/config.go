// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :3000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// MongoURI is the MongoDB connection string (e.g. mongodb://localhost:27017).
	MongoURI string `mapstructure:"MONGO_URI"`
	// MongoDB is the database name.
	MongoDB string `mapstructure:"MONGO_DB"`
	// RedisAddr is an optional Redis address; when set the rate limiter uses Redis instead of Mongo.
	RedisAddr string `mapstructure:"REDIS_ADDR"`
	// RedisPassword is the optional Redis password.
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	// JWTSecret is the shared HMAC secret used to sign access and refresh tokens.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// JWTAccessTTL is the access token lifetime (e.g. "15m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// JWTRefreshTTL is the refresh token lifetime (e.g. "168h"); must exceed JWTAccessTTL.
	JWTRefreshTTL string `mapstructure:"JWT_REFRESH_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// RateLimitWindow is the sliding window size (e.g. "10s").
	RateLimitWindow string `mapstructure:"RATE_LIMIT_WINDOW"`
	// RateLimitMax is the number of requests allowed per (IP, route) within the window.
	RateLimitMax int `mapstructure:"RATE_LIMIT_MAX"`
	// ConfirmationCodeTTL is the email-confirmation code lifetime (e.g. "1h3m").
	ConfirmationCodeTTL string `mapstructure:"CONFIRMATION_CODE_TTL"`
	// RecoveryCodeTTL is the password-recovery code lifetime (e.g. "1h").
	RecoveryCodeTTL string `mapstructure:"RECOVERY_CODE_TTL"`
	// MailAPIURL is the mail gateway endpoint; empty disables outbound mail (dev sender logs instead).
	MailAPIURL string `mapstructure:"MAIL_API_URL"`
	// MailAPIKey authenticates against the mail gateway.
	MailAPIKey string `mapstructure:"MAIL_API_KEY"`
	// MailSender is the From address on outbound mail.
	MailSender string `mapstructure:"MAIL_SENDER"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":3000")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "bloggerPlatform")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TTL", "168h") // 7d
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("RATE_LIMIT_WINDOW", "10s")
	v.SetDefault("RATE_LIMIT_MAX", 5)
	v.SetDefault("CONFIRMATION_CODE_TTL", "1h3m")
	v.SetDefault("RECOVERY_CODE_TTL", "1h")
	v.SetDefault("MAIL_API_URL", "")
	v.SetDefault("MAIL_API_KEY", "")
	v.SetDefault("MAIL_SENDER", "no-reply@blogger-platform.local")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if cfg.RateLimitMax <= 0 {
		return nil, errors.New("config: RATE_LIMIT_MAX must be positive")
	}
	if cfg.RefreshTTL() <= cfg.AccessTTL() {
		return nil, errors.New("config: JWT_REFRESH_TTL must exceed JWT_ACCESS_TTL")
	}

	return &cfg, nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// RefreshTTL parses JWTRefreshTTL as a time.Duration. Returns 168h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTRefreshTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// Window parses RateLimitWindow as a time.Duration. Returns 10s if unset or invalid.
func (c *Config) Window() time.Duration {
	d, err := time.ParseDuration(c.RateLimitWindow)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// ConfirmationTTL parses ConfirmationCodeTTL as a time.Duration. Returns 1h3m if unset or invalid.
func (c *Config) ConfirmationTTL() time.Duration {
	d, err := time.ParseDuration(c.ConfirmationCodeTTL)
	if err != nil || d <= 0 {
		return time.Hour + 3*time.Minute
	}
	return d
}

// RecoveryTTL parses RecoveryCodeTTL as a time.Duration. Returns 1h if unset or invalid.
func (c *Config) RecoveryTTL() time.Duration {
	d, err := time.ParseDuration(c.RecoveryCodeTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}
