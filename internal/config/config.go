// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the blog's settings from TIMORA_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name below.
const EnvPrefix = "TIMORA_"

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// knownWeakSecrets contains example secrets that must never reach a deployment.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"timora-secret-timora-secret-1234",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath          string `env:"DB_PATH" envDefault:"./data/timora.db"`
	SessionSecret   string `env:"SESSION_SECRET,required"`
	ServerHost      string `env:"SERVER_HOST" envDefault:"localhost"`
	ServerPort      int    `env:"SERVER_PORT" envDefault:"8080"`
	Env             string `env:"ENV" envDefault:"development"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	UploadsDir      string `env:"UPLOADS_DIR" envDefault:"./uploads"`
	MaxUploadMB     int64  `env:"MAX_UPLOAD_MB" envDefault:"10"`
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"tr"`
	SiteURL         string `env:"SITE_URL"` // public base URL for the sitemap; derived per request when empty

	// Cache configuration; Redis is used when RedisURL is set
	RedisURL     string `env:"REDIS_URL"`
	CachePrefix  string `env:"CACHE_PREFIX" envDefault:"timora:"`
	CacheTTL     int    `env:"CACHE_TTL" envDefault:"3600"` // seconds
	CacheMaxSize int    `env:"CACHE_MAX_SIZE" envDefault:"1000"`

	// Cron spec for removing unreferenced uploads (robfig/cron syntax)
	CleanupSchedule string `env:"CLEANUP_SCHEDULE" envDefault:"@hourly"`

	DoSeed bool `env:"DO_SEED" envDefault:"false"` // seed a demo author and posts
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheTTLDuration returns CacheTTL as a time.Duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// MaxUploadBytes returns the multipart body limit for image uploads.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to info.
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

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Env != "development" && cfg.Env != "production" {
		return nil, fmt.Errorf("%sENV must be development or production, got %q", EnvPrefix, cfg.Env)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("%sSESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			EnvPrefix, MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("%sSESSION_SECRET is a known example value and must not be used", EnvPrefix)
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn(EnvPrefix + "SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("%sMAX_UPLOAD_MB must be positive, got %d", EnvPrefix, cfg.MaxUploadMB)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret mixes at least 3 character classes.
func hasMinimumEntropy(s string) bool {
	classes := []string{
		"abcdefghijklmnopqrstuvwxyz",
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		"0123456789",
		"!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\",
	}
	n := 0
	for _, class := range classes {
		if strings.ContainsAny(s, class) {
			n++
		}
	}
	return n >= 3
}
