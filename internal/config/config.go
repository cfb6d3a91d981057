package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the runtime configuration, loaded from the environment.
type Config struct {
	BindAddr      string
	Port          string
	EpisodeLimit  int
	CacheLifetime time.Duration
	DBPath        string
	// SkipActiveItems keeps the observed upstream polarity: entries arriving
	// with isActive=true are excluded from the feed. Set to false to exclude
	// isActive=false entries instead, should the upstream semantics turn out
	// to match the field name after all.
	SkipActiveItems bool
	RateLimitRPS    float64
	RateLimitBurst  int
}

// FromEnv builds a Config from environment variables, falling back to the
// defaults the service has always shipped with.
func FromEnv() (Config, error) {
	cfg := Config{
		BindAddr:        getenv("BIND_ADDR", "127.0.0.1"),
		Port:            getenv("PORT", "3000"),
		DBPath:          getenv("DB_PATH", "data.sqlite"),
		SkipActiveItems: true,
	}

	limit, err := getenvInt("EPISODE_LIMIT", 20)
	if err != nil {
		return Config{}, err
	}
	if limit <= 0 {
		return Config{}, fmt.Errorf("EPISODE_LIMIT must be positive, got %d", limit)
	}
	cfg.EpisodeLimit = limit

	lifetime, err := getenvInt("CACHE_LIFETIME", 600)
	if err != nil {
		return Config{}, err
	}
	if lifetime < 0 {
		return Config{}, fmt.Errorf("CACHE_LIFETIME must not be negative, got %d", lifetime)
	}
	cfg.CacheLifetime = time.Duration(lifetime) * time.Second

	if v := os.Getenv("SKIP_ACTIVE_ITEMS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse SKIP_ACTIVE_ITEMS: %w", err)
		}
		cfg.SkipActiveItems = b
	}

	rps, err := getenvFloat("RATE_LIMIT_RPS", 5)
	if err != nil {
		return Config{}, err
	}
	cfg.RateLimitRPS = rps

	burst, err := getenvInt("RATE_LIMIT_BURST", 10)
	if err != nil {
		return Config{}, err
	}
	cfg.RateLimitBurst = burst

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}
