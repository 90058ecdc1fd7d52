// Package config collects every runtime knob in one place. Values are read
// from the environment (optionally seeded from a .env file) once at startup
// and passed down as an immutable value.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the resolved service configuration.
type Config struct {
	Addr  string
	PGDSN string

	JWTSecret string
	JWTTTL    time.Duration

	RateBurst    int
	RatePerSec   int
	MaxBodyBytes int64

	SMTP SMTPConfig

	MigrationsDir string
	SeedsDir      string

	// Superuser bootstrap credentials, consumed by the migrate binary.
	SuperuserEmail    string
	SuperuserPassword string
}

// SMTPConfig describes the outbound mail transport. Mail is disabled when
// Host is empty.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether outbound mail should be attempted.
func (s SMTPConfig) Enabled() bool { return s.Host != "" }

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:          getenv("CPMS_ADDR", ":8080"),
		PGDSN:         os.Getenv("CPMS_PG_DSN"),
		JWTSecret:     os.Getenv("CPMS_JWT_SECRET"),
		MigrationsDir: getenv("CPMS_MIGRATIONS_DIR", "migrations"),
		SeedsDir:      getenv("CPMS_SEEDS_DIR", "seeds"),

		SuperuserEmail:    os.Getenv("CPMS_SUPERUSER_EMAIL"),
		SuperuserPassword: os.Getenv("CPMS_SUPERUSER_PASSWORD"),
		SMTP: SMTPConfig{
			Host:     os.Getenv("CPMS_SMTP_HOST"),
			Username: os.Getenv("CPMS_SMTP_USER"),
			Password: os.Getenv("CPMS_SMTP_PASS"),
			From:     getenv("CPMS_SMTP_FROM", "no-reply@cpms.local"),
		},
	}

	var err error
	if cfg.JWTTTL, err = getduration("CPMS_JWT_TTL", 12*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.RateBurst, err = getint("CPMS_RATE_BURST", 20); err != nil {
		return Config{}, err
	}
	if cfg.RatePerSec, err = getint("CPMS_RATE_PER_SEC", 10); err != nil {
		return Config{}, err
	}
	if cfg.SMTP.Port, err = getint("CPMS_SMTP_PORT", 587); err != nil {
		return Config{}, err
	}
	maxBody, err := getint("CPMS_MAX_BODY_BYTES", 1<<20)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxBodyBytes = int64(maxBody)

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getduration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
