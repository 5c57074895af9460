package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures all tunables of the API process. Values come from the
// environment (and an optional .env file in development) with defaults that
// let the binary run locally against sqlite with no setup.
type Config struct {
	HTTPAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration

	RedisAddr     string
	RedisPassword string
	RedisGeoKey   string

	// RequestTTL: pending service requests older than this are expired by the
	// cleanup job.
	RequestTTL     time.Duration
	LocationPeriod time.Duration

	LogLevel string
}

func defaults() Config {
	return Config{
		HTTPAddr:        ":8080",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		DatabaseURL:     "roadassist.db",
		JWTTTL:          24 * time.Hour,
		RedisGeoKey:     "mechanics_geo",
		RequestTTL:      24 * time.Hour,
		LocationPeriod:  5 * time.Second,
		LogLevel:        "info",
	}
}

// Load reads configuration from the environment. JWT_SECRET is the only
// value with no usable default.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	var errs []error

	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setDuration(&cfg.ReadTimeout, "HTTP_READ_TIMEOUT", &errs)
	setDuration(&cfg.WriteTimeout, "HTTP_WRITE_TIMEOUT", &errs)
	setDuration(&cfg.IdleTimeout, "HTTP_IDLE_TIMEOUT", &errs)
	setDuration(&cfg.ShutdownTimeout, "HTTP_SHUTDOWN_TIMEOUT", &errs)

	setString(&cfg.DatabaseURL, "DATABASE_URL")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	setDuration(&cfg.JWTTTL, "JWT_TTL", &errs)

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	setString(&cfg.RedisGeoKey, "REDIS_GEO_KEY")

	setDuration(&cfg.RequestTTL, "REQUEST_TTL", &errs)
	setDuration(&cfg.LocationPeriod, "LOCATION_PERIOD", &errs)

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, fmt.Errorf("JWT_SECRET is empty"))
	}
	if cfg.RequestTTL <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TTL must be positive"))
	}

	return cfg, errors.Join(errs...)
}

func setString(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func setDuration(target *time.Duration, key string, errs *[]error) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// plain integers are taken as seconds
		if n, nerr := strconv.Atoi(v); nerr == nil {
			*target = time.Duration(n) * time.Second
			return
		}
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return
	}
	*target = d
}
