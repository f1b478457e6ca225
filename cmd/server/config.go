package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// serverEnv is the process configuration read from the environment
type serverEnv struct {
	Port                int
	LogLevel            slog.Level
	StorageType         string
	RedisURL            string
	SessionTTL          time.Duration
	SweepInterval       time.Duration
	CorpusPath          string
	TiersPath           string
	AuthSessionDuration time.Duration
	CORSOrigin          string
	RandomSeed          uint64
}

func loadEnv() (serverEnv, error) {
	env := serverEnv{
		StorageType: os.Getenv("STORAGE_TYPE"),
		RedisURL:    os.Getenv("REDIS_URL"),
		CorpusPath:  os.Getenv("CORPUS_PATH"),
		TiersPath:   os.Getenv("TIERS_PATH"),
		CORSOrigin:  os.Getenv("CORS_ORIGIN"),
	}

	var err error
	if env.Port, err = intEnv("PORT", 8080); err != nil {
		return env, err
	}
	if env.SessionTTL, err = durationEnv("SESSION_TTL", 2*time.Hour); err != nil {
		return env, err
	}
	if env.SweepInterval, err = durationEnv("SWEEP_INTERVAL", 5*time.Minute); err != nil {
		return env, err
	}
	if env.SweepInterval <= 0 {
		return env, fmt.Errorf("SWEEP_INTERVAL must be positive")
	}
	if env.AuthSessionDuration, err = durationEnv("AUTH_SESSION_DURATION", 7*24*time.Hour); err != nil {
		return env, err
	}
	if v := os.Getenv("RANDOM_SEED"); v != "" {
		if env.RandomSeed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return env, fmt.Errorf("RANDOM_SEED: %w", err)
		}
	}
	if err := env.LogLevel.UnmarshalText([]byte(strings.ToUpper(envOr("LOG_LEVEL", "info")))); err != nil {
		return env, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return env, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
