// Package config resolves runtime settings from the environment (and an optional
// .env file). Command-line flags layered on top by the CLI take precedence.
package config

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable of the CLI and HTTP server.
type Config struct {
	LogLevel       string
	Port           string
	Length         int
	DBPath         string
	Workers        int
	JWTSecret      string
	JWTExpires     time.Duration
	CookieName     string
	ClientOrigin   string
	DailySalt      string
	RequestTimeout time.Duration
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnv("PORT", "5175"),
		Length:         envInt("NERDLE_LENGTH", 8),
		DBPath:         getEnv("NERDLE_DB", "./data/nerdle.db"),
		Workers:        envInt("NERDLE_WORKERS", runtime.NumCPU()),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpires:     time.Duration(envInt("JWT_EXPIRES_HOURS", 24)) * time.Hour,
		CookieName:     getEnv("COOKIE_NAME", "nerdle_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 2*time.Minute),
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses k as a positive integer, falling back to def.
func envInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil && n > 0 {
		return n
	}
	return def
}

// envDuration accepts Go durations ("90s") or plain seconds ("90").
func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
