// Package config loads runtime settings from .env and the process environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Archive drivers.
const (
	ArchiveFS = "fs"
	ArchiveS3 = "s3"
)

// ErrMissingDatabaseURL is returned when CONGREGA_DATABASE_URL is required but unset.
var ErrMissingDatabaseURL = errors.New("CONGREGA_DATABASE_URL is not set")

// Config is the resolved runtime configuration.
type Config struct {
	DatabaseURL   string
	Addr          string
	Env           string
	CSRFKey       string
	AdminEmail    string
	AdminPassword string
	AuthRequired  bool
	CacheTTL      time.Duration

	ArchiveDriver      string
	ArchiveDir         string
	ArchiveS3Bucket    string
	ArchiveS3Region    string
	ArchiveS3Endpoint  string
	ArchiveS3PathStyle bool

	ResendKey        string
	ReportFrom       string
	ReportRecipients []string

	SlowRequestMs int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load reads .env (a missing file is fine) and then the environment.
// Variables already present in the environment win over .env entries.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("config_event", "event", "dotenv_unreadable", "error", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		DatabaseURL:   os.Getenv("CONGREGA_DATABASE_URL"),
		Addr:          envOrDefault("CONGREGA_ADDR", ":8080"),
		Env:           envOrDefault("CONGREGA_ENV", EnvDevelopment),
		CSRFKey:       os.Getenv("CONGREGA_CSRF_KEY"),
		AdminEmail:    envOrDefault("CONGREGA_ADMIN_EMAIL", "admin@congrega.local"),
		AdminPassword: os.Getenv("CONGREGA_ADMIN_PASSWORD"),
		AuthRequired:  envBool("CONGREGA_AUTH_REQUIRED", true),
		CacheTTL:      envDuration("CONGREGA_CACHE_TTL", 5*time.Minute),

		ArchiveDriver:      envOrDefault("CONGREGA_ARCHIVE_DRIVER", ArchiveFS),
		ArchiveDir:         envOrDefault("CONGREGA_ARCHIVE_DIR", "reports"),
		ArchiveS3Bucket:    os.Getenv("CONGREGA_ARCHIVE_S3_BUCKET"),
		ArchiveS3Region:    envOrDefault("CONGREGA_ARCHIVE_S3_REGION", "us-east-1"),
		ArchiveS3Endpoint:  os.Getenv("CONGREGA_ARCHIVE_S3_ENDPOINT"),
		ArchiveS3PathStyle: envBool("CONGREGA_ARCHIVE_S3_PATH_STYLE", false),

		ResendKey:        os.Getenv("CONGREGA_RESEND_KEY"),
		ReportFrom:       envOrDefault("CONGREGA_REPORT_FROM", "Congrega <relatorios@congrega.local>"),
		ReportRecipients: envList("CONGREGA_REPORT_RECIPIENTS"),

		SlowRequestMs: envInt("CONGREGA_SLOW_REQUEST_MS", 500),

		ReadTimeout:  envDuration("CONGREGA_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: envDuration("CONGREGA_WRITE_TIMEOUT", 30*time.Second),
	}
}

// IsProduction reports whether the app runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate checks settings that must be present before serving.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.IsProduction() && len(c.CSRFKey) < 32 {
		return errors.New("CONGREGA_CSRF_KEY must be at least 32 bytes in production")
	}
	switch c.ArchiveDriver {
	case ArchiveFS:
	case ArchiveS3:
		if c.ArchiveS3Bucket == "" {
			return errors.New("CONGREGA_ARCHIVE_S3_BUCKET is required for the s3 archive driver")
		}
	default:
		return fmt.Errorf("unknown CONGREGA_ARCHIVE_DRIVER %q", c.ArchiveDriver)
	}
	return nil
}

// NewLogger returns a JSON logger in production and a text logger otherwise.
func NewLogger(c Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if v := os.Getenv("CONGREGA_LOG_LEVEL"); strings.EqualFold(v, "debug") {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
