package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	PostgresURI string
	RedisURI    string
	MongoURI    string // optional; prediction history is disabled when empty
	MongoDB     string

	Port           string
	Host           string   // Raw HOST env (e.g. https://api.fittrack.app)
	AllowedHost    string   // Hostname only for strict host check (production only)
	AllowedOrigins []string // CORS origins from ALLOWED_ORIGINS or FRONTEND_URL
	Environment    string   // ENV: production, development, etc.

	SessionSecret string
	SessionCookie string
	SessionTTL    time.Duration

	ModelPath string
	ModelURL  string // when set, predictions go to a remote inference endpoint

	Timezone        *time.Location // defines "today" for nutrition and progress logs
	SummaryCacheTTL time.Duration

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	LogLevel slog.Level
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))
	host := getEnv("HOST", "http://localhost:8080")

	// AllowedHost is only set in production; host check is skipped in development
	var allowedHost string
	if env == "production" {
		allowedHost = hostname(host)
	}

	allowedOrigins := parseList(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{getEnv("FRONTEND_URL", "http://localhost:8080")}
	}

	return &Config{
		PostgresURI:         getEnv("POSTGRES_URI", "postgres://localhost:5432/fittrack?sslmode=disable"),
		RedisURI:            getEnv("REDIS_URI", "redis://localhost:6379/0"),
		MongoURI:            getEnv("MONGODB_URI", ""),
		MongoDB:             getEnv("MONGODB_DATABASE", "fittrack"),
		Port:                getEnv("PORT", "8080"),
		Host:                host,
		AllowedHost:         allowedHost,
		AllowedOrigins:      allowedOrigins,
		Environment:         env,
		SessionSecret:       getEnv("SESSION_SECRET", "dev-session-secret-change-in-production"),
		SessionCookie:       getEnv("SESSION_COOKIE", "fittrack_session"),
		SessionTTL:          getDuration("SESSION_TTL", 7*24*time.Hour),
		ModelPath:           getEnv("MODEL_PATH", "models/weight_prediction_model.json"),
		ModelURL:            getEnv("MODEL_URL", ""),
		Timezone:            getLocation("TIMEZONE"),
		SummaryCacheTTL:     getDuration("SUMMARY_CACHE_TTL", 5*time.Minute),
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		LogLevel:            getLogLevel("LOG_LEVEL"),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// CloudinaryEnabled reports whether all upload credentials are present.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// hostname strips scheme, path and port from a URL-ish HOST value.
func hostname(host string) string {
	for _, prefix := range []string{"https://", "http://"} {
		host = strings.TrimPrefix(host, prefix)
	}
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return strings.TrimSpace(host)
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration accepts Go durations ("90m") or plain seconds ("3600").
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	slog.Warn("invalid duration, using default", slog.String("key", key), slog.String("value", value))
	return defaultValue
}

func getLocation(key string) *time.Location {
	name := os.Getenv(key)
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("unknown timezone, using local", slog.String("key", key), slog.String("value", name))
		return time.Local
	}
	return loc
}

func getLogLevel(key string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv(key, "info"))); err != nil {
		return slog.LevelInfo
	}
	return level
}
