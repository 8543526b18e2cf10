package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Dispatcher struct {
	Interval       time.Duration
	PublishTimeout time.Duration
	MaxLateness    time.Duration
	Concurrency    int
}

type Config struct {
	Port              string
	SecretKey         string
	Timezone          string
	MediaDir          string
	CredentialBackend string
	CredentialRefresh string
	PostgresURI       string
	RedisURI          string
	Dispatcher        Dispatcher
	R2                R2
}

func LoadConfig() *Config {
	return &Config{
		Port:              getEnv("PORT", "3000"),
		SecretKey:         getEnv("SECRET_KEY", ""),
		Timezone:          getEnv("TIMEZONE", "UTC"),
		MediaDir:          getEnv("MEDIA_DIR", defaultMediaDir()),
		CredentialBackend: getEnv("CREDENTIAL_BACKEND", "env"),
		CredentialRefresh: getEnv("CREDENTIAL_REFRESH", "@every 00h10m00s"),
		PostgresURI:       getEnv("POSTGRES_URI", ""),
		RedisURI:          getEnv("REDIS_URI", ""),
		Dispatcher: Dispatcher{
			Interval:       getDuration("DISPATCH_INTERVAL", time.Minute),
			PublishTimeout: getDuration("PUBLISH_TIMEOUT", 30*time.Second),
			MaxLateness:    getDuration("MAX_LATENESS", 0),
			Concurrency:    getInt("PUBLISH_CONCURRENCY", 10),
		},
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
	}
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		slog.Info("unknown timezone, using UTC", "timezone", c.Timezone)
		return time.UTC
	}
	return loc
}

func (r R2) Enabled() bool {
	return r.AccountID != "" && r.AccessKey != "" && r.SecretKey != "" && r.BucketName != ""
}

func defaultMediaDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".socialpilot_media"
	}
	return filepath.Join(home, ".socialpilot_media")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Info("invalid duration, using default", "key", key, "value", value)
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		slog.Info("invalid integer, using default", "key", key, "value", value)
		return defaultValue
	}
	return n
}
