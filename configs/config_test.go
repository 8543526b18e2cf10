package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DISPATCH_INTERVAL", "")
	t.Setenv("PUBLISH_TIMEOUT", "")
	t.Setenv("PORT", "")

	cfg := LoadConfig()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, time.Minute, cfg.Dispatcher.Interval)
	assert.Equal(t, 30*time.Second, cfg.Dispatcher.PublishTimeout)
	assert.Equal(t, time.Duration(0), cfg.Dispatcher.MaxLateness)
	assert.Equal(t, 10, cfg.Dispatcher.Concurrency)
	assert.False(t, cfg.R2.Enabled())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DISPATCH_INTERVAL", "15s")
	t.Setenv("MAX_LATENESS", "2h")
	t.Setenv("PUBLISH_CONCURRENCY", "3")
	t.Setenv("TIMEZONE", "Europe/Berlin")

	cfg := LoadConfig()

	assert.Equal(t, 15*time.Second, cfg.Dispatcher.Interval)
	assert.Equal(t, 2*time.Hour, cfg.Dispatcher.MaxLateness)
	assert.Equal(t, 3, cfg.Dispatcher.Concurrency)
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DISPATCH_INTERVAL", "soon")
	t.Setenv("PUBLISH_CONCURRENCY", "-4")
	t.Setenv("TIMEZONE", "Mars/Olympus")

	cfg := LoadConfig()

	assert.Equal(t, time.Minute, cfg.Dispatcher.Interval)
	assert.Equal(t, 10, cfg.Dispatcher.Concurrency)
	assert.Equal(t, time.UTC, cfg.Location())
}
