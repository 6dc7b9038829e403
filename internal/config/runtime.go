// Package config provides centralized configuration for Pillbox runtime values.
package config

import (
	"os"
	"time"
)

// RuntimeConfig holds runtime configuration values that would otherwise be
// magic constants scattered through the codebase.
type RuntimeConfig struct {
	Scheduler SchedulerConfig
	HTTP      HTTPConfig
	Daemon    DaemonConfig
}

// SchedulerConfig holds scheduling-related configuration.
type SchedulerConfig struct {
	// SnoozeDelay is how long a "remind me later" pushes a slot out.
	// Default: 30m
	SnoozeDelay time.Duration

	// ReconcileInterval is how often the daemon re-derives registrations
	// from the medicine table. Default: 1h
	ReconcileInterval time.Duration
}

// HTTPConfig holds notification HTTP client configuration.
type HTTPConfig struct {
	// Timeout is the default HTTP request timeout. Default: 30s
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts. Default: 3
	MaxRetries int

	// RetryDelays are the delays between retry attempts.
	// Default: [0s, 5s, 30s]
	RetryDelays []time.Duration
}

// DaemonConfig holds daemon-related configuration.
type DaemonConfig struct {
	// ShutdownTimeout is the timeout for a graceful stop. Default: 5s
	ShutdownTimeout time.Duration
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Scheduler: SchedulerConfig{
			SnoozeDelay:       30 * time.Minute,
			ReconcileInterval: time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			RetryDelays: []time.Duration{
				0,
				5 * time.Second,
				30 * time.Second,
			},
		},
		Daemon: DaemonConfig{
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// Global holds the global runtime configuration instance.
// It is initialized with defaults and can be overridden via environment
// variables.
var Global = initGlobal()

func initGlobal() *RuntimeConfig {
	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()
	return cfg
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *RuntimeConfig) loadFromEnv() {
	if v := os.Getenv("PILLBOX_SNOOZE_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Scheduler.SnoozeDelay = d
		}
	}
	if v := os.Getenv("PILLBOX_RECONCILE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Scheduler.ReconcileInterval = d
		}
	}
	if v := os.Getenv("PILLBOX_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.HTTP.Timeout = d
		}
	}
	if v := os.Getenv("PILLBOX_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Daemon.ShutdownTimeout = d
		}
	}
}
