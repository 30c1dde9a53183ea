// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (upstream client, view manager) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/folio/pkg/query"
)

// # Configuration Schema

// Config holds all runtime configuration for the folio server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8090"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Media-library REST API
	UpstreamURL     string        `env:"UPSTREAM_URL"     envDefault:"http://localhost:8080"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"15s"`

	// Key-Value Cache (Redis). Empty keeps view snapshots in memory.
	RedisURL string        `env:"REDIS_URL"`
	ViewTTL  time.Duration `env:"VIEW_TTL" envDefault:"24h"`

	// Gallery defaults
	PageSize  int     `env:"PAGE_SIZE"  envDefault:"200"`
	RowHeight float64 `env:"ROW_HEIGHT" envDefault:"250"`
	Gap       float64 `env:"GAP"        envDefault:"4"`

	// Idle-UI timers
	IdleDesktop time.Duration `env:"IDLE_DESKTOP" envDefault:"6s"`
	IdleTouch   time.Duration `env:"IDLE_TOUCH"   envDefault:"8s"`
	IdleReader  time.Duration `env:"IDLE_READER"  envDefault:"3500ms"`

	// Unused reader sessions are closed after this long
	ReaderTTL time.Duration `env:"READER_TTL" envDefault:"2h"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"localhost"`
	ExtraOrigins        string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.PageSize <= 0:
		return fmt.Errorf("config: PAGE_SIZE must be positive, got %d", c.PageSize)
	case c.RowHeight <= 0:
		return fmt.Errorf("config: ROW_HEIGHT must be positive, got %v", c.RowHeight)
	case c.Gap < 0:
		return fmt.Errorf("config: GAP must not be negative, got %v", c.Gap)
	case c.UpstreamURL == "":
		return fmt.Errorf("config: UPSTREAM_URL is required")
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginSuffix implements the CORS policy lookup.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}

// ExtraOriginList returns the comma-separated EXTRA_ORIGINS as exact origins.
func (c *Config) ExtraOriginList() []string {
	return query.List(c.ExtraOrigins)
}
