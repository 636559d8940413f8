// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relic

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds the process-level settings named in §6 ("Server
// defaults") plus the graceful-shutdown timeout the reference adapter needs.
type ServerConfig struct {
	Address         string
	PoweredBy       string
	GracefulTimeout time.Duration
}

// DefaultServerConfig returns §6's documented defaults: listen on
// 0.0.0.0:8080 with an X-Powered-By token of "relic".
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:         "0.0.0.0:8080",
		PoweredBy:       "relic",
		GracefulTimeout: 10 * time.Second,
	}
}

// LoadEnv loads ./configs/.env and then, if APP_ENV is set,
// ./configs/.<APP_ENV>.env. Neither file overrides a variable that is
// already set, so a value from .env takes precedence over the same key in
// the APP_ENV file. A missing file is not an error; a malformed one is.
func LoadEnv() error {
	if err := godotenv.Load("./configs/.env"); err != nil && !os.IsNotExist(err) {
		return err
	}
	env := os.Getenv("APP_ENV")
	if env == "" {
		return nil
	}
	if err := godotenv.Load("./configs/." + env + ".env"); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ConfigFromEnv builds a ServerConfig from DefaultServerConfig, overridden
// by whichever RELIC_* environment variables are set (normally populated by
// LoadEnv beforehand).
func ConfigFromEnv() ServerConfig {
	cfg := DefaultServerConfig()
	if v := os.Getenv("RELIC_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if v := os.Getenv("RELIC_POWERED_BY"); v != "" {
		cfg.PoweredBy = v
	}
	if v := os.Getenv("RELIC_GRACEFUL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.GracefulTimeout = d
		}
	}
	return cfg
}
