package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome               = "DURAPOOL_HOME"
	EnvRPC                = "DURAPOOL_RPC"
	EnvLogLevel           = "DURAPOOL_LOG_LEVEL"
	EnvLogFile            = "DURAPOOL_LOG_FILE"
	EnvLeaseTTL           = "DURAPOOL_LEASE_TTL"
	EnvRefreshConcurrency = "DURAPOOL_REFRESH_CONCURRENCY"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvRPC); v != "" {
		cfg.Network.RPC = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Logging.File = v
	}

	// DURAPOOL_LEASE_TTL sets the lease deadline in seconds
	if v := os.Getenv(EnvLeaseTTL); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil && ttl > 0 {
			cfg.Pool.LeaseTTLSeconds = ttl
		}
	}

	if v := os.Getenv(EnvRefreshConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Pool.RefreshConcurrency = n
		}
	}
}
