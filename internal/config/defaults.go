package config

import (
	"os"
	"path/filepath"
)

// Default configuration values.
const (
	// CurrentVersion is the config schema version written by this build.
	CurrentVersion = 1

	// DefaultRateLimit is the default RPC rate in requests per second.
	DefaultRateLimit = 5

	// DefaultRateBurst is the default token bucket burst.
	DefaultRateBurst = 10

	// DefaultTimeoutSeconds is the default per-call RPC timeout.
	DefaultTimeoutSeconds = 15

	// DefaultRefreshIntervalSeconds is the default refresh loop period.
	DefaultRefreshIntervalSeconds = 30

	// DefaultFreshnessSeconds is the default slot freshness threshold.
	DefaultFreshnessSeconds = 60

	// DefaultRefreshConcurrency bounds in-flight refresh fetches.
	DefaultRefreshConcurrency = 10

	// DefaultLeaseTTLSeconds is the default lease deadline.
	DefaultLeaseTTLSeconds = 30

	// DefaultWatchdogIntervalSeconds is the default watchdog sweep period.
	DefaultWatchdogIntervalSeconds = 5

	// DefaultComputeUnits is the default compute unit limit per transaction.
	DefaultComputeUnits = 200_000

	// DefaultComputePrice is the default per-unit price in micro-units.
	DefaultComputePrice = 1_000
)

// DefaultHome returns the default durapool home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".durapool"
	}
	return filepath.Join(home, ".durapool")
}

// Defaults returns a configuration populated with default values.
// The pool account list is intentionally empty; it has no sane default.
func Defaults() *Config {
	return &Config{
		Version: CurrentVersion,
		Home:    DefaultHome(),
		Network: NetworkConfig{
			RateLimit:      DefaultRateLimit,
			RateBurst:      DefaultRateBurst,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Pool: PoolConfig{
			RefreshIntervalSeconds:  DefaultRefreshIntervalSeconds,
			FreshnessSeconds:        DefaultFreshnessSeconds,
			RefreshConcurrency:      DefaultRefreshConcurrency,
			LeaseTTLSeconds:         DefaultLeaseTTLSeconds,
			WatchdogIntervalSeconds: DefaultWatchdogIntervalSeconds,
		},
		Compute: ComputeConfig{
			Units: DefaultComputeUnits,
			Price: DefaultComputePrice,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.durapool/durapool.log",
		},
	}
}
