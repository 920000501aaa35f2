// Package config provides configuration management for durapool.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	durerr "github.com/quartzlabs/durapool/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Version int           `yaml:"version"`
	Home    string        `yaml:"home"`
	Network NetworkConfig `yaml:"network"`
	Pool    PoolConfig    `yaml:"pool"`
	Compute ComputeConfig `yaml:"compute"`
	Logging LoggingConfig `yaml:"logging"`
}

// NetworkConfig defines RPC endpoint settings.
type NetworkConfig struct {
	RPC            string  `yaml:"rpc"`
	RateLimit      float64 `yaml:"rate_limit"`      // requests per second
	RateBurst      int     `yaml:"rate_burst"`      // token bucket burst
	TimeoutSeconds int     `yaml:"timeout_seconds"` // per-call timeout
}

// Timeout returns the per-call RPC timeout.
func (n NetworkConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutSeconds) * time.Second
}

// PoolConfig defines the nonce account pool and its background loops.
type PoolConfig struct {
	Accounts                []string `yaml:"accounts"`
	RefreshIntervalSeconds  int      `yaml:"refresh_interval_seconds"`
	FreshnessSeconds        int      `yaml:"freshness_seconds"`
	RefreshConcurrency      int      `yaml:"refresh_concurrency"`
	LeaseTTLSeconds         int      `yaml:"lease_ttl_seconds"`
	WatchdogIntervalSeconds int      `yaml:"watchdog_interval_seconds"`
}

// RefreshInterval returns the period of the background refresh loop.
func (p PoolConfig) RefreshInterval() time.Duration {
	return time.Duration(p.RefreshIntervalSeconds) * time.Second
}

// Freshness returns the age past which a slot becomes a refresh candidate.
func (p PoolConfig) Freshness() time.Duration {
	return time.Duration(p.FreshnessSeconds) * time.Second
}

// LeaseTTL returns the deadline applied to every issued lease.
func (p PoolConfig) LeaseTTL() time.Duration {
	return time.Duration(p.LeaseTTLSeconds) * time.Second
}

// WatchdogInterval returns the period of the watchdog sweep.
func (p PoolConfig) WatchdogInterval() time.Duration {
	return time.Duration(p.WatchdogIntervalSeconds) * time.Second
}

// Addresses parses the configured pool accounts.
func (p PoolConfig) Addresses() ([]common.Address, error) {
	addrs := make([]common.Address, 0, len(p.Accounts))
	for _, a := range p.Accounts {
		if !common.IsHexAddress(a) {
			return nil, durerr.WithDetails(durerr.ErrInvalidAddress, map[string]string{"account": a})
		}
		addrs = append(addrs, common.HexToAddress(a))
	}
	return addrs, nil
}

// ComputeConfig defines default compute budget instructions for built transactions.
type ComputeConfig struct {
	Units uint32 `yaml:"units"` // compute unit limit
	Price uint64 `yaml:"price"` // price per compute unit, in micro-units
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Path returns the config file path under the given home directory.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config path comes from the user's own flags/env
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, durerr.Wrap(durerr.ErrConfigNotFound, err)
		}
		return nil, durerr.Wrap(durerr.ErrConfigInvalid, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, durerr.Wrap(durerr.ErrConfigInvalid, err)
	}

	return &cfg, nil
}

// Save writes the configuration to the given path, creating the
// directory if needed.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return durerr.Wrap(durerr.ErrConfigInvalid, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}
