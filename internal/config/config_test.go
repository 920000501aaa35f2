package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	durerr "github.com/quartzlabs/durapool/pkg/errors"
)

const (
	testAccount1 = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	testAccount2 = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
)

// validConfig returns a config that passes validation.
func validConfig() *Config {
	cfg := Defaults()
	cfg.Network.RPC = "http://localhost:8899"
	cfg.Pool.Accounts = []string{testAccount1, testAccount2}
	return cfg
}

// TestDefaults verifies sane defaults.
func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, DefaultRefreshConcurrency, cfg.Pool.RefreshConcurrency)
	assert.Empty(t, cfg.Pool.Accounts)
	assert.Equal(t, "error", cfg.Logging.Level)
}

// TestSaveLoadRoundTrip verifies yaml persistence.
func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := Path(dir)

	cfg := validConfig()
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

// TestLoadMissingFile verifies the not-found error.
func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, durerr.ErrConfigNotFound)
}

// TestApplyEnvironment verifies env overrides.
func TestApplyEnvironment(t *testing.T) {
	t.Setenv(EnvRPC, "http://rpc.example:8899")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvLeaseTTL, "45")
	t.Setenv(EnvRefreshConcurrency, "3")

	cfg := Defaults()
	ApplyEnvironment(cfg)

	assert.Equal(t, "http://rpc.example:8899", cfg.Network.RPC)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 45, cfg.Pool.LeaseTTLSeconds)
	assert.Equal(t, 3, cfg.Pool.RefreshConcurrency)
}

// TestApplyEnvironmentIgnoresGarbage verifies invalid numbers are ignored.
func TestApplyEnvironmentIgnoresGarbage(t *testing.T) {
	t.Setenv(EnvLeaseTTL, "not-a-number")
	t.Setenv(EnvRefreshConcurrency, "-2")

	cfg := Defaults()
	ApplyEnvironment(cfg)

	assert.Equal(t, DefaultLeaseTTLSeconds, cfg.Pool.LeaseTTLSeconds)
	assert.Equal(t, DefaultRefreshConcurrency, cfg.Pool.RefreshConcurrency)
}

// TestValidate verifies validation failures.
func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{
			name:   "valid",
			mutate: func(_ *Config) {},
			want:   nil,
		},
		{
			name:   "missing rpc",
			mutate: func(c *Config) { c.Network.RPC = "" },
			want:   durerr.ErrRPCURLRequired,
		},
		{
			name:   "no accounts",
			mutate: func(c *Config) { c.Pool.Accounts = nil },
			want:   durerr.ErrConfigInvalid,
		},
		{
			name:   "bad account",
			mutate: func(c *Config) { c.Pool.Accounts = []string{"0x1234"} },
			want:   durerr.ErrInvalidAddress,
		},
		{
			name:   "zero concurrency",
			mutate: func(c *Config) { c.Pool.RefreshConcurrency = 0 },
			want:   durerr.ErrConfigInvalid,
		},
		{
			name:   "zero lease ttl",
			mutate: func(c *Config) { c.Pool.LeaseTTLSeconds = 0 },
			want:   durerr.ErrConfigInvalid,
		},
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
			want:   durerr.ErrConfigInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

// TestSuggestLogLevel verifies near-miss suggestions.
func TestSuggestLogLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "error", SuggestLogLevel("eror"))
	assert.Equal(t, "debug", SuggestLogLevel("debg"))
	assert.Equal(t, "off", SuggestLogLevel("of"))
	assert.Empty(t, SuggestLogLevel("trace"))
}

// TestPoolAddresses verifies account parsing.
func TestPoolAddresses(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	addrs, err := cfg.Pool.Addresses()
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, testAccount1, addrs[0].Hex())

	cfg.Pool.Accounts = append(cfg.Pool.Accounts, "bogus")
	_, err = cfg.Pool.Addresses()
	require.ErrorIs(t, err, durerr.ErrInvalidAddress)
}

// TestDurationAccessors verifies second-based fields convert correctly.
func TestDurationAccessors(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	assert.Equal(t, float64(DefaultLeaseTTLSeconds), cfg.Pool.LeaseTTL().Seconds())
	assert.Equal(t, float64(DefaultWatchdogIntervalSeconds), cfg.Pool.WatchdogInterval().Seconds())
	assert.Equal(t, float64(DefaultFreshnessSeconds), cfg.Pool.Freshness().Seconds())
	assert.Equal(t, float64(DefaultTimeoutSeconds), cfg.Network.Timeout().Seconds())
}
