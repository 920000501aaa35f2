package config

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/ethereum/go-ethereum/common"

	durerr "github.com/quartzlabs/durapool/pkg/errors"
)

// validLogLevels are the accepted logging.level values.
var validLogLevels = []string{"off", "error", "debug"}

// maxSuggestionDistance is the largest edit distance still worth suggesting.
const maxSuggestionDistance = 2

// Validate checks the configuration for values the core cannot run with.
func (c *Config) Validate() error {
	if c.Network.RPC == "" {
		return durerr.ErrRPCURLRequired
	}

	if len(c.Pool.Accounts) == 0 {
		return durerr.WithDetails(durerr.ErrConfigInvalid,
			map[string]string{"pool.accounts": "at least one nonce account is required"})
	}
	for _, a := range c.Pool.Accounts {
		if !common.IsHexAddress(a) {
			return durerr.WithDetails(durerr.ErrInvalidAddress, map[string]string{"account": a})
		}
	}

	if c.Pool.RefreshConcurrency <= 0 {
		return durerr.WithDetails(durerr.ErrConfigInvalid,
			map[string]string{"pool.refresh_concurrency": "must be positive"})
	}
	if c.Pool.LeaseTTLSeconds <= 0 {
		return durerr.WithDetails(durerr.ErrConfigInvalid,
			map[string]string{"pool.lease_ttl_seconds": "must be positive"})
	}
	if c.Pool.WatchdogIntervalSeconds <= 0 {
		return durerr.WithDetails(durerr.ErrConfigInvalid,
			map[string]string{"pool.watchdog_interval_seconds": "must be positive"})
	}
	if c.Pool.RefreshIntervalSeconds <= 0 {
		return durerr.WithDetails(durerr.ErrConfigInvalid,
			map[string]string{"pool.refresh_interval_seconds": "must be positive"})
	}

	if level := strings.ToLower(c.Logging.Level); !isValidLogLevel(level) {
		err := durerr.WithDetails(durerr.ErrConfigInvalid,
			map[string]string{"logging.level": c.Logging.Level})
		if s := SuggestLogLevel(level); s != "" {
			err = durerr.WithSuggestion(err, "did you mean \""+s+"\"?")
		}
		return err
	}

	return nil
}

func isValidLogLevel(level string) bool {
	for _, v := range validLogLevels {
		if level == v {
			return true
		}
	}
	return false
}

// SuggestLogLevel returns the closest valid log level for a near-miss
// input, or "" if nothing is close enough.
func SuggestLogLevel(input string) string {
	best := ""
	bestDist := maxSuggestionDistance + 1

	for _, v := range validLogLevels {
		dist := levenshtein.ComputeDistance(input, v)
		if dist < bestDist {
			best = v
			bestDist = dist
		}
	}

	if bestDist > maxSuggestionDistance {
		return ""
	}
	return best
}
