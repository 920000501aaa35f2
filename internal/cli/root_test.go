package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quartzlabs/durapool/internal/config"
	durerr "github.com/quartzlabs/durapool/pkg/errors"
)

// execute runs the root command with the given args. The CLI keeps
// package-level state, so these tests never run in parallel.
func execute(t *testing.T, args ...string) error {
	t.Helper()

	homeDir = ""
	rpcURL = ""
	verbose = false

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// TestCommandsRegistered verifies the command tree.
func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"run", "status", "config", "version"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

// TestExitCodeMapping verifies CLI exit codes.
func TestExitCodeMapping(t *testing.T) {
	assert.Equal(t, durerr.ExitSuccess, ExitCode(nil))
	assert.Equal(t, durerr.ExitCapacity, ExitCode(durerr.ErrPoolExhausted))
	assert.Equal(t, durerr.ExitInput, ExitCode(durerr.ErrConfigInvalid))
}

// TestConfigInit verifies init writes a file once and refuses twice.
func TestConfigInit(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, execute(t, "config", "init", "--home", dir))
	_, err := os.Stat(config.Path(dir))
	require.NoError(t, err)

	err = execute(t, "config", "init", "--home", dir)
	require.ErrorIs(t, err, durerr.ErrConfigInvalid)
}

// TestConfigValidateEmptyPool verifies a fresh config does not validate.
func TestConfigValidateEmptyPool(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, execute(t, "config", "init", "--home", dir))

	// Fresh config has no RPC URL and no accounts
	err := execute(t, "config", "validate", "--home", dir, "--rpc", "http://localhost:8545")
	require.ErrorIs(t, err, durerr.ErrConfigInvalid)
}

// TestConfigValidatePasses verifies a complete config validates.
func TestConfigValidatePasses(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Defaults()
	cfg.Home = dir
	cfg.Network.RPC = "http://localhost:8545"
	cfg.Pool.Accounts = []string{"0x742d35Cc6634C0532925a3b844Bc454e4438f44e"}
	cfg.Logging.File = filepath.Join(dir, "durapool.log")
	require.NoError(t, config.Save(cfg, config.Path(dir)))

	require.NoError(t, execute(t, "config", "validate", "--home", dir))
}

// TestRunRejectsInvalidConfig verifies run fails fast on bad config.
func TestRunRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, execute(t, "config", "init", "--home", dir))

	err := execute(t, "run", "--home", dir)
	require.ErrorIs(t, err, durerr.ErrRPCURLRequired)
}

// TestInitGlobalsFlagPrecedence verifies flags beat the config file.
func TestInitGlobalsFlagPrecedence(t *testing.T) {
	dir := t.TempDir()

	saved := config.Defaults()
	saved.Home = dir
	saved.Network.RPC = "http://config-file:8545"
	require.NoError(t, config.Save(saved, config.Path(dir)))

	homeDir = dir
	rpcURL = "http://flag:8545"
	verbose = true
	t.Cleanup(func() {
		homeDir = ""
		rpcURL = ""
		verbose = false
		cleanup()
	})

	require.NoError(t, initGlobals())
	assert.Equal(t, "http://flag:8545", cfg.Network.RPC)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, dir, cfg.Home)
}

// TestInitGlobalsEnvOverride verifies the environment beats the file.
func TestInitGlobalsEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvHome, dir)
	t.Setenv(config.EnvRPC, "http://env:8545")

	homeDir = ""
	rpcURL = ""
	t.Cleanup(cleanup)

	require.NoError(t, initGlobals())
	assert.Equal(t, dir, cfg.Home)
	assert.Equal(t, "http://env:8545", cfg.Network.RPC)
}
