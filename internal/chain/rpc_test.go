package chain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quartzlabs/durapool/internal/metrics"
	durerr "github.com/quartzlabs/durapool/pkg/errors"
)

// TestNewClientRequiresURL verifies the URL is mandatory.
func TestNewClientRequiresURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient("", nil)
	require.ErrorIs(t, err, durerr.ErrRPCURLRequired)
}

// TestNewClientDefaults verifies construction does not dial.
func TestNewClientDefaults(t *testing.T) {
	t.Parallel()

	c, err := NewClient("http://localhost:1", nil)
	require.NoError(t, err)
	assert.NotNil(t, c.limiter)
	assert.Same(t, metrics.Global, c.met)
	assert.Nil(t, c.rpcClient)

	// Close before any call is a no-op
	c.Close()
}

// TestNewClientOptions verifies option overrides.
func TestNewClientOptions(t *testing.T) {
	t.Parallel()

	met := &metrics.Metrics{}
	rl := NewRateLimiter(1, 1)

	c, err := NewClient("http://localhost:1", &ClientOptions{
		RateLimiter: rl,
		Timeout:     2 * time.Second,
		Metrics:     met,
	})
	require.NoError(t, err)
	assert.Same(t, rl, c.limiter)
	assert.Same(t, met, c.met)
	assert.Equal(t, 2*time.Second, c.timeout)
}

// TestSimulationResultOk verifies the success predicate.
func TestSimulationResultOk(t *testing.T) {
	t.Parallel()

	assert.False(t, (*SimulationResult)(nil).Ok())
	assert.True(t, (&SimulationResult{UnitsConsumed: 100}).Ok())
	assert.False(t, (&SimulationResult{Err: "custom program error"}).Ok())
}
