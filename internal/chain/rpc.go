package chain

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/quartzlabs/durapool/internal/metrics"
	durerr "github.com/quartzlabs/durapool/pkg/errors"
)

// RPC method names of the durable-nonce endpoint.
const (
	methodNonceValue = "durable_getNonceValue"
	methodSubmit     = "durable_sendRawTransaction"
	methodSimulate   = "durable_simulateTransaction"
)

// ClientOptions contains optional configuration for the RPC client.
type ClientOptions struct {
	// RateLimiter overrides the default limiter.
	RateLimiter *RateLimiter
	// Timeout is the per-call timeout. Zero means no client-side timeout.
	Timeout time.Duration
	// Metrics overrides the global metrics instance.
	Metrics *metrics.Metrics
}

// Compile-time interface checks
var (
	_ NonceReader = (*Client)(nil)
	_ Submitter   = (*Client)(nil)
)

// Client talks JSON-RPC to a durable-nonce endpoint.
// The underlying connection is dialed lazily on first use.
type Client struct {
	rpcURL  string
	limiter *RateLimiter
	timeout time.Duration
	met     *metrics.Metrics

	mu        sync.Mutex
	rpcClient *rpc.Client
}

// NewClient creates a new RPC client for the given endpoint.
func NewClient(rpcURL string, opts *ClientOptions) (*Client, error) {
	if rpcURL == "" {
		return nil, durerr.ErrRPCURLRequired
	}

	c := &Client{
		rpcURL:  rpcURL,
		limiter: DefaultRateLimiter(),
		met:     metrics.Global,
	}

	if opts != nil {
		if opts.RateLimiter != nil {
			c.limiter = opts.RateLimiter
		}
		if opts.Metrics != nil {
			c.met = opts.Metrics
		}
		c.timeout = opts.Timeout
	}

	return c, nil
}

// Close tears down the underlying connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rpcClient != nil {
		c.rpcClient.Close()
		c.rpcClient = nil
	}
}

// NonceValue fetches the current durable nonce value for an account.
func (c *Client) NonceValue(ctx context.Context, account common.Address) (common.Hash, error) {
	var value common.Hash
	err := c.call(ctx, &value, methodNonceValue, account)
	if err != nil {
		return common.Hash{}, err
	}
	return value, nil
}

// SubmitTransaction sends raw transaction bytes to the network and
// returns the transaction hash.
func (c *Client) SubmitTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	var hash common.Hash
	err := c.call(ctx, &hash, methodSubmit, hexutil.Encode(raw))
	if err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// SimulateTransaction dry-runs raw transaction bytes against the
// network without submitting them.
func (c *Client) SimulateTransaction(ctx context.Context, raw []byte) (*SimulationResult, error) {
	var result SimulationResult
	if err := c.call(ctx, &result, methodSimulate, hexutil.Encode(raw)); err != nil {
		return nil, err
	}
	return &result, nil
}

// call performs one rate-limited, metered RPC call.
func (c *Client) call(ctx context.Context, result any, method string, args ...any) error {
	client, err := c.connect(ctx)
	if err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	err = client.CallContext(ctx, result, method, args...)
	c.met.RecordRPCCall(time.Since(start), err)

	if err != nil {
		return durerr.Wrap(durerr.ErrNetworkError, err)
	}
	return nil
}

// connect dials the endpoint once and reuses the connection.
func (c *Client) connect(ctx context.Context) (*rpc.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rpcClient != nil {
		return c.rpcClient, nil
	}

	client, err := rpc.DialContext(ctx, c.rpcURL)
	if err != nil {
		return nil, durerr.Wrap(durerr.ErrNetworkError, err)
	}
	c.rpcClient = client
	return client, nil
}
