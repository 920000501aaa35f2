package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quartzlabs/durapool/internal/chain"
	"github.com/quartzlabs/durapool/internal/metrics"
	"github.com/quartzlabs/durapool/internal/nonce"
)

//nolint:gochecknoglobals // Cobra CLI pattern
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the nonce pool with its refresh loop and watchdog",
	Long: `Run starts the nonce account pool and keeps it serviceable: the
refresh loop re-fetches stale nonce values from the RPC endpoint and
the watchdog reclaims leases that outlived their deadline.

The process runs until interrupted. On SIGINT or SIGTERM it stops the
background loops and prints a final metrics summary.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPool(cmd.Context())
	},
}

// runPool wires the configuration into a live manager and blocks until
// the context is cancelled or a shutdown signal arrives.
func runPool(parent context.Context) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	accounts, err := cfg.Pool.Addresses()
	if err != nil {
		return err
	}

	client, err := chain.NewClient(cfg.Network.RPC, &chain.ClientOptions{
		RateLimiter: chain.NewRateLimiter(cfg.Network.RateLimit, cfg.Network.RateBurst),
		Timeout:     cfg.Network.Timeout(),
	})
	if err != nil {
		return err
	}
	defer client.Close()

	mgr := nonce.NewManager(nonce.NewPool(accounts), client, nonce.Options{
		LeaseTTL:           cfg.Pool.LeaseTTL(),
		Freshness:          cfg.Pool.Freshness(),
		RefreshInterval:    cfg.Pool.RefreshInterval(),
		RefreshConcurrency: int64(cfg.Pool.RefreshConcurrency),
		Logger:             logger,
	})
	wd := nonce.NewWatchdog(mgr, cfg.Pool.WatchdogInterval(), logger)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stdout, "durapool running: %d nonce accounts, refresh every %s, watchdog every %s\n",
		len(accounts), cfg.Pool.RefreshInterval(), cfg.Pool.WatchdogInterval())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		mgr.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		wd.Run(ctx)
	}()

	<-ctx.Done()
	wg.Wait()

	fmt.Fprintln(os.Stdout, "shutting down")
	printSnapshot(os.Stdout, metrics.Global.Snapshot(), time.Now())
	return nil
}

//nolint:gochecknoinits // Cobra CLI pattern
func init() {
	rootCmd.AddCommand(runCmd)
}
