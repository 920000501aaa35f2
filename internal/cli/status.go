package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/quartzlabs/durapool/internal/metrics"
)

//nolint:gochecknoglobals // Cobra CLI pattern
var statusJSON bool

//nolint:gochecknoglobals // Cobra CLI pattern
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current metrics snapshot",
	Long: `Status prints the in-process metrics counters: lease releases by
kind, pool exhaustions, refresh outcomes, and RPC call statistics.

Counters are process-local; status is meaningful inside a process that
embeds the pool, or in tests.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		snap := metrics.Global.Snapshot()
		if statusJSON || formatter.IsJSON() {
			return printSnapshotJSON(formatter.Writer(), snap)
		}
		printSnapshot(formatter.Writer(), snap, time.Now())
		return nil
	},
}

// statusReport is the JSON shape of a metrics snapshot.
type statusReport struct {
	Time             time.Time `json:"time"`
	ExplicitReleases int64     `json:"explicit_releases"`
	AutoReleases     int64     `json:"auto_releases"`
	ExpiredLeases    int64     `json:"expired_leases"`
	PoolExhaustions  int64     `json:"pool_exhaustions"`
	RefreshSuccesses int64     `json:"refresh_successes"`
	RefreshFailures  int64     `json:"refresh_failures"`
	DegradedEvents   int64     `json:"degraded_events"`
	RPCCalls         int64     `json:"rpc_calls"`
	RPCErrors        int64     `json:"rpc_errors"`
	LifetimeAvgMs    float64   `json:"lease_lifetime_avg_ms"`
}

func printSnapshotJSON(w io.Writer, snap metrics.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(statusReport{
		Time:             time.Now().UTC(),
		ExplicitReleases: snap.ExplicitReleases,
		AutoReleases:     snap.AutoReleases,
		ExpiredLeases:    snap.ExpiredLeases,
		PoolExhaustions:  snap.PoolExhaustions,
		RefreshSuccesses: snap.RefreshSuccesses,
		RefreshFailures:  snap.RefreshFailures,
		DegradedEvents:   snap.DegradedEvents,
		RPCCalls:         snap.RPCCallsTotal,
		RPCErrors:        snap.RPCErrorsTotal,
		LifetimeAvgMs:    snap.LifetimeAvgMs(),
	})
}

func printSnapshot(w io.Writer, snap metrics.Snapshot, now time.Time) {
	fmt.Fprintf(w, "Status at %s\n\n", now.Format(time.RFC3339))
	fmt.Fprintln(w, "Leases:")
	fmt.Fprintf(w, "  explicit releases:  %d\n", snap.ExplicitReleases)
	fmt.Fprintf(w, "  auto releases:      %d\n", snap.AutoReleases)
	fmt.Fprintf(w, "  expired (watchdog): %d\n", snap.ExpiredLeases)
	fmt.Fprintf(w, "  pool exhaustions:   %d\n", snap.PoolExhaustions)
	if snap.Releases() > 0 {
		fmt.Fprintf(w, "  avg lifetime:       %.2fms\n", snap.LifetimeAvgMs())
	}
	fmt.Fprintln(w, "Refresh:")
	fmt.Fprintf(w, "  successes: %d\n", snap.RefreshSuccesses)
	fmt.Fprintf(w, "  failures:  %d\n", snap.RefreshFailures)
	fmt.Fprintf(w, "  degraded:  %d\n", snap.DegradedEvents)
	fmt.Fprintln(w, "RPC:")
	fmt.Fprintf(w, "  calls:  %d\n", snap.RPCCallsTotal)
	fmt.Fprintf(w, "  errors: %d\n", snap.RPCErrorsTotal)
}

//nolint:gochecknoinits // Cobra CLI pattern
func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "emit JSON instead of text")
	rootCmd.AddCommand(statusCmd)
}
