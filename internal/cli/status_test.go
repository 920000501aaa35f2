package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quartzlabs/durapool/internal/metrics"
)

// TestPrintSnapshot verifies the text rendering.
func TestPrintSnapshot(t *testing.T) {
	var m metrics.Metrics
	m.RecordExplicitRelease(20 * time.Millisecond)
	m.RecordAutoRelease(5 * time.Millisecond)
	m.RecordPoolExhaustion()
	m.RecordRefresh(nil)

	var buf bytes.Buffer
	printSnapshot(&buf, m.Snapshot(), time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))

	out := buf.String()
	assert.Contains(t, out, "explicit releases:  1")
	assert.Contains(t, out, "auto releases:      1")
	assert.Contains(t, out, "pool exhaustions:   1")
	assert.Contains(t, out, "successes: 1")
	assert.Contains(t, out, "avg lifetime:")
}

// TestPrintSnapshotJSON verifies the JSON rendering round-trips.
func TestPrintSnapshotJSON(t *testing.T) {
	var m metrics.Metrics
	m.RecordExpiredLease(time.Second)
	m.RecordRefresh(assert.AnError)
	m.RecordDegraded()

	var buf bytes.Buffer
	require.NoError(t, printSnapshotJSON(&buf, m.Snapshot()))

	var report statusReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, int64(1), report.ExpiredLeases)
	assert.Equal(t, int64(1), report.RefreshFailures)
	assert.Equal(t, int64(1), report.DegradedEvents)
	assert.InDelta(t, 1000.0, report.LifetimeAvgMs, 0.01)
}
