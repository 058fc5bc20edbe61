package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// FailoverDetector tracks the single most-recently-observed healthy serving
// pool. Only entries with status exactly 200 and a non-empty pool are
// trusted as signals of which pool is currently serving.
type FailoverDetector struct {
	primaryPool string
	currentPool string
}

func NewFailoverDetector(primaryPool string) *FailoverDetector {
	return &FailoverDetector{
		primaryPool: strings.ToLower(strings.TrimSpace(primaryPool)),
	}
}

// Observe classifies a pool transition as initial observation (diagnostic
// only), recovery (back to the configured primary) or failover.
func (d *FailoverDetector) Observe(entry LogEntry) *AlertEvent {
	pool := entry.Pool()
	status, ok := entry.NumericStatus()
	if pool == "" || !ok || status != http.StatusOK {
		return nil
	}

	previous := d.currentPool
	if previous == pool {
		return nil
	}
	d.currentPool = pool

	release := entry.Release()
	if previous == "" {
		// Baseline establishment, not a transition.
		slog.Info("initial pool observed", slog.String("pool", pool), slog.String("release", release))
		return nil
	}

	if d.primaryPool != "" && pool == d.primaryPool {
		return &AlertEvent{
			Type:         AlertTypeRecovery,
			Message:      fmt.Sprintf("Traffic recovered to primary pool '%s' (was '%s'). Release %s now serving.", pool, previous, release),
			Pool:         pool,
			PreviousPool: previous,
			Release:      release,
			OccurredAt:   time.Now().UTC(),
		}
	}

	return &AlertEvent{
		Type:         AlertTypeFailover,
		Message:      fmt.Sprintf("Failover detected: traffic moved from '%s' to '%s'. Release %s now serving.", previous, pool, release),
		Pool:         pool,
		PreviousPool: previous,
		Release:      release,
		OccurredAt:   time.Now().UTC(),
	}
}
