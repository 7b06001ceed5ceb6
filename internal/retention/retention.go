// Package retention removes devices that have been idle longer than the session TTL.
package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/ashureev/fula/internal/store"
)

// CleanupCallback is called for each device the sweeper removes.
type CleanupCallback func(deviceID string)

// Worker periodically sweeps idle devices and their stored sessions.
type Worker struct {
	repo      store.Repository
	ttl       time.Duration
	interval  time.Duration
	onCleanup []CleanupCallback
}

// NewWorker creates a sweeper. Every callback runs after a device is deleted.
func NewWorker(repo store.Repository, ttl, interval time.Duration, onCleanup ...CleanupCallback) *Worker {
	return &Worker{repo: repo, ttl: ttl, interval: interval, onCleanup: onCleanup}
}

// Run sweeps every interval until ctx is cancelled. It always returns nil so it
// can run inside an errgroup next to the HTTP server.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	slog.Info("Retention worker started", "interval", w.interval, "ttl", w.ttl)

	for {
		select {
		case <-ticker.C:
			w.Sweep(ctx)
		case <-ctx.Done():
			slog.Info("Retention worker shutting down", "reason", ctx.Err())
			return nil
		}
	}
}

// Sweep deletes every device idle for longer than the TTL and reports how many were removed.
func (w *Worker) Sweep(ctx context.Context) int {
	idle, err := w.repo.GetIdleDevices(ctx, w.ttl)
	if err != nil {
		slog.Error("Retention worker failed to get idle devices", "error", err)
		return 0
	}
	if len(idle) == 0 {
		return 0
	}

	slog.Info("Retention worker found idle devices", "count", len(idle))

	removed := 0
	for _, d := range idle {
		if err := w.repo.DeleteDevice(ctx, d.DeviceID); err != nil {
			if ctx.Err() != nil {
				slog.Debug("Retention worker interrupted", "device_id", d.DeviceID, "error", err)
				break
			}
			slog.Warn("Retention worker failed to delete device",
				"error", err,
				"device_id", d.DeviceID)
			continue
		}
		for _, fn := range w.onCleanup {
			fn(d.DeviceID)
		}
		removed++
	}

	slog.Info("Retention worker cleanup completed", "removed", removed)
	return removed
}
