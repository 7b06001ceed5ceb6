package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	maxRetries     = 3
	baseRetryDelay = 100 * time.Millisecond
)

// IsConflictError reports whether err is a SQLITE_BUSY or "database is locked"
// error. Both are concurrency errors that warrant a retry.
func IsConflictError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// withRetry runs fn up to maxRetries times, backing off 100ms, 200ms, 400ms
// between attempts that fail with a conflict error.
func withRetry(ctx context.Context, op, deviceID string, fn func() error) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !IsConflictError(err) || i == maxRetries-1 {
			break
		}

		delay := baseRetryDelay * time.Duration(1<<i)
		slog.Debug("sqlite busy, retrying",
			"op", op,
			"device_id", deviceID,
			"attempt", i+1,
			"delay", delay)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s for %s: %w", op, deviceID, ctx.Err())
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("%s for %s: %w", op, deviceID, err)
}
