// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/fula/internal/domain"
)

// Repository defines the interface for persisting devices and their session state.
type Repository interface {
	// GetDevice retrieves a device by id. A missing device yields nil, nil.
	GetDevice(ctx context.Context, deviceID string) (*domain.Device, error)

	// UpsertDevice creates or updates a device record.
	UpsertDevice(ctx context.Context, device *domain.Device) error

	// UpdateLastSeen updates the last_seen_at timestamp for a device.
	UpdateLastSeen(ctx context.Context, deviceID string, lastSeen time.Time) error

	// GetSessionState retrieves the record stored under namespace. A missing record yields nil, nil.
	GetSessionState(ctx context.Context, deviceID, namespace string) (*domain.SessionRecord, error)

	// UpsertSessionState creates or replaces a session record.
	UpsertSessionState(ctx context.Context, rec *domain.SessionRecord) error

	// DeleteSessionState removes the record stored under namespace.
	DeleteSessionState(ctx context.Context, deviceID, namespace string) error

	// GetIdleDevices retrieves devices not seen within ttl.
	GetIdleDevices(ctx context.Context, ttl time.Duration) ([]*domain.Device, error)

	// DeleteDevice removes a device and all of its session records.
	DeleteDevice(ctx context.Context, deviceID string) error

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
