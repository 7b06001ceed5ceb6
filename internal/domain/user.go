// Package domain contains core domain types for the FULA advisor session service.
package domain

import (
	"time"
)

// Device is an anonymous browser identity. Session preferences are stored per device.
type Device struct {
	DeviceID   string    `json:"device_id"`
	Label      string    `json:"label"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Idle returns how long the device has been inactive relative to now.
func (d *Device) Idle(now time.Time) time.Duration {
	idle := now.Sub(d.LastSeenAt)
	if idle < 0 {
		return 0
	}
	return idle
}
