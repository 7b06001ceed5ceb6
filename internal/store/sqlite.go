package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ashureev/fula/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	stateMu sync.Mutex // serializes session_state writes to avoid SQLITE_BUSY
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode lets HTTP readers proceed while a session write is in flight.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS devices (
		device_id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		last_seen_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_devices_last_seen ON devices(last_seen_at);

	CREATE TABLE IF NOT EXISTS session_state (
		device_id TEXT NOT NULL,
		namespace TEXT NOT NULL,
		state_json TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (device_id, namespace)
	);
	CREATE INDEX IF NOT EXISTS idx_session_state_updated ON session_state(updated_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetDevice retrieves a device by id.
func (s *SQLiteStore) GetDevice(ctx context.Context, deviceID string) (*domain.Device, error) {
	query := `
		SELECT device_id, label, last_seen_at, created_at, updated_at
		FROM devices WHERE device_id = ?`

	var d domain.Device
	var lastSeen, createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx, query, deviceID).Scan(
		&d.DeviceID, &d.Label, &lastSeen, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan device row: %w", err)
	}

	d.LastSeenAt = time.Unix(lastSeen, 0)
	d.CreatedAt = time.Unix(createdAt, 0)
	d.UpdatedAt = time.Unix(updatedAt, 0)
	return &d, nil
}

// UpsertDevice creates or updates a device record.
func (s *SQLiteStore) UpsertDevice(ctx context.Context, d *domain.Device) error {
	query := `
	INSERT INTO devices (device_id, label, last_seen_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(device_id) DO UPDATE SET
		label = excluded.label,
		last_seen_at = excluded.last_seen_at,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		d.DeviceID, d.Label,
		d.LastSeenAt.Unix(), d.CreatedAt.Unix(), d.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert device: %w", err)
	}
	return nil
}

// UpdateLastSeen updates the last_seen_at timestamp for a device.
func (s *SQLiteStore) UpdateLastSeen(ctx context.Context, deviceID string, lastSeen time.Time) error {
	query := `UPDATE devices SET last_seen_at = ?, updated_at = ? WHERE device_id = ?`
	result, err := s.db.ExecContext(ctx, query, lastSeen.Unix(), time.Now().Unix(), deviceID)
	if err != nil {
		return fmt.Errorf("update last_seen: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("UpdateLastSeen affected 0 rows", "device_id", deviceID)
	}
	return nil
}

// GetSessionState retrieves the session record of a device.
func (s *SQLiteStore) GetSessionState(ctx context.Context, deviceID, namespace string) (*domain.SessionRecord, error) {
	query := `
		SELECT state_json, created_at, updated_at
		FROM session_state WHERE device_id = ? AND namespace = ?`

	var stateJSON string
	var createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx, query, deviceID, namespace).Scan(&stateJSON, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session state: %w", err)
	}

	var rec domain.SessionRecord
	if err := json.Unmarshal([]byte(stateJSON), &rec); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	rec.DeviceID = deviceID
	rec.Namespace = namespace
	rec.CreatedAt = time.Unix(createdAt, 0)
	rec.UpdatedAt = time.Unix(updatedAt, 0)
	return &rec, nil
}

// UpsertSessionState creates or replaces a session record, retrying on SQLITE_BUSY.
func (s *SQLiteStore) UpsertSessionState(ctx context.Context, rec *domain.SessionRecord) error {
	stateJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO session_state (device_id, namespace, state_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(device_id, namespace) DO UPDATE SET
			state_json = excluded.state_json,
			updated_at = excluded.updated_at`

	return withRetry(ctx, "upsert session state", rec.DeviceID, func() error {
		s.stateMu.Lock()
		defer s.stateMu.Unlock()
		_, err := s.db.ExecContext(ctx, query,
			rec.DeviceID, rec.Namespace, string(stateJSON),
			createdAt.Unix(), time.Now().Unix(),
		)
		return err
	})
}

// DeleteSessionState removes a session record, retrying on SQLITE_BUSY.
func (s *SQLiteStore) DeleteSessionState(ctx context.Context, deviceID, namespace string) error {
	return withRetry(ctx, "delete session state", deviceID, func() error {
		s.stateMu.Lock()
		defer s.stateMu.Unlock()
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM session_state WHERE device_id = ? AND namespace = ?`, deviceID, namespace)
		return err
	})
}

// GetIdleDevices retrieves devices whose last activity is older than ttl.
func (s *SQLiteStore) GetIdleDevices(ctx context.Context, ttl time.Duration) ([]*domain.Device, error) {
	threshold := time.Now().Add(-ttl).Unix()
	query := `
		SELECT device_id, label, last_seen_at, created_at, updated_at
		FROM devices WHERE last_seen_at < ?`

	rows, err := s.db.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("query idle devices: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close idle devices rows", "error", closeErr)
		}
	}()

	var devices []*domain.Device
	for rows.Next() {
		var d domain.Device
		var lastSeen, createdAt, updatedAt int64
		if err := rows.Scan(&d.DeviceID, &d.Label, &lastSeen, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan idle device row: %w", err)
		}
		d.LastSeenAt = time.Unix(lastSeen, 0)
		d.CreatedAt = time.Unix(createdAt, 0)
		d.UpdatedAt = time.Unix(updatedAt, 0)
		devices = append(devices, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate idle devices: %w", err)
	}
	return devices, nil
}

// DeleteDevice removes a device together with its session records.
func (s *SQLiteStore) DeleteDevice(ctx context.Context, deviceID string) error {
	return withRetry(ctx, "delete device", deviceID, func() error {
		s.stateMu.Lock()
		defer s.stateMu.Unlock()

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM session_state WHERE device_id = ?`, deviceID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM devices WHERE device_id = ?`, deviceID); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
