package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ashureev/fula/internal/domain"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "nested", "fula.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestDeviceRoundTrip(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	got, err := repo.GetDevice(ctx, "anon_missing")
	if err != nil || got != nil {
		t.Fatalf("GetDevice(missing) = %v, %v; want nil, nil", got, err)
	}

	now := time.Unix(1_700_000_000, 0)
	d := &domain.Device{DeviceID: "anon_1", Label: "device-1", LastSeenAt: now, CreatedAt: now, UpdatedAt: now}
	if err := repo.UpsertDevice(ctx, d); err != nil {
		t.Fatalf("UpsertDevice() error = %v", err)
	}

	got, err = repo.GetDevice(ctx, "anon_1")
	if err != nil {
		t.Fatalf("GetDevice() error = %v", err)
	}
	if diff := cmp.Diff(d, got); diff != "" {
		t.Errorf("device mismatch (-want +got):\n%s", diff)
	}

	later := now.Add(time.Hour)
	if err := repo.UpdateLastSeen(ctx, "anon_1", later); err != nil {
		t.Fatalf("UpdateLastSeen() error = %v", err)
	}
	got, _ = repo.GetDevice(ctx, "anon_1")
	if !got.LastSeenAt.Equal(later) {
		t.Errorf("LastSeenAt = %v, want %v", got.LastSeenAt, later)
	}
}

func TestSessionStateRoundTrip(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	got, err := repo.GetSessionState(ctx, "anon_1", domain.StorageNamespace)
	if err != nil || got != nil {
		t.Fatalf("GetSessionState(missing) = %v, %v; want nil, nil", got, err)
	}

	rec := &domain.SessionRecord{
		DeviceID:  "anon_1",
		Namespace: domain.StorageNamespace,
		PersonaID: "2",
		Scenario:  domain.ScenarioConcentration,
		Tone:      domain.ToneDirect,
		Phase:     domain.Phase1418,
		Goals:     []string{domain.GoalFreedom},
	}
	if err := repo.UpsertSessionState(ctx, rec); err != nil {
		t.Fatalf("UpsertSessionState() error = %v", err)
	}

	rec.Phase = domain.Phase1822
	if err := repo.UpsertSessionState(ctx, rec); err != nil {
		t.Fatalf("UpsertSessionState(update) error = %v", err)
	}

	got, err = repo.GetSessionState(ctx, "anon_1", domain.StorageNamespace)
	if err != nil {
		t.Fatalf("GetSessionState() error = %v", err)
	}
	if got.PersonaID != "2" || got.Phase != domain.Phase1822 || got.Tone != domain.ToneDirect {
		t.Errorf("got %+v", got)
	}
	if diff := cmp.Diff(rec.Goals, got.Goals); diff != "" {
		t.Errorf("goals mismatch (-want +got):\n%s", diff)
	}

	if err := repo.DeleteSessionState(ctx, "anon_1", domain.StorageNamespace); err != nil {
		t.Fatalf("DeleteSessionState() error = %v", err)
	}
	got, _ = repo.GetSessionState(ctx, "anon_1", domain.StorageNamespace)
	if got != nil {
		t.Errorf("record still present after delete: %+v", got)
	}
}

func TestIdleDevicesAndDelete(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	fresh := time.Now()
	for _, d := range []*domain.Device{
		{DeviceID: "anon_old", Label: "old", LastSeenAt: old, CreatedAt: old, UpdatedAt: old},
		{DeviceID: "anon_new", Label: "new", LastSeenAt: fresh, CreatedAt: fresh, UpdatedAt: fresh},
	} {
		if err := repo.UpsertDevice(ctx, d); err != nil {
			t.Fatalf("UpsertDevice(%s) error = %v", d.DeviceID, err)
		}
	}
	if err := repo.UpsertSessionState(ctx, &domain.SessionRecord{
		DeviceID: "anon_old", Namespace: domain.StorageNamespace, Tone: domain.ToneFriendly, Phase: domain.Phase0002,
	}); err != nil {
		t.Fatalf("UpsertSessionState() error = %v", err)
	}

	idle, err := repo.GetIdleDevices(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("GetIdleDevices() error = %v", err)
	}
	if len(idle) != 1 || idle[0].DeviceID != "anon_old" {
		t.Fatalf("idle = %+v, want only anon_old", idle)
	}

	if err := repo.DeleteDevice(ctx, "anon_old"); err != nil {
		t.Fatalf("DeleteDevice() error = %v", err)
	}
	if d, _ := repo.GetDevice(ctx, "anon_old"); d != nil {
		t.Error("device still present after delete")
	}
	if rec, _ := repo.GetSessionState(ctx, "anon_old", domain.StorageNamespace); rec != nil {
		t.Error("session state still present after device delete")
	}
}

func TestPing(t *testing.T) {
	repo := newTestStore(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestIsConflictError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("SQLITE_BUSY: database busy"), true},
		{errors.New("database is locked"), true},
		{errors.New("no such table"), false},
	}
	for _, tt := range tests {
		if got := IsConflictError(tt.err); got != tt.want {
			t.Errorf("IsConflictError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestWithRetry(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), "op", "anon_1", func() error {
		calls++
		if calls < 2 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withRetry() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}

	calls = 0
	permanent := errors.New("constraint failed")
	err = withRetry(context.Background(), "op", "anon_1", func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("withRetry() error = %v, want wrapped permanent error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 for non-conflict error", calls)
	}
}
