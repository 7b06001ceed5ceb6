// Package identity provides anonymous per-device identity primitives.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"time"

	"github.com/ashureev/fula/internal/domain"
	"github.com/ashureev/fula/internal/store"
)

const (
	AnonCookieName   = "fula_anon_id"
	anonCookieMaxAge = 30 * 24 * time.Hour
	touchInterval    = time.Minute
)

type contextKey int

const (
	deviceIDKey contextKey = iota
	labelKey
)

var anonIDPattern = regexp.MustCompile(`^anon_[a-f0-9]{32}$`)

// DeviceIDFromContext extracts the device ID from the request context.
func DeviceIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(deviceIDKey).(string); ok {
		return v
	}
	return ""
}

// LabelFromContext extracts the short display label of the device.
func LabelFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(labelKey).(string); ok {
		return v
	}
	return ""
}

// WithDevice returns a context carrying deviceID, as the middleware would set it.
func WithDevice(ctx context.Context, deviceID string) context.Context {
	ctx = context.WithValue(ctx, deviceIDKey, deviceID)
	return context.WithValue(ctx, labelKey, deriveLabel(deviceID))
}

func generateAnonID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate anonymous id: %w", err)
	}
	return "anon_" + hex.EncodeToString(buf), nil
}

func isValidAnonID(id string) bool {
	return anonIDPattern.MatchString(id)
}

func deriveLabel(deviceID string) string {
	if len(deviceID) > 13 {
		return "device-" + deviceID[len(deviceID)-8:]
	}
	return "device"
}

// ensureDevice creates the device row on first sight and refreshes last_seen_at
// at most once per touchInterval.
func ensureDevice(ctx context.Context, repo store.Repository, deviceID string) error {
	d, err := repo.GetDevice(ctx, deviceID)
	if err != nil {
		return err
	}

	now := time.Now()
	if d == nil {
		return repo.UpsertDevice(ctx, &domain.Device{
			DeviceID:   deviceID,
			Label:      deriveLabel(deviceID),
			LastSeenAt: now,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if d.Idle(now) < touchInterval {
		return nil
	}
	return repo.UpdateLastSeen(ctx, deviceID, now)
}

func setCookie(w http.ResponseWriter, id string, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AnonCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(anonCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(anonCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}

func getOrCreateAnonID(w http.ResponseWriter, r *http.Request, isDev bool) (string, error) {
	if c, err := r.Cookie(AnonCookieName); err == nil && isValidAnonID(c.Value) {
		setCookie(w, c.Value, isDev)
		return c.Value, nil
	}

	id, err := generateAnonID()
	if err != nil {
		return "", err
	}
	setCookie(w, id, isDev)
	return id, nil
}

// Middleware injects the anonymous device identity into the request context.
func Middleware(repo store.Repository, isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceID, err := getOrCreateAnonID(w, r, isDev)
			if err != nil {
				http.Error(w, `{"error":"failed to establish anonymous identity"}`, http.StatusInternalServerError)
				return
			}

			if err := ensureDevice(r.Context(), repo, deviceID); err != nil {
				slog.Error("failed to initialize device", "device_id", deviceID, "ip", IPFromRequest(r), "error", err)
				http.Error(w, `{"error":"failed to initialize anonymous device"}`, http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithDevice(r.Context(), deviceID)))
		})
	}
}

// IPFromRequest returns a normalized remote IP for optional request tracing.
func IPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
