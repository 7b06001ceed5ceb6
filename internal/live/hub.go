// Package live pushes session views to a device's open websocket connections.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/ashureev/fula/internal/identity"
	"github.com/ashureev/fula/internal/session"
	"github.com/ashureev/fula/internal/store"
	"github.com/coder/websocket"
)

const (
	writeTimeout = 5 * time.Second
	touchTimeout = 5 * time.Second
)

// inbound is a client frame.
type inbound struct {
	Type   string          `json:"type"`
	Action string          `json:"action,omitempty"`
	Value  json.RawMessage `json:"value,omitempty"`
}

// outbound is a server frame.
type outbound struct {
	Type  string        `json:"type"`
	View  *session.View `json:"view,omitempty"`
	Error string        `json:"error,omitempty"`
}

// Hub tracks live connections per device and forwards session changes to them.
type Hub struct {
	repo     store.Repository
	sessions *session.Service
	accept   websocket.AcceptOptions

	mu     sync.RWMutex
	active map[string]map[*websocket.Conn]struct{}

	unsubscribe func()
}

// NewHub creates a hub subscribed to sessions. allowedOrigins follows the CORS
// list; "*" or dev mode accepts any origin.
func NewHub(repo store.Repository, sessions *session.Service, allowedOrigins []string, isDev bool) *Hub {
	h := &Hub{
		repo:     repo,
		sessions: sessions,
		accept:   websocket.AcceptOptions{OriginPatterns: originPatterns(allowedOrigins)},
		active:   make(map[string]map[*websocket.Conn]struct{}),
	}
	if isDev {
		h.accept.InsecureSkipVerify = true
	}
	h.unsubscribe = sessions.Subscribe(h.broadcast)
	return h
}

func originPatterns(allowed []string) []string {
	if slices.Contains(allowed, "*") {
		return []string{"*"}
	}
	out := make([]string, 0, len(allowed))
	for _, o := range allowed {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
		}
	}
	return out
}

// Register adds a connection for a device.
func (h *Hub) Register(deviceID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.active[deviceID]; !exists {
		h.active[deviceID] = make(map[*websocket.Conn]struct{})
	}
	h.active[deviceID][conn] = struct{}{}
	slog.Info("Live session registered", "device_id", deviceID, "connections", len(h.active[deviceID]))
}

// Unregister removes a connection for a device.
func (h *Hub) Unregister(deviceID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.active[deviceID]
	if !ok {
		return
	}
	if _, exists := conns[conn]; exists {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.active, deviceID)
		}
		slog.Info("Live session unregistered", "device_id", deviceID)
	}
}

// Connections returns the number of open connections for a device.
func (h *Hub) Connections(deviceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.active[deviceID])
}

// CloseDevice forcefully closes every connection of a device.
func (h *Hub) CloseDevice(deviceID string) {
	h.mu.Lock()
	conns := h.active[deviceID]
	delete(h.active, deviceID)
	h.mu.Unlock()

	for conn := range conns {
		_ = conn.Close(websocket.StatusNormalClosure, "session closed")
	}
	if len(conns) > 0 {
		slog.Info("Live session closed", "device_id", deviceID, "connections", len(conns))
	}
}

// Close stops listening for session changes and drops every connection.
func (h *Hub) Close() {
	h.unsubscribe()

	h.mu.Lock()
	active := h.active
	h.active = make(map[string]map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, conns := range active {
		for conn := range conns {
			_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		}
	}
}

func (h *Hub) broadcast(deviceID string, v session.View) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.active[deviceID]))
	for conn := range h.active[deviceID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := writeJSON(context.Background(), conn, outbound{Type: "session", View: &v}); err != nil {
			slog.Debug("Failed to push session view", "error", err, "device_id", deviceID)
		}
	}
}

// ServeHTTP implements http.Handler for the websocket upgrade.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	deviceID := identity.DeviceIDFromContext(r.Context())
	if deviceID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	slog.Info("Live connection request",
		"device_id", deviceID,
		"label", identity.LabelFromContext(r.Context()),
		"ip", identity.IPFromRequest(r))

	ws, err := websocket.Accept(w, r, &h.accept)
	if err != nil {
		slog.Warn("Failed to accept websocket", "error", err, "device_id", deviceID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "device_id", deviceID)
		}
	}()

	ctx := r.Context()
	h.Register(deviceID, ws)
	defer h.Unregister(deviceID, ws)

	v, err := h.sessions.Get(ctx, deviceID)
	if err != nil {
		slog.Error("Failed to load session", "error", err, "device_id", deviceID)
		_ = writeJSON(ctx, ws, outbound{Type: "error", Error: "session_unavailable"})
		return
	}
	if err := writeJSON(ctx, ws, outbound{Type: "session", View: &v}); err != nil {
		slog.Debug("Failed to send initial view", "error", err, "device_id", deviceID)
		return
	}

	h.readLoop(ctx, ws, deviceID)
	slog.Info("Live session ended", "device_id", deviceID)
}

func (h *Hub) readLoop(ctx context.Context, ws *websocket.Conn, deviceID string) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 || errors.Is(err, context.Canceled) {
				slog.Debug("Websocket closed by client", "device_id", deviceID)
			} else {
				slog.Warn("Websocket read error", "error", err, "device_id", deviceID)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = writeJSON(ctx, ws, outbound{Type: "error", Error: "malformed message"})
			continue
		}

		switch msg.Type {
		case "ping":
			if err := writeJSON(ctx, ws, outbound{Type: "pong"}); err != nil {
				slog.Debug("Failed to send pong", "error", err)
			}
		case "action":
			h.handleAction(ctx, ws, deviceID, msg)
		default:
			_ = writeJSON(ctx, ws, outbound{Type: "error", Error: "unknown message type"})
		}

		go h.touch(deviceID)
	}
}

// handleAction dispatches a client action. The resulting view reaches this
// connection through the hub's subscription.
func (h *Hub) handleAction(ctx context.Context, ws *websocket.Conn, deviceID string, msg inbound) {
	a, err := session.DecodeAction(msg.Action, msg.Value)
	if err == nil {
		_, err = h.sessions.Dispatch(ctx, deviceID, a)
	}
	if err == nil {
		return
	}
	text := "internal error"
	if errors.Is(err, session.ErrInvalidAction) {
		text = err.Error()
	} else {
		slog.Error("Live action failed", "error", err, "device_id", deviceID, "action", msg.Action)
	}
	if err := writeJSON(ctx, ws, outbound{Type: "error", Error: text}); err != nil {
		slog.Debug("Failed to send action error", "error", err)
	}
}

func (h *Hub) touch(deviceID string) {
	ctx, cancel := context.WithTimeout(context.Background(), touchTimeout)
	defer cancel()
	if err := h.repo.UpdateLastSeen(ctx, deviceID, time.Now()); err != nil {
		slog.Warn("Failed to update last seen", "error", err, "device_id", deviceID)
	}
}

func writeJSON(ctx context.Context, ws *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return ws.Write(ctx, websocket.MessageText, data)
}
