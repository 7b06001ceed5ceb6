package live

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ashureev/fula/internal/content"
	"github.com/ashureev/fula/internal/domain"
	"github.com/ashureev/fula/internal/identity"
	"github.com/ashureev/fula/internal/resolve"
	"github.com/ashureev/fula/internal/session"
	"github.com/ashureev/fula/internal/store"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const testDevice = "anon_0123456789abcdef0123456789abcdef"

type frame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
	View  *struct {
		PersonaID    string `json:"persona_id"`
		Tone         string `json:"tone"`
		CurrentPhase string `json:"current_phase"`
	} `json:"view"`
}

func newHubServer(t *testing.T) (*Hub, *session.Service, string) {
	t.Helper()

	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "live.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	now := time.Now()
	if err := repo.UpsertDevice(context.Background(), &domain.Device{DeviceID: testDevice, CreatedAt: now, LastSeenAt: now}); err != nil {
		t.Fatalf("UpsertDevice() error = %v", err)
	}

	cat, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default() error = %v", err)
	}
	svc := session.NewService(repo, resolve.New(cat))
	hub := NewHub(repo, svc, []string{"*"}, true)
	t.Cleanup(hub.Close)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeHTTP(w, r.WithContext(identity.WithDevice(r.Context(), testDevice)))
	}))
	t.Cleanup(srv.Close)

	return hub, svc, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func read(t *testing.T, ctx context.Context, conn *websocket.Conn) frame {
	t.Helper()
	var f frame
	if err := wsjson.Read(ctx, conn, &f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func TestHubSendsInitialViewAndPong(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, url := newHubServer(t)

	conn := dial(t, ctx, url)
	f := read(t, ctx, conn)
	if f.Type != "session" || f.View == nil || f.View.CurrentPhase != "00-02" {
		t.Fatalf("initial frame = %+v", f)
	}

	if err := wsjson.Write(ctx, conn, map[string]string{"type": "ping"}); err != nil {
		t.Fatal(err)
	}
	if f := read(t, ctx, conn); f.Type != "pong" {
		t.Errorf("frame = %+v, want pong", f)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestHubLogsDeviceLabel(t *testing.T) {
	var logs syncBuffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, url := newHubServer(t)

	conn := dial(t, ctx, url)
	read(t, ctx, conn)
	if got := logs.String(); !strings.Contains(got, "label=device-90abcdef") {
		t.Errorf("connection log missing device label:\n%s", got)
	}
}

func TestHubActionBroadcastsToEveryConnection(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	hub, _, url := newHubServer(t)

	a := dial(t, ctx, url)
	read(t, ctx, a)
	b := dial(t, ctx, url)
	read(t, ctx, b)
	if n := hub.Connections(testDevice); n != 2 {
		t.Fatalf("Connections() = %d, want 2", n)
	}

	err := wsjson.Write(ctx, a, map[string]any{"type": "action", "action": "set_persona", "value": "4"})
	if err != nil {
		t.Fatal(err)
	}
	for name, conn := range map[string]*websocket.Conn{"sender": a, "peer": b} {
		f := read(t, ctx, conn)
		if f.Type != "session" || f.View == nil || f.View.PersonaID != "4" {
			t.Errorf("%s frame = %+v", name, f)
		}
	}
}

func TestHubForwardsServiceChanges(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, svc, url := newHubServer(t)

	conn := dial(t, ctx, url)
	read(t, ctx, conn)

	if _, err := svc.Dispatch(ctx, testDevice, session.SetTone{Tone: domain.ToneDirect}); err != nil {
		t.Fatal(err)
	}
	if f := read(t, ctx, conn); f.View == nil || f.View.Tone != "direct" {
		t.Errorf("frame = %+v, want direct tone", f)
	}
}

func TestHubRejectsInvalidAction(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, url := newHubServer(t)

	conn := dial(t, ctx, url)
	read(t, ctx, conn)

	if err := wsjson.Write(ctx, conn, map[string]any{"type": "action", "action": "set_tone", "value": "loud"}); err != nil {
		t.Fatal(err)
	}
	f := read(t, ctx, conn)
	if f.Type != "error" || !strings.Contains(f.Error, "invalid action") {
		t.Errorf("frame = %+v, want invalid action error", f)
	}
}

func TestCloseDevice(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	hub, _, url := newHubServer(t)

	conn := dial(t, ctx, url)
	read(t, ctx, conn)

	// The close handshake needs the client reading.
	go hub.CloseDevice(testDevice)
	if _, _, err := conn.Read(ctx); websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		t.Errorf("read after CloseDevice error = %v, want normal closure", err)
	}
	if n := hub.Connections(testDevice); n != 0 {
		t.Errorf("Connections() = %d after CloseDevice", n)
	}
}

func TestOriginPatterns(t *testing.T) {
	got := originPatterns([]string{"https://fula.example", "http://localhost:5173", "::bad"})
	if len(got) != 2 || got[0] != "fula.example" || got[1] != "localhost:5173" {
		t.Errorf("originPatterns() = %v", got)
	}
	if got := originPatterns([]string{"https://a.example", "*"}); len(got) != 1 || got[0] != "*" {
		t.Errorf("wildcard originPatterns() = %v", got)
	}
}
