//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ashureev/fula/internal/content"
	"github.com/ashureev/fula/internal/identity"
	"github.com/ashureev/fula/internal/resolve"
	"github.com/ashureev/fula/internal/session"
	"github.com/ashureev/fula/internal/store"
	"github.com/go-chi/chi/v5"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

// sessionBody is the subset of a session view the tests inspect.
type sessionBody struct {
	PersonaID     string   `json:"persona_id"`
	Tone          string   `json:"tone"`
	CurrentPhase  string   `json:"current_phase"`
	Goals         []string `json:"goals"`
	GoalsConflict bool     `json:"goals_conflict"`
	Persona       *struct {
		Name string `json:"name"`
	} `json:"persona"`
	Messages      []json.RawMessage `json:"messages"`
	EvidenceCards []json.RawMessage `json:"evidence_cards"`
}

type testClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()

	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	cat, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default() error = %v", err)
	}
	resolver := resolve.New(cat)
	h := NewHandler(resolver, session.NewService(repo, resolver))

	r := chi.NewRouter()
	r.Use(identity.Middleware(repo, true))
	NewHealthHandler(repo).RegisterHealth(r)
	h.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New() error = %v", err)
	}
	return &testClient{t: t, base: srv.URL, http: &http.Client{Jar: jar}}
}

func (c *testClient) do(method, path, body string) *http.Response {
	c.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		c.t.Fatalf("NewRequest() error = %v", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s error = %v", method, path, err)
	}
	c.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (c *testClient) session(method, path, body string, wantStatus int) sessionBody {
	c.t.Helper()
	resp := c.do(method, path, body)
	if resp.StatusCode != wantStatus {
		c.t.Fatalf("%s %s status = %d, want %d", method, path, resp.StatusCode, wantStatus)
	}
	var v sessionBody
	if wantStatus == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
			c.t.Fatalf("decode %s: %v", path, err)
		}
	}
	return v
}

func TestHealth(t *testing.T) {
	c := newTestClient(t)
	resp := c.do(http.MethodGet, "/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "healthy" || body.Checks["database"] != "ok" {
		t.Errorf("health = %+v", body)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	c := newTestClient(t)

	tests := []struct {
		path       string
		wantStatus int
		wantText   string
	}{
		{"/api/personas", http.StatusOK, "The Concentrated Bettor"},
		{"/api/personas/3", http.StatusOK, "The Freedom Builder"},
		{"/api/personas/2", http.StatusOK, `"archetype":"PAW-capable, but only if survival capital is protected from the bets"`},
		{"/api/personas/4", http.StatusOK, `"countermeasure":"Show assumption table and model boundaries`},
		{"/api/personas/9", http.StatusNotFound, "not found"},
		{"/api/personas/1/metrics", http.StatusOK, "runway_months"},
		{"/api/personas/1/phases/02-06", http.StatusOK, "Reality Snapshot"},
		{"/api/personas/1/phases/02-06?tone=direct", http.StatusOK, `"tone":"direct"`},
		{"/api/personas/1/phases/02-06?tone=loud", http.StatusBadRequest, "unknown tone"},
		{"/api/personas/1/phases/99-99", http.StatusNotFound, "not found"},
		{"/api/scenarios", http.StatusOK, "Liquidity Crisis Drill"},
		{"/api/phases", http.StatusOK, "28-30"},
		{"/api/goals", http.StatusOK, `"max_goals":3`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := c.do(http.MethodGet, tt.path, "")
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.wantStatus, body)
			}
			if !bytes.Contains(body, []byte(tt.wantText)) {
				t.Errorf("body does not contain %q: %s", tt.wantText, body)
			}
		})
	}
}

func TestPersonaListingHidesProfile(t *testing.T) {
	c := newTestClient(t)
	body, _ := io.ReadAll(c.do(http.MethodGet, "/api/personas", "").Body)
	if bytes.Contains(body, []byte("pretax_income")) || bytes.Contains(body, []byte(`"personality"`)) {
		t.Errorf("persona listing leaks profile: %s", body)
	}
}

func TestSessionFlow(t *testing.T) {
	c := newTestClient(t)

	v := c.session(http.MethodGet, "/api/session", "", http.StatusOK)
	if v.Tone != "friendly" || v.CurrentPhase != "00-02" || v.Persona != nil {
		t.Fatalf("initial session = %+v", v)
	}

	v = c.session(http.MethodPut, "/api/session/persona", `{"value":"1"}`, http.StatusOK)
	if v.Persona == nil || v.Persona.Name != "The Anxious High Earner" {
		t.Fatalf("persona not applied: %+v", v)
	}
	if len(v.Messages) == 0 {
		t.Error("persona session should carry messages")
	}

	v = c.session(http.MethodPost, "/api/session/phase/next", "", http.StatusOK)
	if v.CurrentPhase != "02-06" || len(v.EvidenceCards) != 3 {
		t.Errorf("after next: phase %s, %d cards", v.CurrentPhase, len(v.EvidenceCards))
	}

	c.session(http.MethodPut, "/api/session/tone", `{"value":"loud"}`, http.StatusBadRequest)
	c.session(http.MethodPut, "/api/session/colour", `{"value":"red"}`, http.StatusNotFound)
	c.session(http.MethodPut, "/api/session/phase", `not json`, http.StatusBadRequest)

	v = c.session(http.MethodPut, "/api/session/goals",
		`{"value":["Financial Freedom (time independence)","Buy Investment Property"]}`, http.StatusOK)
	if !v.GoalsConflict {
		t.Error("freedom plus property should flag a conflict")
	}

	// State persists across requests from the same device.
	v = c.session(http.MethodGet, "/api/session", "", http.StatusOK)
	if v.PersonaID != "1" || v.CurrentPhase != "02-06" || v.Tone != "friendly" {
		t.Errorf("persisted session = %+v", v)
	}

	v = c.session(http.MethodPost, "/api/session/reset", "", http.StatusOK)
	if v.PersonaID != "" || v.CurrentPhase != "00-02" || len(v.Goals) != 0 {
		t.Errorf("reset session = %+v", v)
	}
}

func TestSessionsAreIsolatedPerDevice(t *testing.T) {
	a := newTestClient(t)
	a.session(http.MethodPut, "/api/session/persona", `{"value":"2"}`, http.StatusOK)

	b := &testClient{t: t, base: a.base, http: &http.Client{}}
	if v := b.session(http.MethodGet, "/api/session", "", http.StatusOK); v.PersonaID != "" {
		t.Errorf("second device sees persona %q", v.PersonaID)
	}
}

func TestReport(t *testing.T) {
	c := newTestClient(t)

	if resp := c.do(http.MethodGet, "/api/session/report.pdf", ""); resp.StatusCode != http.StatusConflict {
		t.Errorf("report without persona status = %d, want 409", resp.StatusCode)
	}

	c.session(http.MethodPut, "/api/session/persona", `{"value":"2"}`, http.StatusOK)
	c.session(http.MethodPut, "/api/session/phase", `{"value":"10-14"}`, http.StatusOK)

	resp := c.do(http.MethodGet, "/api/session/report.pdf", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("report status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("%PDF-")) {
		t.Error("report body is not a PDF")
	}
}
