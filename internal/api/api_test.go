package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huntbot/internal/api"
	"huntbot/internal/browse"
	"huntbot/internal/events"
	"huntbot/internal/gateway"
	"huntbot/internal/gateway/gatewaytest"
	"huntbot/internal/interact"
	"huntbot/internal/settings"
	"huntbot/internal/tabstore/sqlitestore"
)

const testToken = "secret-token"

type fixture struct {
	server   *api.Server
	sessions *browse.Manager
	registry *interact.Registry
	hub      *events.Hub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlitestore.Open(context.Background(), filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	sessions := browse.NewManager(browse.Options{Lifespan: time.Hour, Site: browse.NewMemSite()})
	t.Cleanup(sessions.CloseAll)
	svc := settings.NewService(store, gatewaytest.NewPins("bot-1"), sessions, "tmpl", "bot@service.example")
	registry := interact.NewRegistry(time.Hour)
	hub := events.NewHub(16)

	return &fixture{
		server:   api.New(api.Config{Listen: "127.0.0.1:0", Token: testToken}, svc, registry, hub),
		sessions: sessions,
		registry: registry,
		hub:      hub,
	}
}

func get(t *testing.T, f *fixture, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.server.Routes().ServeHTTP(rec, req)
	return rec
}

func TestHealthzNoAuth(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec := get(t, f, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.HealthzResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestStatusRequiresToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	assert.Equal(t, http.StatusUnauthorized, get(t, f, "/api/status", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, f, "/api/status", "wrong").Code)

	f.registry.Button(func(context.Context, *gateway.Interaction) error { return nil })

	rec := get(t, f, "/api/status", testToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bot@service.example", resp.Email)
	assert.Equal(t, 1, resp.Handlers)
}

func TestSessionsListsLiveSessions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.sessions.Session("https://hunt.example.com/puzzles")
	require.NoError(t, err)

	rec := get(t, f, "/api/sessions", testToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.SessionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Sessions, 1)
	assert.Equal(t, "https://hunt.example.com/puzzles", resp.Sessions[0].Origin)
	assert.Equal(t, "idle", resp.Sessions[0].State)
	assert.Equal(t, "https://hunt.example.com/login", resp.Sessions[0].LoginURL)
}

func TestEventsReplaySinceLastID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.hub.Publish(events.TypeLogin, map[string]string{"site": "a"})
	f.hub.Publish(events.TypePuzzleAppended, map[string]string{"tab": "p1"})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Last-Event-ID", "1")
	rec := httptest.NewRecorder()
	f.server.Routes().ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.NotContains(t, body, "id: 1\n")
	assert.Contains(t, body, "id: 2\n")
	assert.Contains(t, body, "event: puzzle_appended\n")
	assert.Contains(t, body, `"tab":"p1"`)
}
