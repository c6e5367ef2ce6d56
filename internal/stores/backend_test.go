package stores

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/colonyops/extguard/internal/api"
	"github.com/colonyops/extguard/internal/data/db"
	datastores "github.com/colonyops/extguard/internal/data/stores"
)

// fakeBackend answers "METHOD /path" routes with envelope bodies and counts
// the hits on each route.
type fakeBackend struct {
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
	bodies map[string][]byte
	srv    *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		routes: map[string]http.HandlerFunc{},
		hits:   map[string]int{},
		bodies: map[string][]byte{},
	}
	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) client() *api.Client {
	return api.New(b.srv.URL, 2*time.Second)
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path

	b.mu.Lock()
	b.hits[route]++
	if r.Header.Get("Content-Type") == "application/json" {
		body, _ := io.ReadAll(r.Body)
		b.bodies[route] = body
	}
	h, ok := b.routes[route]
	b.mu.Unlock()

	if !ok {
		reply(w, http.StatusNotFound, false, "not found", nil)
		return
	}
	h(w, r)
}

func (b *fakeBackend) ok(route string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[route] = func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, true, "", data)
	}
}

func (b *fakeBackend) fail(route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[route] = func(w http.ResponseWriter, _ *http.Request) {
		reply(w, status, false, message, nil)
	}
}

func (b *fakeBackend) handle(route string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[route] = h
}

func (b *fakeBackend) hitCount(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[route]
}

func (b *fakeBackend) body(t *testing.T, route string) map[string]any {
	t.Helper()
	b.mu.Lock()
	raw := b.bodies[route]
	b.mu.Unlock()

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func reply(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"message": message,
		"data":    data,
	})
}

func newTokenStore(t *testing.T) *datastores.TokenStore {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return datastores.NewTokenStore(datastores.NewKVStore(database), 0)
}
