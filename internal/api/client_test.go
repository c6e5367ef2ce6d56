package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend is a fake server keyed by "METHOD /path".
type backend struct {
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	last     *http.Request
	lastBody []byte
}

func newBackend(t *testing.T) (*backend, *Client) {
	t.Helper()
	b := &backend{handlers: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		b.mu.Lock()
		b.last = r.Clone(r.Context())
		b.lastBody = body
		h, ok := b.handlers[r.Method+" "+r.URL.Path]
		b.mu.Unlock()

		if !ok {
			writeEnvelope(w, http.StatusNotFound, false, "no route", nil)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return b, New(srv.URL, 2*time.Second)
}

func (b *backend) on(route string, status int, success bool, message string, data any) {
	b.handle(route, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, status, success, message, data)
	})
}

func (b *backend) handle(route string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[route] = h
}

// lastRequest returns the most recent request's headers, URL and body.
func (b *backend) lastRequest() (*http.Request, []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.lastBody
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"message": message,
		"data":    data,
	})
}

func TestClient_UnwrapsEnvelope(t *testing.T) {
	b, c := newBackend(t)
	b.on("GET /api/auth/me", http.StatusOK, true, "", map[string]any{"id": 7, "username": "kim"})

	u, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "kim", u.Username)
}

func TestClient_SendsBearerToken(t *testing.T) {
	b, c := newBackend(t)
	b.on("GET /api/auth/me", http.StatusOK, true, "", map[string]any{})

	_, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	req, _ := b.lastRequest()
	assert.Empty(t, req.Header.Get("Authorization"))

	c.SetToken("abc")
	_, err = c.CurrentUser(context.Background())
	require.NoError(t, err)
	req, _ = b.lastRequest()
	assert.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
	assert.Equal(t, "abc", c.Token())
}

func TestClient_Errors(t *testing.T) {
	t.Run("non-2xx carries server message", func(t *testing.T) {
		b, c := newBackend(t)
		b.on("GET /api/auth/me", http.StatusUnauthorized, false, "token expired", nil)

		_, err := c.CurrentUser(context.Background())
		require.Error(t, err)
		assert.Equal(t, "token expired", err.Error())
		assert.True(t, IsUnauthorized(err))
		assert.False(t, IsNotFound(err))
	})

	t.Run("non-2xx without message", func(t *testing.T) {
		b, c := newBackend(t)
		b.handle("DELETE /api/files/3", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		err := c.DeleteFile(context.Background(), 3)
		require.Error(t, err)
		assert.Equal(t, DefaultErrorMessage, err.Error())
		assert.True(t, IsNotFound(err))
	})

	t.Run("success false on 200", func(t *testing.T) {
		b, c := newBackend(t)
		b.on("POST /api/extensions/custom", http.StatusOK, false, "already exists", nil)

		_, err := c.AddCustomExtension(context.Background(), "exe")
		require.Error(t, err)
		assert.Equal(t, "already exists", err.Error())
	})

	t.Run("network failure", func(t *testing.T) {
		c := New("http://127.0.0.1:1", 500*time.Millisecond)

		_, err := c.CurrentUser(context.Background())
		require.Error(t, err)
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Zero(t, apiErr.Status)
	})
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://example.test/", 0)
	assert.Equal(t, "http://example.test", c.BaseURL())
}

func TestItemQuery_Values(t *testing.T) {
	assert.Empty(t, ItemQuery{}.Values().Encode())

	v := ItemQuery{Page: 2, Size: 20, Name: "bolt", Sort: "name,asc"}.Values()
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "20", v.Get("size"))
	assert.Equal(t, "bolt", v.Get("name"))
	assert.Equal(t, "name,asc", v.Get("sort"))
	assert.Empty(t, v.Get("category"))
}

func TestFixedExtension_UnmarshalJSON(t *testing.T) {
	var exts []FixedExtension
	err := json.Unmarshal([]byte(`[
		{"id":1,"extension":"bat","blocked":true},
		{"id":2,"extension":"cmd","blocked":false},
		{"id":3,"extension":"com"}
	]`), &exts)
	require.NoError(t, err)
	require.Len(t, exts, 3)

	assert.True(t, exts[0].IsBlocked)
	assert.False(t, exts[1].IsBlocked)
	assert.False(t, exts[2].IsBlocked)
	assert.Equal(t, "com", exts[2].Extension)
}
