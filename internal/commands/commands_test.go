package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/extguard/internal/api"
	"github.com/colonyops/extguard/internal/app"
	"github.com/colonyops/extguard/internal/core/config"
)

type backend struct {
	mu     sync.Mutex
	routes map[string]any
	hits   map[string]int
}

func newBackend(t *testing.T) (*backend, string) {
	t.Helper()
	b := &backend{routes: map[string]any{}, hits: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		b.mu.Lock()
		b.hits[route]++
		data, ok := b.routes[route]
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
	}))
	t.Cleanup(srv.Close)

	b.routes["POST /api/auth/login"] = api.Token{AccessToken: "tok"}
	b.routes["GET /api/auth/me"] = api.User{ID: 1, Username: "alice", Email: "a@example.com"}
	return b, srv.URL
}

func (b *backend) on(route string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[route] = data
}

func (b *backend) hitCount(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[route]
}

// newTestApp returns an App signed in against a fake backend and a root
// command whose output is captured.
func newTestApp(t *testing.T) (*backend, *Flags, *app.App, *cli.Command, *bytes.Buffer) {
	t.Helper()
	b, url := newBackend(t)

	cfg, err := config.Load("", t.TempDir())
	require.NoError(t, err)
	cfg.API.BaseURL = url
	cfg.API.Timeout = 2 * time.Second

	database, err := app.OpenDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	a := app.New(cfg, database)
	_, err = a.Auth.Login(context.Background(), api.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	var out bytes.Buffer
	root := &cli.Command{
		Name:           "extguard",
		Writer:         &out,
		ErrWriter:      &out,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	return b, &Flags{Config: cfg}, a, root, &out
}

func TestExtCheck(t *testing.T) {
	b, flags, a, root, out := newTestApp(t)
	b.on("GET /api/extensions/check/exe", true)
	b.on("GET /api/extensions/type/exe", api.ExtensionFixed)
	root = NewExtCmd(flags, a).Register(root)

	err := root.Run(context.Background(), []string{"extguard", "ext", "check", ".EXE"})
	require.Error(t, err, "blocked extensions exit non-zero")
	assert.Contains(t, out.String(), "'.exe' is blocked (fixed list)")
}

func TestExtUnblockCustom(t *testing.T) {
	b, flags, a, root, out := newTestApp(t)
	b.on("GET /api/extensions/check/sh", true)
	b.on("GET /api/extensions/type/sh", api.ExtensionCustom)
	b.on("DELETE /api/extensions/custom/extension/sh", nil)
	b.on("GET /api/extensions/custom", []api.CustomExtension{})
	root = NewExtCmd(flags, a).Register(root)

	require.NoError(t, root.Run(context.Background(), []string{"extguard", "ext", "unblock", "sh"}))
	assert.Equal(t, 1, b.hitCount("DELETE /api/extensions/custom/extension/sh"))
	assert.Contains(t, out.String(), "unblocked")
}

func TestExtListJSON(t *testing.T) {
	b, flags, a, root, out := newTestApp(t)
	b.on("GET /api/extensions/fixed", []map[string]any{{"id": 1, "extension": "bat", "blocked": true}})
	b.on("GET /api/extensions/custom", []api.CustomExtension{{ID: 2, Extension: "sh"}})
	root = NewExtCmd(flags, a).Register(root)

	require.NoError(t, root.Run(context.Background(), []string{"extguard", "ext", "ls", "--json"}))

	var got extensionList
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got.Fixed, 1)
	assert.True(t, got.Fixed[0].IsBlocked)
	assert.Equal(t, "sh", got.Custom[0].Extension)
}

func TestExtRequiresLogin(t *testing.T) {
	_, flags, a, root, _ := newTestApp(t)
	require.NoError(t, a.Auth.Logout(context.Background()))
	root = NewExtCmd(flags, a).Register(root)

	err := root.Run(context.Background(), []string{"extguard", "ext", "ls"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestFilesList(t *testing.T) {
	b, flags, a, root, out := newTestApp(t)
	b.on("GET /api/files", []api.FileInfo{
		{ID: 1, OriginalFilename: "report.pdf", FileSize: 2048},
		{ID: 2, OriginalFilename: "notes.txt", FileSize: 10},
	})
	root = NewFilesCmd(flags, a).Register(root)

	require.NoError(t, root.Run(context.Background(), []string{"extguard", "files", "ls", "--match", "*.pdf"}))
	assert.Contains(t, out.String(), "report.pdf")
	assert.Contains(t, out.String(), "2.0 KiB")
	assert.NotContains(t, out.String(), "notes.txt")
}

func TestFilesRemoveUnknownID(t *testing.T) {
	b, flags, a, root, _ := newTestApp(t)
	b.on("GET /api/files", []api.FileInfo{})
	root = NewFilesCmd(flags, a).Register(root)

	err := root.Run(context.Background(), []string{"extguard", "files", "rm", "--yes", "9"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no file with id 9")
}

func TestInventoryCount(t *testing.T) {
	b, flags, a, root, out := newTestApp(t)
	b.on("GET /api/inventory/count", 42)
	root = NewInventoryCmd(flags, a).Register(root)

	require.NoError(t, root.Run(context.Background(), []string{"extguard", "inventory", "count"}))
	assert.Equal(t, "42", strings.TrimSpace(out.String()))
}

func TestInventoryAddValidates(t *testing.T) {
	_, flags, a, root, _ := newTestApp(t)
	root = NewInventoryCmd(flags, a).Register(root)

	err := root.Run(context.Background(), []string{"extguard", "inventory", "add", "--name", "bolt", "--quantity=-1"})
	assert.Error(t, err)
}

func TestInventoryAddFromFile(t *testing.T) {
	b, flags, a, root, out := newTestApp(t)
	b.on("POST /api/inventory", api.Item{ID: 9, Name: "bolt", Quantity: 3})
	b.on("GET /api/inventory", api.Page[api.Item]{Content: []api.Item{{ID: 9, Name: "bolt", Quantity: 3}}, TotalElements: 1, TotalPages: 1})
	root = NewInventoryCmd(flags, a).Register(root)

	path := filepath.Join(t.TempDir(), "item.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"bolt","quantity":3,"price":0.5}`), 0o600))

	require.NoError(t, root.Run(context.Background(), []string{"extguard", "inventory", "add", "-f", path}))
	assert.Equal(t, 1, b.hitCount("POST /api/inventory"))
	assert.Contains(t, out.String(), "created bolt (id 9)")
}

func TestWhoamiJSON(t *testing.T) {
	_, flags, a, root, out := newTestApp(t)
	root = NewAuthCmd(flags, a).Register(root)

	require.NoError(t, root.Run(context.Background(), []string{"extguard", "whoami", "--json"}))

	var u api.User
	require.NoError(t, json.Unmarshal(out.Bytes(), &u))
	assert.Equal(t, "alice", u.Username)
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg, err := config.Load("", t.TempDir())
		require.NoError(t, err)

		result := validate(cfg, "")
		assert.True(t, result.Valid)
		assert.NotEmpty(t, result.Warnings, "default backend is plain http")
	})

	t.Run("field errors", func(t *testing.T) {
		cfg, err := config.Load("", t.TempDir())
		require.NoError(t, err)
		cfg.Extensions.MaxFixed = cfg.Extensions.MaxCustom + 1

		result := validate(cfg, "")
		assert.False(t, result.Valid)
		require.NotEmpty(t, result.Errors)
		assert.Equal(t, "extensions.max_fixed", result.Errors[0].Field)
	})
}
