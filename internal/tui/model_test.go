package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/extguard/internal/api"
	"github.com/colonyops/extguard/internal/core/modal"
	"github.com/colonyops/extguard/internal/stores"
	"github.com/colonyops/extguard/pkg/tuitest"
)

// fakeAPI serves canned envelopes keyed by "METHOD /path".
type fakeAPI struct {
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
	srv    *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{routes: map[string]http.HandlerFunc{}, hits: map[string]int{}}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		f.mu.Lock()
		f.hits[route]++
		h, ok := f.routes[route]
		f.mu.Unlock()
		if !ok {
			envelope(w, http.StatusNotFound, false, "not found", nil)
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func envelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": success, "message": message, "data": data})
}

func (f *fakeAPI) ok(route string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[route] = func(w http.ResponseWriter, _ *http.Request) {
		envelope(w, http.StatusOK, true, "", data)
	}
}

func (f *fakeAPI) fail(route string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[route] = func(w http.ResponseWriter, _ *http.Request) {
		envelope(w, status, false, message, nil)
	}
}

func (f *fakeAPI) hitCount(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[route]
}

type testEnv struct {
	api  *fakeAPI
	deps Deps
	ctx  context.Context
}

func newTestEnv(t *testing.T, signedIn bool) *testEnv {
	t.Helper()
	fake := newFakeAPI(t)
	client := api.New(fake.srv.URL, 2*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	env := &testEnv{
		api: fake,
		ctx: ctx,
		deps: Deps{
			Auth:        stores.NewAuthStore(client, nil),
			Extensions:  stores.NewExtensionStore(client, stores.ExtensionLimits{MaxFixed: 9, MaxCustom: 200, MaxLength: 20}),
			Files:       stores.NewFileStore(client, 10*time.Millisecond),
			Inventory:   stores.NewInventoryStore(client),
			Modal:       modal.NewHelper(modal.New()),
			DownloadDir: t.TempDir(),
		},
	}

	fake.ok("POST /api/auth/login", api.Token{AccessToken: "tok"})
	fake.ok("GET /api/auth/me", api.User{ID: 1, Username: "alice"})
	if signedIn {
		_, err := env.deps.Auth.Login(ctx, api.Credentials{Username: "alice", Password: "pw"})
		require.NoError(t, err)
	}
	return env
}

func (e *testEnv) model() Model {
	return New(e.ctx, e.deps)
}

// watchDialogs records each dialog presented while pending.
func watchDialogs(t *testing.T, ctrl *modal.Controller) <-chan modal.Config {
	t.Helper()
	ch := make(chan modal.Config, 8)
	unsubscribe := ctrl.Subscribe(func(st modal.State) {
		if st.IsOpen && st.Pending {
			ch <- st.Config
		}
	})
	t.Cleanup(unsubscribe)
	return ch
}

func nextDialog(t *testing.T, ch <-chan modal.Config) modal.Config {
	t.Helper()
	select {
	case cfg := <-ch:
		return cfg
	case <-time.After(2 * time.Second):
		t.Fatal("no dialog was presented")
		return modal.Config{}
	}
}

// runAsync runs cmd the way the Bubble Tea runtime does, off the event loop.
func runAsync(cmd tea.Cmd) <-chan tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	return out
}

func recv(t *testing.T, ch <-chan tea.Msg) tea.Msg {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("command did not finish")
		return nil
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func typeInto(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, k := range tuitest.Type(s) {
		m, _ = update(t, m, k)
	}
	return m
}

func TestModel_StartScreen(t *testing.T) {
	assert.Equal(t, ScreenLogin, newTestEnv(t, false).model().Screen())
	assert.Equal(t, ScreenDashboard, newTestEnv(t, true).model().Screen())
}

func TestModel_Login(t *testing.T) {
	env := newTestEnv(t, false)
	m := env.model()

	m = typeInto(t, m, "alice")
	m, _ = update(t, m, keyPressTab)
	m = typeInto(t, m, "pw")
	m, cmd := update(t, m, keyPressEnter)
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, authDoneMsg{}, msg)

	m, load := update(t, m, msg)
	assert.Equal(t, ScreenDashboard, m.Screen())
	assert.NotNil(t, load, "dashboard data is requested")
	assert.True(t, env.deps.Auth.IsAuthenticated())
}

func TestModel_LoginFailure(t *testing.T) {
	env := newTestEnv(t, false)
	env.api.fail("POST /api/auth/login", http.StatusUnauthorized, "bad credentials")
	m := env.model()

	m = typeInto(t, m, "alice")
	m, _ = update(t, m, keyPressTab)
	m = typeInto(t, m, "nope")
	m, cmd := update(t, m, keyPressEnter)
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.Equal(t, ScreenLogin, m.Screen())
	assert.NotEmpty(t, m.authForm.Err())
}

func TestModel_LoginRequiresBothFields(t *testing.T) {
	m := newTestEnv(t, false).model()

	m, _ = update(t, m, keyPressEnter)
	m, cmd := update(t, m, keyPressEnter)
	assert.Nil(t, cmd)
	assert.NotEmpty(t, m.authForm.Err())
}

func TestModel_SwitchToSignup(t *testing.T) {
	m := newTestEnv(t, false).model()

	m, _ = update(t, m, tuitest.Ctrl('s'))
	assert.Equal(t, ScreenSignup, m.Screen())
}

func TestModel_DialogOwnsKeys(t *testing.T) {
	env := newTestEnv(t, true)
	m := env.model()

	out := env.deps.Modal.Confirm(modal.WithMessage("sure?"))
	m, _ = update(t, m, dialogChangedMsg{})
	require.True(t, m.dialog.Visible())

	m, cmd := update(t, m, tuitest.KeyPress('q'))
	assert.Nil(t, cmd, "quit is not reachable behind the dialog")
	assert.False(t, m.quitting)

	m, _ = update(t, m, tuitest.KeyPress('y'))
	ok, err := out.Wait(env.ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, m.dialog.Visible())
}

func TestModel_ViewOverlaysDialog(t *testing.T) {
	env := newTestEnv(t, false)
	m := env.model()
	m, _ = update(t, m, tuitest.WindowSize(100, 30))

	view := tuitest.StripANSI(m.screenContent())
	assert.Contains(t, view, "extguard")
	assert.Contains(t, view, "로그인")

	env.deps.Modal.Confirm(modal.WithTitle("알림"), modal.WithMessage("세션이 만료되었습니다"))
	m, _ = update(t, m, dialogChangedMsg{})

	view = tuitest.StripANSI(m.screenContent())
	assert.Contains(t, view, "세션이 만료되었습니다")
}

func TestModel_DeleteCustomExtension(t *testing.T) {
	env := newTestEnv(t, true)
	env.api.ok("GET /api/extensions/fixed", []api.FixedExtension{})
	env.api.ok("GET /api/extensions/custom", []api.CustomExtension{{ID: 7, Extension: "sh"}})
	env.api.ok("DELETE /api/extensions/custom/7", nil)
	_, err := env.deps.Extensions.LoadCustom(env.ctx)
	require.NoError(t, err)

	dialogs := watchDialogs(t, env.deps.Modal.Controller)

	t.Run("declined", func(t *testing.T) {
		_, cmd := update(t, env.model(), tuitest.KeyPress('d'))
		require.NotNil(t, cmd)

		result := runAsync(cmd)
		cfg := nextDialog(t, dialogs)
		assert.Equal(t, modal.VariantDanger, cfg.Variant)
		assert.Contains(t, cfg.Message, ".sh")

		env.deps.Modal.HandleCancel()
		assert.Nil(t, recv(t, result))
		assert.Equal(t, 0, env.api.hitCount("DELETE /api/extensions/custom/7"))
	})

	t.Run("confirmed", func(t *testing.T) {
		_, cmd := update(t, env.model(), tuitest.KeyPress('d'))
		require.NotNil(t, cmd)

		result := runAsync(cmd)
		nextDialog(t, dialogs)
		env.deps.Modal.HandleConfirm()

		msg := recv(t, result)
		require.IsType(t, opDoneMsg{}, msg)
		assert.NoError(t, msg.(opDoneMsg).err)
		assert.Equal(t, 1, env.api.hitCount("DELETE /api/extensions/custom/7"))
	})
}

func TestModel_UploadRefusesBlockedExtension(t *testing.T) {
	env := newTestEnv(t, true)
	env.api.ok("GET /api/extensions/check/exe", true)
	dialogs := watchDialogs(t, env.deps.Modal.Controller)

	result := runAsync(env.model().uploadCmd("setup.exe"))

	cfg := nextDialog(t, dialogs)
	assert.Equal(t, modal.ErrorTitle, cfg.Title)
	assert.Contains(t, cfg.Message, ".exe")
	env.deps.Modal.HandleConfirm()

	msg := recv(t, result)
	assert.Error(t, msg.(opDoneMsg).err)
	assert.Equal(t, 0, env.api.hitCount("POST /api/files/upload"))
}

func TestModel_TestExtensionOffersUnblock(t *testing.T) {
	env := newTestEnv(t, true)
	env.api.ok("GET /api/extensions/check/sh", true)
	env.api.ok("GET /api/extensions/type/sh", api.ExtensionCustom)
	env.api.ok("DELETE /api/extensions/custom/extension/sh", nil)
	env.api.ok("GET /api/extensions/custom", []api.CustomExtension{})
	dialogs := watchDialogs(t, env.deps.Modal.Controller)

	result := runAsync(env.model().testExtensionCmd(".SH"))

	ask := nextDialog(t, dialogs)
	assert.Contains(t, ask.Message, ".sh")
	env.deps.Modal.HandleConfirm()

	ack := nextDialog(t, dialogs)
	assert.Equal(t, modal.VariantSuccess, ack.Variant)
	env.deps.Modal.HandleConfirm()

	recv(t, result)
	assert.Equal(t, 1, env.api.hitCount("DELETE /api/extensions/custom/extension/sh"))
}

func TestModel_UnauthorizedSignsOut(t *testing.T) {
	env := newTestEnv(t, true)
	m := env.model()

	m, cmd := update(t, m, opDoneMsg{err: &api.Error{Status: http.StatusUnauthorized}})
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.Equal(t, ScreenLogin, m.Screen())
	assert.False(t, env.deps.Auth.IsAuthenticated())
}

func TestModel_PromptValidation(t *testing.T) {
	env := newTestEnv(t, true)
	m := env.model()

	m, _ = update(t, m, tuitest.KeyPress('a'))
	require.NotNil(t, m.prompt)

	m = typeInto(t, m, "no way")
	m, cmd := update(t, m, keyPressEnter)
	assert.Nil(t, cmd)
	require.NotNil(t, m.prompt, "invalid input keeps the prompt open")
	assert.NotEmpty(t, m.prompt.Err())

	m, _ = update(t, m, keyPressEsc)
	assert.Nil(t, m.prompt)
}

func TestModel_InventoryNavigation(t *testing.T) {
	env := newTestEnv(t, true)
	m := env.model()

	m, cmd := update(t, m, tuitest.KeyPress('i'))
	assert.Equal(t, ScreenInventory, m.Screen())
	assert.NotNil(t, cmd)

	m, _ = update(t, m, tuitest.KeyPress('g'))
	assert.Equal(t, ScreenDashboard, m.Screen())
}

func TestParseItemForm(t *testing.T) {
	f := itemForm("", api.Item{ID: 3, Name: "bolt", Quantity: 4, Price: 1.5})
	in, err := parseItemForm(f)
	require.NoError(t, err)
	assert.Equal(t, api.ItemInput{Name: "bolt", Quantity: 4, Price: 1.5}, in)

	bad := NewForm("", FieldSpec{Key: "quantity", Value: "many"})
	_, err = parseItemForm(bad)
	assert.Error(t, err)
}

func TestClampCursor(t *testing.T) {
	assert.Equal(t, 0, clampCursor(3, 0))
	assert.Equal(t, 0, clampCursor(-1, 5))
	assert.Equal(t, 4, clampCursor(9, 5))
	assert.Equal(t, 2, clampCursor(2, 5))
}
