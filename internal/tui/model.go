// Package tui is the terminal admin client. Screens are guarded by Resolve.
// Every confirmation, success and error notice goes through the shared modal
// controller: background commands block on its outcomes while Dialog renders
// the slot and feeds key presses back into it.
package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/extguard/internal/core/logging"
	"github.com/colonyops/extguard/internal/core/modal"
	"github.com/colonyops/extguard/internal/stores"
)

// Deps are the stores the UI drives.
type Deps struct {
	Auth        *stores.AuthStore
	Extensions  *stores.ExtensionStore
	Files       *stores.FileStore
	Inventory   *stores.InventoryStore
	Modal       *modal.Helper
	DownloadDir string
}

type dashboardTab int

const (
	tabExtensions dashboardTab = iota
	tabFiles
)

type promptKind int

const (
	promptNone promptKind = iota
	promptAddCustom
	promptAddFixed
	promptTestExtension
	promptUpload
	promptItem
)

// Model is the root Bubble Tea model.
type Model struct {
	ctx  context.Context
	deps Deps
	keys KeyMap
	log  zerolog.Logger

	screen Screen
	tab    dashboardTab

	extCursor  int
	fileCursor int
	itemCursor int

	authForm   *Form // login or signup screen
	prompt     *Form // overlay form on the dashboard or inventory screen
	promptKind promptKind
	editingID  int64 // item being edited; 0 when adding

	dialog Dialog
	status string

	width    int
	height   int
	quitting bool
}

// New creates the model. ctx bounds every background command; cancel it to
// release commands blocked on a dialog.
func New(ctx context.Context, deps Deps) Model {
	m := Model{
		ctx:    ctx,
		deps:   deps,
		keys:   DefaultKeyMap(),
		log:    logging.Component("tui"),
		dialog: NewDialog(deps.Modal.Controller),
	}
	m.screen = Resolve(ScreenHome, deps.Auth.IsAuthenticated())
	m.resetScreenState()
	return m
}

// Screen returns the screen being shown.
func (m Model) Screen() Screen {
	return m.screen
}

// Init loads data for the first screen.
func (m Model) Init() tea.Cmd {
	return m.loadScreen()
}

// Update routes messages to their handlers.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case dialogChangedMsg:
		return m, m.dialog.Sync(m.deps.Modal.State())
	case uploadsChangedMsg:
		return m, nil
	case authDoneMsg:
		return m.handleAuthDone(msg)
	case signedUpMsg:
		return m.handleSignedUp()
	case opDoneMsg:
		return m.handleOpDone(msg)
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	default:
		return m.handleFallthrough(msg)
	}
}

// navigate moves to target after applying route guards.
func (m Model) navigate(target Screen) (Model, tea.Cmd) {
	next := Resolve(target, m.deps.Auth.IsAuthenticated())
	if next != m.screen {
		m.log.Debug().Str("from", string(m.screen)).Str("to", string(next)).Msg("navigate")
	}
	m.screen = next
	m.resetScreenState()
	return m, m.loadScreen()
}

func (m *Model) resetScreenState() {
	m.prompt = nil
	m.promptKind = promptNone
	m.authForm = nil
	m.status = ""

	switch m.screen {
	case ScreenLogin:
		m.authForm = newLoginForm()
	case ScreenSignup:
		m.authForm = newSignupForm()
	}
}

func (m Model) loadScreen() tea.Cmd {
	switch m.screen {
	case ScreenDashboard:
		return m.loadDashboardCmd()
	case ScreenInventory:
		return m.loadInventoryCmd(m.deps.Inventory.Pagination().Page)
	}
	return nil
}

func newLoginForm() *Form {
	return NewForm("로그인",
		FieldSpec{Key: "username", Label: "아이디"},
		FieldSpec{Key: "password", Label: "비밀번호", Secret: true},
	)
}

func newSignupForm() *Form {
	return NewForm("회원가입",
		FieldSpec{Key: "username", Label: "아이디"},
		FieldSpec{Key: "password", Label: "비밀번호", Secret: true},
		FieldSpec{Key: "email", Label: "이메일"},
		FieldSpec{Key: "name", Label: "이름"},
	)
}
