package tui

import (
	"fmt"
	"strconv"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/extguard/internal/api"
	"github.com/colonyops/extguard/internal/core/modal"
	"github.com/colonyops/extguard/internal/stores"
)

// --- Results ---

func (m Model) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Str("screen", string(m.screen)).Msg("auth request failed")
		if m.authForm != nil {
			m.authForm.SetError(modal.ErrorMessage(msg.err))
			return m, nil
		}
	}
	return m.navigate(ScreenHome)
}

func (m Model) handleSignedUp() (tea.Model, tea.Cmd) {
	return m.navigate(ScreenLogin)
}

func (m Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	if msg.status != "" {
		m.status = msg.status
	}
	if api.IsUnauthorized(msg.err) {
		m.log.Info().Msg("session rejected by backend, signing out")
		auth, ctx := m.deps.Auth, m.ctx
		return m, func() tea.Msg {
			return authDoneMsg{err: auth.Logout(ctx)}
		}
	}
	return m, nil
}

func (m Model) handleFallthrough(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		return m, m.dialog.UpdateSpinner(tick)
	}
	switch {
	case m.prompt != nil:
		return m, m.prompt.Update(msg)
	case m.authForm != nil:
		return m, m.authForm.Update(msg)
	}
	return m, nil
}

// --- Input ---

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	if m.dialog.HandleKey(msg) {
		return m, nil
	}

	if m.prompt != nil {
		return m.handlePromptKey(msg)
	}

	switch m.screen {
	case ScreenLogin, ScreenSignup:
		return m.handleAuthFormKey(msg)
	case ScreenDashboard:
		return m.handleDashboardKey(msg)
	case ScreenInventory:
		return m.handleInventoryKey(msg)
	}
	return m, nil
}

func (m Model) handleAuthFormKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.SwitchForm) {
		if m.screen == ScreenLogin {
			return m.navigate(ScreenSignup)
		}
		return m.navigate(ScreenLogin)
	}
	if msg.String() == keyEsc {
		return m, nil
	}

	cmd := m.authForm.Update(msg)
	if !m.authForm.TakeSubmit() {
		return m, cmd
	}

	v := m.authForm.Values()
	if v["username"] == "" || v["password"] == "" {
		m.authForm.SetError("아이디와 비밀번호를 입력하세요.")
		return m, nil
	}
	m.authForm.SetError("")

	if m.screen == ScreenLogin {
		return m, m.loginCmd(api.Credentials{Username: v["username"], Password: v["password"]})
	}
	if v["email"] == "" {
		m.authForm.SetError("이메일을 입력하세요.")
		return m, nil
	}
	return m, m.signupCmd(api.Signup{
		Username: v["username"],
		Password: v["password"],
		Email:    v["email"],
		Name:     v["name"],
	})
}

func (m Model) handleCommonKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Logout):
		return m, m.logoutCmd(), true
	case key.Matches(msg, m.keys.Refresh):
		m.status = ""
		return m, m.loadScreen(), true
	}
	return m, nil, false
}

func (m Model) handleDashboardKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if next, cmd, ok := m.handleCommonKey(msg); ok {
		return next, cmd
	}

	switch {
	case key.Matches(msg, m.keys.NextTab):
		if m.tab == tabExtensions {
			m.tab = tabFiles
		} else {
			m.tab = tabExtensions
		}
		return m, nil
	case key.Matches(msg, m.keys.Inventory):
		return m.navigate(ScreenInventory)
	case key.Matches(msg, m.keys.Test):
		return m.openPrompt(promptTestExtension, NewForm("확장자 검사",
			FieldSpec{Key: "extension", Label: "확장자", Placeholder: "exe"}))
	case key.Matches(msg, m.keys.Upload):
		return m.openPrompt(promptUpload, NewForm("파일 업로드",
			FieldSpec{Key: "path", Label: "경로", Placeholder: "./report.pdf"}))
	}

	if m.tab == tabFiles {
		return m.handleFilesKey(msg)
	}
	return m.handleExtensionsKey(msg)
}

func (m Model) handleExtensionsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	fixed := m.deps.Extensions.Fixed()
	custom := m.deps.Extensions.Custom()
	total := len(fixed) + len(custom)
	m.extCursor = clampCursor(m.extCursor, total)

	var selFixed *api.FixedExtension
	var selCustom *api.CustomExtension
	switch {
	case m.extCursor < len(fixed):
		selFixed = &fixed[m.extCursor]
	case m.extCursor < total:
		selCustom = &custom[m.extCursor-len(fixed)]
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.extCursor = clampCursor(m.extCursor-1, total)
	case key.Matches(msg, m.keys.Down):
		m.extCursor = clampCursor(m.extCursor+1, total)
	case key.Matches(msg, m.keys.Toggle):
		if selFixed != nil {
			return m, m.toggleFixedCmd(*selFixed)
		}
	case key.Matches(msg, m.keys.Add):
		return m.openPrompt(promptAddCustom, NewForm("커스텀 확장자 추가",
			FieldSpec{Key: "extension", Label: "확장자", Placeholder: "sh"}))
	case key.Matches(msg, m.keys.AddFixed):
		return m.openPrompt(promptAddFixed, NewForm("고정 확장자 추가",
			FieldSpec{Key: "extension", Label: "확장자", Placeholder: "bat"}))
	case key.Matches(msg, m.keys.Delete):
		if selFixed != nil {
			return m, m.deleteFixedCmd(*selFixed)
		}
		if selCustom != nil {
			return m, m.deleteCustomCmd(*selCustom)
		}
	case key.Matches(msg, m.keys.DeleteAll):
		if len(custom) > 0 {
			return m, m.deleteAllCustomCmd()
		}
	case key.Matches(msg, m.keys.Reset):
		return m, m.resetFixedCmd()
	}
	return m, nil
}

func (m Model) handleFilesKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	files := m.deps.Files.Files()
	m.fileCursor = clampCursor(m.fileCursor, len(files))

	switch {
	case key.Matches(msg, m.keys.Up):
		m.fileCursor = clampCursor(m.fileCursor-1, len(files))
	case key.Matches(msg, m.keys.Down):
		m.fileCursor = clampCursor(m.fileCursor+1, len(files))
	case key.Matches(msg, m.keys.Download):
		if len(files) > 0 {
			return m, m.downloadCmd(files[m.fileCursor])
		}
	case key.Matches(msg, m.keys.Delete):
		if len(files) > 0 {
			return m, m.deleteFileCmd(files[m.fileCursor])
		}
	}
	return m, nil
}

func (m Model) handleInventoryKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if next, cmd, ok := m.handleCommonKey(msg); ok {
		return next, cmd
	}

	items := m.deps.Inventory.Items()
	page := m.deps.Inventory.Pagination()
	m.itemCursor = clampCursor(m.itemCursor, len(items))

	switch {
	case key.Matches(msg, m.keys.Dashboard):
		return m.navigate(ScreenDashboard)
	case key.Matches(msg, m.keys.Up):
		m.itemCursor = clampCursor(m.itemCursor-1, len(items))
	case key.Matches(msg, m.keys.Down):
		m.itemCursor = clampCursor(m.itemCursor+1, len(items))
	case key.Matches(msg, m.keys.NextPage):
		if page.Page+1 < page.TotalPages {
			m.itemCursor = 0
			return m, m.loadInventoryCmd(page.Page + 1)
		}
	case key.Matches(msg, m.keys.PrevPage):
		if page.Page > 0 {
			m.itemCursor = 0
			return m, m.loadInventoryCmd(page.Page - 1)
		}
	case key.Matches(msg, m.keys.Add):
		m.editingID = 0
		return m.openPrompt(promptItem, itemForm("품목 등록", api.Item{}))
	case key.Matches(msg, m.keys.Edit):
		if len(items) > 0 {
			item := items[m.itemCursor]
			m.editingID = item.ID
			return m.openPrompt(promptItem, itemForm("품목 수정", item))
		}
	case key.Matches(msg, m.keys.Delete):
		if len(items) > 0 {
			return m, m.deleteItemCmd(items[m.itemCursor])
		}
	}
	return m, nil
}

// --- Prompts ---

func (m Model) openPrompt(kind promptKind, f *Form) (tea.Model, tea.Cmd) {
	m.prompt = f
	m.promptKind = kind
	return m, nil
}

func (m Model) closePrompt() Model {
	m.prompt = nil
	m.promptKind = promptNone
	return m
}

func (m Model) handlePromptKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	cmd := m.prompt.Update(msg)
	if m.prompt.Cancelled() {
		return m.closePrompt(), nil
	}
	if !m.prompt.TakeSubmit() {
		return m, cmd
	}

	switch m.promptKind {
	case promptAddCustom, promptAddFixed:
		value := stores.NormalizeExtension(m.prompt.Value("extension"))
		if err := m.deps.Extensions.ValidateExtension(value); err != nil {
			m.prompt.SetError(err.Error())
			return m, nil
		}
		fixed := m.promptKind == promptAddFixed
		return m.closePrompt(), m.addExtensionCmd(value, fixed)

	case promptTestExtension:
		value := m.prompt.Value("extension")
		if value == "" {
			m.prompt.SetError("확장자를 입력하세요.")
			return m, nil
		}
		return m.closePrompt(), m.testExtensionCmd(value)

	case promptUpload:
		path := m.prompt.Value("path")
		if path == "" {
			m.prompt.SetError("경로를 입력하세요.")
			return m, nil
		}
		return m.closePrompt(), m.uploadCmd(path)

	case promptItem:
		in, err := parseItemForm(m.prompt)
		if err == nil {
			err = stores.ValidateItem(in)
		}
		if err != nil {
			m.prompt.SetError(err.Error())
			return m, nil
		}
		return m.closePrompt(), m.saveItemCmd(m.editingID, in)
	}

	return m.closePrompt(), nil
}

func itemForm(title string, item api.Item) *Form {
	qty, price := "", ""
	if item.ID != 0 {
		qty = strconv.Itoa(item.Quantity)
		price = strconv.FormatFloat(item.Price, 'f', -1, 64)
	}
	return NewForm(title,
		FieldSpec{Key: "name", Label: "이름", Value: item.Name},
		FieldSpec{Key: "category", Label: "카테고리", Value: item.Category},
		FieldSpec{Key: "quantity", Label: "수량", Value: qty, Placeholder: "0"},
		FieldSpec{Key: "price", Label: "가격", Value: price, Placeholder: "0"},
		FieldSpec{Key: "description", Label: "설명", Value: item.Description},
	)
}

func parseItemForm(f *Form) (api.ItemInput, error) {
	in := api.ItemInput{
		Name:        f.Value("name"),
		Category:    f.Value("category"),
		Description: f.Value("description"),
	}

	if s := f.Value("quantity"); s != "" {
		q, err := strconv.Atoi(s)
		if err != nil {
			return in, fmt.Errorf("수량은 정수여야 합니다")
		}
		in.Quantity = q
	}
	if s := f.Value("price"); s != "" {
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return in, fmt.Errorf("가격은 숫자여야 합니다")
		}
		in.Price = p
	}
	return in, nil
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
