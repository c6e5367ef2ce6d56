package tui

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/extguard/internal/api"
	"github.com/colonyops/extguard/internal/core/modal"
	"github.com/colonyops/extguard/internal/stores"
)

// dialogChangedMsg reports that the modal controller changed. The model reads
// the current state on receipt, so the order of these messages does not
// matter.
type dialogChangedMsg struct{}

// uploadsChangedMsg reports that the upload list changed in the background.
type uploadsChangedMsg struct{}

type authDoneMsg struct {
	err error
}

type signedUpMsg struct{}

// opDoneMsg ends a background operation. Errors have already been shown in
// a dialog by the time it arrives.
type opDoneMsg struct {
	err    error
	status string
}

func done(err error, status string) tea.Msg {
	return opDoneMsg{err: err, status: status}
}

// --- Auth ---

func (m Model) loginCmd(creds api.Credentials) tea.Cmd {
	auth := m.deps.Auth
	ctx := m.ctx
	return func() tea.Msg {
		_, err := auth.Login(ctx, creds)
		return authDoneMsg{err: err}
	}
}

func (m Model) signupCmd(req api.Signup) tea.Cmd {
	auth, h, ctx := m.deps.Auth, m.deps.Modal, m.ctx
	return func() tea.Msg {
		if _, err := auth.Signup(ctx, req); err != nil {
			return authDoneMsg{err: err}
		}
		h.HandleAPISuccess(ctx, "회원가입이 완료되었습니다. 로그인해 주세요.", nil)
		return signedUpMsg{}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	auth, h, ctx := m.deps.Auth, m.deps.Modal, m.ctx
	return func() tea.Msg {
		if !h.ConfirmAction(ctx, "로그아웃 하시겠습니까?", "로그아웃") {
			return nil
		}
		return authDoneMsg{err: auth.Logout(ctx)}
	}
}

// --- Loading ---

func (m Model) loadDashboardCmd() tea.Cmd {
	ext, files, ctx := m.deps.Extensions, m.deps.Files, m.ctx
	return func() tea.Msg {
		if _, err := ext.LoadFixed(ctx); err != nil {
			return done(err, "고정 확장자를 불러오지 못했습니다")
		}
		if _, err := ext.LoadCustom(ctx); err != nil {
			return done(err, "커스텀 확장자를 불러오지 못했습니다")
		}
		if _, err := files.Load(ctx); err != nil {
			return done(err, "파일 목록을 불러오지 못했습니다")
		}
		return done(nil, "")
	}
}

func (m Model) loadInventoryCmd(page int) tea.Cmd {
	inv, ctx := m.deps.Inventory, m.ctx
	size := inv.Pagination().Size
	return func() tea.Msg {
		_, err := inv.FetchItems(ctx, api.ItemQuery{Page: page, Size: size})
		if err != nil {
			return done(err, "재고를 불러오지 못했습니다")
		}
		return done(nil, "")
	}
}

// --- Extensions ---

func (m Model) toggleFixedCmd(f api.FixedExtension) tea.Cmd {
	ext, h, ctx := m.deps.Extensions, m.deps.Modal, m.ctx
	return func() tea.Msg {
		err := ext.ToggleFixed(ctx, f.Extension, !f.IsBlocked)
		if err != nil {
			h.HandleAPIError(ctx, err, nil)
		}
		return done(err, "")
	}
}

func (m Model) addExtensionCmd(value string, fixed bool) tea.Cmd {
	ext, h, ctx := m.deps.Extensions, m.deps.Modal, m.ctx
	return func() tea.Msg {
		var err error
		if fixed {
			_, err = ext.AddFixed(ctx, value)
		} else {
			_, err = ext.AddCustom(ctx, value)
		}
		if err != nil {
			h.HandleAPIError(ctx, err, nil)
			return done(err, "")
		}
		return done(nil, fmt.Sprintf("'.%s' 추가됨", stores.NormalizeExtension(value)))
	}
}

func (m Model) deleteCustomCmd(c api.CustomExtension) tea.Cmd {
	ext, h, ctx := m.deps.Extensions, m.deps.Modal, m.ctx
	return func() tea.Msg {
		if !h.ConfirmDelete(ctx, "."+c.Extension) {
			return nil
		}
		err := ext.DeleteCustom(ctx, c.ID)
		if err != nil {
			h.HandleAPIError(ctx, err, nil)
		}
		return done(err, "")
	}
}

func (m Model) deleteFixedCmd(f api.FixedExtension) tea.Cmd {
	ext, h, ctx := m.deps.Extensions, m.deps.Modal, m.ctx
	return func() tea.Msg {
		if !h.ConfirmDelete(ctx, "."+f.Extension) {
			return nil
		}
		err := ext.DeleteFixed(ctx, f.ID)
		if err != nil {
			h.HandleAPIError(ctx, err, nil)
		}
		return done(err, "")
	}
}

func (m Model) deleteAllCustomCmd() tea.Cmd {
	ext, h, ctx := m.deps.Extensions, m.deps.Modal, m.ctx
	return func() tea.Msg {
		if !h.ConfirmAction(ctx, "모든 커스텀 확장자를 삭제하시겠습니까?", "전체 삭제") {
			return nil
		}
		err := ext.DeleteAllCustom(ctx)
		if err != nil {
			h.HandleAPIError(ctx, err, nil)
		}
		return done(err, "")
	}
}

func (m Model) resetFixedCmd() tea.Cmd {
	ext, h, ctx := m.deps.Extensions, m.deps.Modal, m.ctx
	return func() tea.Msg {
		if !h.ConfirmAction(ctx, "고정 확장자를 기본값으로 되돌리시겠습니까?", "초기화") {
			return nil
		}
		err := ext.ResetFixed(ctx)
		if err != nil {
			h.HandleAPIError(ctx, err, nil)
		}
		return done(err, "")
	}
}

// testExtensionCmd checks ext against the backend and offers to lift the
// block when it is blocked.
func (m Model) testExtensionCmd(value string) tea.Cmd {
	ext, h, ctx := m.deps.Extensions, m.deps.Modal, m.ctx
	return func() tea.Msg {
		name := stores.NormalizeExtension(value)
		if err := ext.ValidateExtension(name); err != nil {
			h.HandleAPIError(ctx, err, nil)
			return done(err, "")
		}

		blocked, err := ext.Check(ctx, name)
		if err != nil {
			h.HandleAPIError(ctx, err, nil)
			return done(err, "")
		}
		if !blocked {
			h.HandleAPISuccess(ctx, fmt.Sprintf("'.%s' 확장자는 업로드할 수 있습니다.", name), nil)
			return done(nil, "")
		}

		msg := fmt.Sprintf("'.%s' 확장자는 차단되어 있습니다. 차단을 해제하시겠습니까?", name)
		if !h.ConfirmAction(ctx, msg, "차단된 확장자") {
			return nil
		}

		typ, err := ext.Type(ctx, name)
		if err == nil {
			err = ext.Unblock(ctx, name, typ)
		}
		if err != nil {
			h.HandleAPIError(ctx, err, nil)
			return done(err, "")
		}
		h.HandleAPISuccess(ctx, fmt.Sprintf("'.%s' 차단이 해제되었습니다.", name), nil)
		return done(nil, "")
	}
}

// --- Files ---

// uploadCmd refuses blocked extensions up front, shows a non-dismissable
// progress dialog during the transfer and replaces it with the result.
func (m Model) uploadCmd(path string) tea.Cmd {
	files, h, ctx := m.deps.Files, m.deps.Modal, m.ctx
	return func() tea.Msg {
		ext := stores.FileExtension(path)
		if ext != "" && files.CheckExtension(ctx, ext) {
			err := fmt.Errorf("'.%s' 확장자는 업로드할 수 없습니다.", ext)
			h.HandleAPIError(ctx, err, nil)
			return done(err, "")
		}

		h.Confirm(
			modal.WithTitle("업로드 중"),
			modal.WithMessage(path),
			modal.WithHideCancel(true),
			modal.WithCloseOnBackdrop(false),
			modal.WithLoading(true),
		)

		info, err := files.UploadPath(ctx, path)
		if err != nil {
			h.HandleAPIError(ctx, err, nil)
			return done(err, "")
		}
		h.HandleAPISuccess(ctx, fmt.Sprintf("%s 업로드 완료", info.OriginalFilename), nil)
		return done(nil, "")
	}
}

func (m Model) downloadCmd(f api.FileInfo) tea.Cmd {
	files, h, ctx, dir := m.deps.Files, m.deps.Modal, m.ctx, m.deps.DownloadDir
	return func() tea.Msg {
		path, err := files.Download(ctx, f, dir)
		if err != nil {
			h.HandleAPIError(ctx, err, nil)
			return done(err, "")
		}
		return done(nil, "저장됨: "+path)
	}
}

func (m Model) deleteFileCmd(f api.FileInfo) tea.Cmd {
	files, h, ctx := m.deps.Files, m.deps.Modal, m.ctx
	return func() tea.Msg {
		if !h.ConfirmDelete(ctx, f.OriginalFilename) {
			return nil
		}
		err := files.Delete(ctx, f.ID)
		if err != nil {
			h.HandleAPIError(ctx, err, nil)
		}
		return done(err, "")
	}
}

// --- Inventory ---

func (m Model) saveItemCmd(id int64, in api.ItemInput) tea.Cmd {
	inv, h, ctx := m.deps.Inventory, m.deps.Modal, m.ctx
	return func() tea.Msg {
		var err error
		msg := "등록되었습니다."
		if id == 0 {
			_, err = inv.CreateItem(ctx, in)
		} else {
			_, err = inv.UpdateItem(ctx, id, in)
			msg = "수정되었습니다."
		}
		if err != nil {
			h.HandleAPIError(ctx, err, nil)
			return done(err, "")
		}
		h.HandleAPISuccess(ctx, msg, nil)
		return done(nil, "")
	}
}

func (m Model) deleteItemCmd(item api.Item) tea.Cmd {
	inv, h, ctx := m.deps.Inventory, m.deps.Modal, m.ctx
	return func() tea.Msg {
		if !h.ConfirmDelete(ctx, item.Name) {
			return nil
		}
		err := inv.DeleteItem(ctx, item.ID)
		if err != nil {
			h.HandleAPIError(ctx, err, nil)
		}
		return done(err, "")
	}
}
