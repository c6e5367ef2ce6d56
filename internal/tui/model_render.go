package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/colonyops/extguard/internal/core/styles"
	"github.com/colonyops/extguard/internal/stores"
)

const nameColumnWidth = 32

// View renders the TUI.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.screenContent())
	v.AltScreen = true
	return v
}

// screenContent renders the current screen with any prompt and dialog
// composited on top.
func (m Model) screenContent() string {
	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	var main string
	switch m.screen {
	case ScreenLogin, ScreenSignup:
		main = m.renderAuthScreen()
	case ScreenInventory:
		main = m.renderInventory()
	default:
		main = m.renderDashboard()
	}

	content := main
	if m.prompt != nil {
		box := styles.ModalStyle.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			styles.ModalTitleStyle.Render(m.prompt.Title),
			"",
			m.prompt.View(),
			styles.ModalHelpStyle.Render("enter 확인  tab 이동  esc 닫기"),
		))
		content = overlayCenter(content, box, w, h)
	}
	return m.dialog.Overlay(content, w, h)
}

func (m Model) renderHeader(title string) string {
	left := styles.HeaderStyle.Render("extguard") + styles.MutedStyle.Render(" / "+title)
	if u, ok := m.deps.Auth.User(); ok {
		left += styles.MutedStyle.Render("  " + u.Username)
	}
	return left + "\n" + styles.DividerStyle.Render(strings.Repeat("─", max(m.width, 40)))
}

func (m Model) renderFooter(help string) string {
	lines := []string{""}
	if m.status != "" {
		lines = append(lines, m.status)
	}
	lines = append(lines, styles.MutedStyle.Render(help))
	return strings.Join(lines, "\n")
}

func (m Model) renderAuthScreen() string {
	route, _ := RouteFor(m.screen)
	other := "회원가입"
	if m.screen == ScreenSignup {
		other = "로그인"
	}

	body := ""
	if m.authForm != nil {
		body = m.authForm.View()
	}
	if m.deps.Auth.IsLoading() {
		body += "\n\n" + styles.MutedStyle.Render("요청 중...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(route.Title),
		"",
		body,
		m.renderFooter("enter 제출  tab 이동  ctrl+s "+other+"  ctrl+c 종료"),
	)
}

func (m Model) renderDashboard() string {
	tabs := []string{styles.TabStyle.Render("확장자"), styles.TabStyle.Render("파일")}
	if m.tab == tabExtensions {
		tabs[0] = styles.TabSelectedStyle.Render("확장자")
	} else {
		tabs[1] = styles.TabSelectedStyle.Render("파일")
	}

	var body, help string
	if m.tab == tabFiles {
		body = m.renderFiles()
		help = helpLine(m.keys.Upload, m.keys.Download, m.keys.Delete, m.keys.Test, m.keys.NextTab, m.keys.Inventory, m.keys.Logout, m.keys.Quit)
	} else {
		body = m.renderExtensions()
		help = helpLine(m.keys.Toggle, m.keys.Add, m.keys.AddFixed, m.keys.Delete, m.keys.DeleteAll, m.keys.Reset, m.keys.Test, m.keys.NextTab, m.keys.Inventory, m.keys.Quit)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader("대시보드"),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		body,
		m.renderFooter(help),
	)
}

func (m Model) renderExtensions() string {
	ext := m.deps.Extensions
	fixed, custom := ext.Fixed(), ext.Custom()
	cursor := clampCursor(m.extCursor, len(fixed)+len(custom))

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", styles.HeaderStyle.Render(fmt.Sprintf("고정 확장자 (%d)", len(fixed))))
	if loadingFixed, _ := ext.IsLoading(); loadingFixed && len(fixed) == 0 {
		b.WriteString(styles.MutedStyle.Render("  불러오는 중...") + "\n")
	}
	for i, f := range fixed {
		mark := styles.AllowedStyle.Render(styles.IconAllowed)
		if f.IsBlocked {
			mark = styles.BlockedStyle.Render(styles.IconBlocked)
		}
		b.WriteString(renderRow(i == cursor, mark+" ."+f.Extension) + "\n")
	}

	fmt.Fprintf(&b, "\n%s\n", styles.HeaderStyle.Render(fmt.Sprintf("커스텀 확장자 (%d)", len(custom))))
	if len(custom) == 0 {
		b.WriteString(styles.MutedStyle.Render("  없음") + "\n")
	}
	for i, c := range custom {
		line := styles.BlockedStyle.Render(styles.IconBlocked) + " ." + c.Extension
		b.WriteString(renderRow(len(fixed)+i == cursor, line) + "\n")
	}

	fmt.Fprintf(&b, "\n%s", styles.MutedStyle.Render(fmt.Sprintf("차단 %d / 전체 %d", ext.BlockedCount(), ext.TotalCount())))
	return b.String()
}

func (m Model) renderFiles() string {
	files := m.deps.Files
	list := files.Files()
	cursor := clampCursor(m.fileCursor, len(list))

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", styles.HeaderStyle.Render(fmt.Sprintf("파일 (%d, %s)", files.TotalCount(), humanize.IBytes(uint64(max(files.TotalSize(), 0))))))
	if len(list) == 0 {
		if files.IsLoading() {
			b.WriteString(styles.MutedStyle.Render("  불러오는 중...") + "\n")
		} else {
			b.WriteString(styles.MutedStyle.Render("  업로드된 파일이 없습니다") + "\n")
		}
	}
	for i, f := range list {
		name := ansi.Truncate(f.OriginalFilename, nameColumnWidth, "…")
		line := fmt.Sprintf("%s %-*s %10s", styles.IconFile, nameColumnWidth, name, humanize.IBytes(uint64(max(f.FileSize, 0))))
		b.WriteString(renderRow(i == cursor, line) + "\n")
	}

	if uploads := files.Uploads(); len(uploads) > 0 {
		fmt.Fprintf(&b, "\n%s\n", styles.HeaderStyle.Render("업로드"))
		for _, u := range uploads {
			icon := styles.IconUploading
			switch u.Status {
			case stores.UploadSuccess:
				icon = styles.AllowedStyle.Render(styles.IconAllowed)
			case stores.UploadError:
				icon = styles.BlockedStyle.Render(styles.IconFailed)
			}
			fmt.Fprintf(&b, "  %s %s %s\n", icon, u.Name, styles.MutedStyle.Render(u.Status.Text()))
		}
	}
	return b.String()
}

func (m Model) renderInventory() string {
	inv := m.deps.Inventory
	items := inv.Items()
	page := inv.Pagination()
	cursor := clampCursor(m.itemCursor, len(items))

	var b strings.Builder
	if len(items) == 0 {
		if inv.IsLoading() {
			b.WriteString(styles.MutedStyle.Render("불러오는 중...") + "\n")
		} else {
			b.WriteString(styles.MutedStyle.Render("등록된 품목이 없습니다") + "\n")
		}
	}
	for i, it := range items {
		name := ansi.Truncate(it.Name, 24, "…")
		line := fmt.Sprintf("%-24s %-12s %6s %12s", name, ansi.Truncate(it.Category, 12, "…"),
			humanize.Comma(int64(it.Quantity)), humanize.CommafWithDigits(it.Price, 2))
		b.WriteString(renderRow(i == cursor, line) + "\n")
	}

	pages := max(page.TotalPages, 1)
	fmt.Fprintf(&b, "\n%s", styles.MutedStyle.Render(fmt.Sprintf("%d / %d 페이지  전체 %d개", page.Page+1, pages, inv.TotalItems())))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader("재고 관리"),
		"",
		b.String(),
		m.renderFooter(helpLine(m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.PrevPage, m.keys.NextPage, m.keys.Dashboard, m.keys.Quit)),
	)
}

func renderRow(selected bool, line string) string {
	if selected {
		return styles.RowSelectedStyle.Render("> " + line)
	}
	return styles.RowStyle.Render("  " + line)
}
