package tui

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/extguard/internal/core/modal"
	"github.com/colonyops/extguard/internal/core/styles"
)

// Dialog renders the modal controller's slot and turns key presses into
// HandleConfirm and HandleCancel calls. It holds a snapshot of the controller
// state that the model refreshes with Sync.
type Dialog struct {
	ctrl            *modal.Controller
	state           modal.State
	confirmSelected bool
	spinner         spinner.Model
}

// NewDialog creates a dialog bound to ctrl.
func NewDialog(ctrl *modal.Controller) Dialog {
	return Dialog{
		ctrl:            ctrl,
		state:           ctrl.State(),
		confirmSelected: true,
		spinner:         spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Sync replaces the snapshot with st. A newly presented dialog starts with
// the confirm button selected. The returned command starts the spinner when
// the dialog enters the loading state.
func (d *Dialog) Sync(st modal.State) tea.Cmd {
	prev := d.state
	d.state = st

	if st.IsOpen && (!prev.IsOpen || prev.Config != st.Config) {
		d.confirmSelected = true
	}

	if st.IsOpen && st.Config.IsLoading && !(prev.IsOpen && prev.Config.IsLoading) {
		return d.spinner.Tick
	}
	return nil
}

// Visible reports whether the dialog should be drawn.
func (d Dialog) Visible() bool {
	return d.state.IsOpen
}

// State returns the last synced snapshot.
func (d Dialog) State() modal.State {
	return d.state
}

// ConfirmSelected reports whether the confirm button has focus.
func (d Dialog) ConfirmSelected() bool {
	return d.confirmSelected || d.state.Config.HideCancel
}

// HandleKey applies msg to the open dialog and reports whether it consumed
// the key. While the dialog is open every key is consumed so the screen
// behind it stays inert.
func (d *Dialog) HandleKey(msg tea.KeyPressMsg) bool {
	if !d.state.IsOpen {
		return false
	}
	cfg := d.state.Config
	if cfg.IsLoading {
		return true
	}

	switch msg.String() {
	case "left", "right", "h", "l", "tab", "shift+tab":
		if !cfg.HideCancel {
			d.confirmSelected = !d.confirmSelected
		}
	case keyEnter:
		if d.ConfirmSelected() {
			d.confirm()
		} else {
			d.cancel()
		}
	case "y":
		d.confirm()
	case "n":
		if !cfg.HideCancel {
			d.cancel()
		}
	case keyEsc:
		if cfg.CloseOnBackdrop {
			d.cancel()
		}
	}
	return true
}

func (d *Dialog) confirm() {
	d.ctrl.HandleConfirm()
	d.Sync(d.ctrl.State())
}

func (d *Dialog) cancel() {
	d.ctrl.HandleCancel()
	d.Sync(d.ctrl.State())
}

// UpdateSpinner advances the loading spinner. Ticks stop once the dialog
// leaves the loading state.
func (d *Dialog) UpdateSpinner(msg spinner.TickMsg) tea.Cmd {
	if !d.state.IsOpen || !d.state.Config.IsLoading {
		return nil
	}
	var cmd tea.Cmd
	d.spinner, cmd = d.spinner.Update(msg)
	return cmd
}

// Render draws the dialog box on its own.
func (d Dialog) Render() string {
	cfg := d.state.Config
	accent := styles.Accent(string(cfg.Variant))

	title := styles.ModalTitleStyle.Foreground(accent).Render(cfg.Title)

	var body string
	if cfg.IsLoading {
		body = d.spinner.View() + " " + styles.ModalMessageStyle.Render(cfg.Message)
	} else {
		body = styles.ModalMessageStyle.Render(cfg.Message)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		body,
		lipgloss.NewStyle().MarginTop(1).Render(d.renderButtons()),
		styles.ModalHelpStyle.Render(d.helpText()),
	)

	return styles.ModalStyle.BorderForeground(accent).Render(content)
}

func (d Dialog) renderButtons() string {
	cfg := d.state.Config

	if cfg.IsLoading {
		confirm := styles.ModalButtonDisabledStyle.Render(cfg.ConfirmText)
		if cfg.HideCancel {
			return confirm
		}
		return lipgloss.JoinHorizontal(lipgloss.Center,
			styles.ModalButtonDisabledStyle.Render(cfg.CancelText), "  ", confirm)
	}

	confirmStyle, cancelStyle := styles.ModalButtonStyle, styles.ModalButtonStyle
	if d.ConfirmSelected() {
		confirmStyle = styles.ModalButtonSelectedStyle.Background(styles.Accent(string(cfg.Variant)))
	} else {
		cancelStyle = styles.ModalButtonSelectedStyle
	}

	confirm := confirmStyle.Render(cfg.ConfirmText)
	if cfg.HideCancel {
		return confirm
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, cancelStyle.Render(cfg.CancelText), "  ", confirm)
}

func (d Dialog) helpText() string {
	cfg := d.state.Config
	switch {
	case cfg.IsLoading:
		return "처리 중..."
	case cfg.HideCancel:
		return "enter/y 확인"
	case cfg.CloseOnBackdrop:
		return "←/→ 선택  enter 실행  y/n  esc 취소"
	default:
		return "←/→ 선택  enter 실행  y/n"
	}
}

// Overlay composites the dialog centered over background.
func (d Dialog) Overlay(background string, width, height int) string {
	if !d.state.IsOpen {
		return background
	}
	return overlayCenter(background, d.Render(), width, height)
}

func overlayCenter(background, box string, width, height int) string {
	x := max((width-lipgloss.Width(box))/2, 0)
	y := max((height-lipgloss.Height(box))/2, 0)

	bg := lipgloss.NewLayer(background)
	fg := lipgloss.NewLayer(box)
	fg.X(x).Y(y).Z(1)

	return lipgloss.NewCompositor(bg, fg).Render()
}
