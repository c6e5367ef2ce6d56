// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports. Rebuilt by SetTheme.
var (
	HeaderStyle    lipgloss.Style
	DividerStyle   lipgloss.Style
	MutedStyle     lipgloss.Style
	ErrorTextStyle lipgloss.Style

	TabStyle         lipgloss.Style
	TabSelectedStyle lipgloss.Style

	RowStyle         lipgloss.Style
	RowSelectedStyle lipgloss.Style
	BlockedStyle     lipgloss.Style
	AllowedStyle     lipgloss.Style

	ModalStyle               lipgloss.Style
	ModalTitleStyle          lipgloss.Style
	ModalMessageStyle        lipgloss.Style
	ModalHelpStyle           lipgloss.Style
	ModalButtonStyle         lipgloss.Style
	ModalButtonSelectedStyle lipgloss.Style
	ModalButtonDisabledStyle lipgloss.Style
)

func init() {
	p, _ := GetPalette(DefaultTheme)
	SetTheme(p)
}

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	HeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(p.Surface)
	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	ErrorTextStyle = lipgloss.NewStyle().
		Foreground(p.Error)

	TabStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(p.Muted)
	TabSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(p.Primary).
		Bold(true).
		Underline(true)

	RowStyle = lipgloss.NewStyle().
		Foreground(p.Foreground)
	RowSelectedStyle = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Primary)
	BlockedStyle = lipgloss.NewStyle().
		Foreground(p.Error)
	AllowedStyle = lipgloss.NewStyle().
		Foreground(p.Success)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 2).
		Width(50)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Foreground)
	ModalMessageStyle = lipgloss.NewStyle().
		Foreground(p.Foreground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		MarginTop(1)
	ModalButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(p.Surface).
		Foreground(p.Muted)
	ModalButtonSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(p.Primary).
		Foreground(p.Background).
		Bold(true)
	ModalButtonDisabledStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(p.Surface)
}

// Accent is the color that marks a dialog of the given variant name
// ("success", "danger", anything else is treated as default).
func Accent(variant string) color.Color {
	switch variant {
	case "success":
		return CurrentPalette.Success
	case "danger":
		return CurrentPalette.Error
	default:
		return CurrentPalette.Primary
	}
}
