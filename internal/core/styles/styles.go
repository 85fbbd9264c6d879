// Package styles provides shared lipgloss styles for CLI output.
package styles

import "github.com/charmbracelet/lipgloss"

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	HeaderStyle  lipgloss.Style
	IndexStyle   lipgloss.Style
	DoneStyle    lipgloss.Style
	PendingStyle lipgloss.Style
	MutedStyle   lipgloss.Style

	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
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
	IndexStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	DoneStyle = lipgloss.NewStyle().
		Foreground(p.Success).
		Strikethrough(true)
	PendingStyle = lipgloss.NewStyle().
		Foreground(p.Foreground)
	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(p.Success)
	WarningStyle = lipgloss.NewStyle().
		Foreground(p.Warning)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)
}
