package theme

import (
	lipgloss "charm.land/lipgloss/v2"
	"charm.land/huh/v2"
)

// Theme bundles a ThemePalette with the derived Lip Gloss styles screens
// render with directly, so a screen never hand-rolls color lookups.
type Theme struct {
	Palette ThemePalette

	App   lipgloss.Style
	Title lipgloss.Style
	Muted lipgloss.Style
	Subtle lipgloss.Style

	StatusRunning  lipgloss.Style
	StatusPaused   lipgloss.Style
	StatusFailed   lipgloss.Style
	StatusComplete lipgloss.Style
	StatusSkipped  lipgloss.Style
	StatusPending  lipgloss.Style
}

// New builds a Theme for the given background, deriving every style from a
// fresh NewPalette(isDark).
func New(isDark bool) Theme {
	p := NewPalette(isDark)
	return Theme{
		Palette: p,
		App:     lipgloss.NewStyle(),
		Title:   lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(p.Muted),
		Subtle:  lipgloss.NewStyle().Foreground(p.Subtle),

		StatusRunning:  lipgloss.NewStyle().Foreground(p.StatusRunning),
		StatusPaused:   lipgloss.NewStyle().Foreground(p.StatusPaused),
		StatusFailed:   lipgloss.NewStyle().Foreground(p.StatusFailed),
		StatusComplete: lipgloss.NewStyle().Foreground(p.StatusComplete),
		StatusSkipped:  lipgloss.NewStyle().Foreground(p.StatusSkipped),
		StatusPending:  lipgloss.NewStyle().Foreground(p.StatusPending),
	}
}

// HuhThemeFunc returns the huh form theme used across every form screen.
// The form library ships its own adaptive palettes, so we lean on its
// Charm theme rather than re-deriving one from ThemePalette.
func HuhThemeFunc() *huh.Theme {
	return huh.ThemeCharm()
}
