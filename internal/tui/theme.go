package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// Palette. AdaptiveColor keeps the picker readable on light and dark terminals.
var (
	colorMuted       lipgloss.TerminalColor = ac("240", "243")
	colorAccent      lipgloss.TerminalColor = ac("27", "62")
	colorSelectedBg  lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg  lipgloss.TerminalColor = ac("235", "255")
	colorBorder      lipgloss.TerminalColor = ac("250", "243")
	colorBorderFocus lipgloss.TerminalColor = ac("232", "255")
	colorError       lipgloss.TerminalColor = ac("160", "203")
)

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError).Bold(true)
}

func styleSelectedRow(focused bool) lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(colorSelectedFg).Bold(true)
	if focused {
		st = st.Background(colorSelectedBg)
	}
	return st
}

func styleColumn(focused bool) lipgloss.Style {
	st := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)
	if focused {
		st = st.BorderForeground(colorBorderFocus)
	}
	return st
}

func styleColumnTitle(focused bool) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(true)
	if focused {
		return st.Foreground(colorAccent)
	}
	return st.Foreground(colorMuted)
}

// applyColorProfilePreference honors NO_COLOR and otherwise follows the
// terminal's capabilities, upgrading to 256 colors when TERM says so.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	if strings.Contains(term, "256color") && (profile == termenv.ANSI || profile == termenv.Ascii) {
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}
