package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/labelschema/internal/tui/theme"
)

// Styles are built on demand so that theme.Init takes effect.

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Title)).
		Bold(true).
		Padding(0, 1)
}

func tabStyle(selected bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1)
	if selected {
		return s.
			Foreground(lipgloss.Color(theme.Accent)).
			Background(lipgloss.Color(theme.SelectedBg)).
			Bold(true)
	}
	return s.Foreground(lipgloss.Color(theme.Subtle))
}

func rowStyle(selected, active bool) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Normal))
	if !active {
		s = s.Foreground(lipgloss.Color(theme.Subtle)).Strikethrough(true)
	}
	if selected {
		s = s.Background(lipgloss.Color(theme.SelectedBg)).Bold(true)
	}
	return s
}

func subtleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Subtle))
}

func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
}

func statusBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.StatusBarText)).
		Background(lipgloss.Color(theme.StatusBarBg)).
		Padding(0, 1)
}

func modalStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2)
}
