// Package notifications renders the floating banners shown after syncs and
// failed edits.
package notifications

import (
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/labelschema/internal/tui/state"
)

// maxWidth keeps long server messages from covering the whole editor
const maxWidth = 60

// Render renders a notification banner based on severity level
func Render(severity Severity, message string) string {
	style := severity.style()

	headerText := style.icon + " " + style.title
	width := min(max(lipgloss.Width(headerText), lipgloss.Width(message)), maxWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(style.foreground)).
		Bold(true).
		Width(width)

	if severity == Info {
		headerStyle = headerStyle.Background(lipgloss.Color(style.background))
	}

	header := headerStyle.Render(headerText)

	messageContent := lipgloss.NewStyle().
		Foreground(lipgloss.Color(style.foreground)).
		Width(width).
		Render(message)

	content := lipgloss.JoinVertical(lipgloss.Left, header, messageContent)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(style.borderForeground)).
		Background(lipgloss.Color(style.background)).
		Padding(0, 1).
		Render(content)
}

// RenderFromState renders a notification banner from a state.Notification
func RenderFromState(n state.Notification) string {
	switch n.Level {
	case state.LevelWarning:
		return Render(Warning, n.Message)
	case state.LevelError:
		return Render(Error, n.Message)
	default:
		return Render(Info, n.Message)
	}
}

// RenderInline renders a compact single line notification for the status bar
func RenderInline(severity Severity, message string) string {
	style := severity.style()

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(style.foreground)).
		Background(lipgloss.Color(style.background)).
		Padding(0, 1).
		Render(style.icon + " " + message)
}
