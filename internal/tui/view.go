package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/labelschema/internal/models"
	"github.com/thenoetrevino/labelschema/internal/tui/notifications"
	"github.com/thenoetrevino/labelschema/internal/tui/state"
	"github.com/thenoetrevino/labelschema/internal/tui/theme"
)

// chromeHeight is the header plus status bar plus help line
const chromeHeight = 4

// View implements tea.Model
func (m Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.BackgroundColor = lipgloss.Color(theme.Background)

	if m.uiState.Width() == 0 {
		view.Content = "Loading..."
		return view
	}

	layers := []*lipgloss.Layer{lipgloss.NewLayer(m.viewEditor())}

	switch m.uiState.Mode() {
	case state.FormMode:
		if m.formState.Form != nil {
			layers = append(layers, m.centeredLayer(m.viewForm()))
		}
	case state.HelpMode:
		layers = append(layers, m.centeredLayer(m.viewHelp()))
	}

	layers = append(layers, m.notificationState.GetLayers(notifications.RenderFromState)...)

	view.Content = lipgloss.NewCanvas(layers...).Render()
	return view
}

func (m Model) centeredLayer(content string) *lipgloss.Layer {
	x := max((m.uiState.Width()-lipgloss.Width(content))/2, 0)
	y := max((m.uiState.Height()-lipgloss.Height(content))/2, 0)
	return lipgloss.NewLayer(content).X(x).Y(y).Z(1)
}

// viewEditor renders the header, the row list and the status bar
func (m Model) viewEditor() string {
	header := m.viewHeader()
	list := m.viewRows(max(m.uiState.Height()-chromeHeight, 1))
	status := m.viewStatusBar()
	helpLine := m.help.ShortHelpView(m.keys.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, header, "", list, status, helpLine)
}

func (m Model) viewHeader() string {
	title := m.title
	if title == "" {
		title = "labelschema"
	}

	names := m.displaySchemes()
	m.uiState.ClampScheme(len(names))
	tabs := make([]string, len(names))
	for i, name := range names {
		tabs[i] = tabStyle(i == m.uiState.DisplayScheme()).Render(name)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle().Render(title),
		subtleStyle().Render(" colours: "),
		strings.Join(tabs, ""),
	)
}

func (m Model) viewRows(visible int) string {
	rows := m.rows()
	if len(rows) == 0 {
		return subtleStyle().Render(fmt.Sprintf(
			"  Empty schema. Press %s to add a colour scheme or %s to add a group.",
			m.keys.AddScheme.Help().Key, m.keys.AddGroup.Help().Key))
	}

	m.uiState.SetCursor(m.uiState.Cursor(), len(rows))
	offset := m.uiState.ScrollOffset(visible)
	end := min(offset+visible, len(rows))

	schemes := m.doc.ColourSchemes()
	groups := m.doc.Groups()
	shown := m.displaySchemeName()
	width := m.uiState.Width()

	lines := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		selected := i == m.uiState.Cursor()
		lines = append(lines, renderRow(rows[i], schemes, groups, shown, selected, width))
	}
	return strings.Join(lines, "\n")
}

func renderRow(
	row state.Row,
	schemes []*models.ColourScheme,
	groups []*models.LabelClassGroup,
	shown string,
	selected bool,
	width int,
) string {
	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	switch row.Kind {
	case state.SchemeRow:
		s := schemes[row.Scheme]
		text := fmt.Sprintf("◆ %s  %s", s.Name, subtleStyle().Render(s.HumanName))
		return cursor + rowStyle(selected, s.Active).MaxWidth(max(width-2, 1)).Render(text)

	case state.GroupRow:
		g := groups[row.Group]
		text := fmt.Sprintf("%s (%d)", g.GroupName, len(g.GroupClasses))
		return cursor + rowStyle(selected, g.Active).Bold(true).MaxWidth(max(width-2, 1)).Render(text)

	default:
		c := groups[row.Group].GroupClasses[row.Class]
		colour := c.Colour(shown)
		text := fmt.Sprintf("%s  %-20s %s", colour, c.Name, c.HumanName)
		return cursor + "  " + swatch(colour) + " " + rowStyle(selected, c.Active).MaxWidth(max(width-10, 1)).Render(text)
	}
}

func (m Model) viewStatusBar() string {
	status := m.syncState.Status()
	text := status.String()
	if status == state.Synced {
		text += " at " + m.syncState.LastSync().Format("15:04:05")
	}

	counts := fmt.Sprintf("%d schemes, %d groups", len(m.doc.SchemeNames()), len(m.doc.Groups()))

	var marker string
	switch status {
	case state.Failed:
		marker = notifications.RenderInline(notifications.Error, text)
	case state.Pending, state.Paused:
		marker = notifications.RenderInline(notifications.Warning, text)
	default:
		marker = notifications.RenderInline(notifications.Info, text)
	}

	bar := statusBarStyle().Render(counts)
	gap := max(m.uiState.Width()-lipgloss.Width(bar)-lipgloss.Width(marker), 0)
	return bar + statusBarStyle().Padding(0).Render(strings.Repeat(" ", gap)) + marker
}

func (m Model) viewForm() string {
	title := titleStyle().Render(m.formState.Kind.String())
	hint := subtleStyle().Render("enter to confirm, esc to cancel")
	return modalStyle().Render(lipgloss.JoinVertical(lipgloss.Left,
		title, "", m.formState.Form.View(), hint))
}

func (m Model) viewHelp() string {
	title := titleStyle().Render("Keys")
	return modalStyle().Render(lipgloss.JoinVertical(lipgloss.Left,
		title, "", m.help.FullHelpView(m.keys.FullHelp())))
}
