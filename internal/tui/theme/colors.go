// Package theme holds the active UI colours for rendering code that has no
// access to the config.
package theme

import "github.com/thenoetrevino/labelschema/internal/config/colors"

// Colors holds the current theme colors, initialized by Init
var (
	Accent         string
	Background     string
	Title          string
	Subtle         string
	Normal         string
	Create         string
	Edit           string
	Delete         string
	Border         string
	SelectedBorder string
	SelectedBg     string
	InfoFg         string
	InfoBg         string
	WarningFg      string
	WarningBg      string
	ErrorFg        string
	ErrorBg        string
	StatusBarBg    string
	StatusBarText  string
)

func init() {
	Init(*colors.Default())
}

// Init initializes the theme colors from the given color scheme
func Init(c colors.ColorScheme) {
	Accent = c.Accent
	Background = c.Background
	Title = c.Title
	Subtle = c.Subtle
	Normal = c.Normal
	Create = c.Create
	Edit = c.Edit
	Delete = c.Delete
	Border = c.Border
	SelectedBorder = c.SelectedBorder
	SelectedBg = c.SelectedBg
	InfoFg = c.InfoFg
	InfoBg = c.InfoBg
	WarningFg = c.WarningFg
	WarningBg = c.WarningBg
	ErrorFg = c.ErrorFg
	ErrorBg = c.ErrorBg
	StatusBarBg = c.StatusBarBg
	StatusBarText = c.StatusBarText
}
