package colors

// ColorScheme defines all configurable UI colour values.
// These style the terminal UI; they are unrelated to the label colour
// schemes being edited.
type ColorScheme struct {
	// Preset name (e.g., "default", "monochrome", "wave")
	Preset string `yaml:"preset" mapstructure:"preset"`

	// Primary accent color (used for selections, titles, highlights)
	Accent     string `yaml:"accent" mapstructure:"accent"`
	Background string `yaml:"background" mapstructure:"background"`

	// Semantic colors
	Create string `yaml:"create" mapstructure:"create"` // creation forms
	Edit   string `yaml:"edit" mapstructure:"edit"`     // edit forms
	Delete string `yaml:"delete" mapstructure:"delete"` // errors, failed syncs

	// UI element colors
	Border         string `yaml:"border" mapstructure:"border"`
	SelectedBorder string `yaml:"selected_border" mapstructure:"selected_border"`
	SelectedBg     string `yaml:"selected_bg" mapstructure:"selected_bg"`

	// Text colors
	Title  string `yaml:"title" mapstructure:"title"`
	Subtle string `yaml:"subtle" mapstructure:"subtle"` // muted/placeholder text
	Normal string `yaml:"normal" mapstructure:"normal"`

	// Notification colors (foreground/background pairs)
	InfoFg    string `yaml:"info_fg" mapstructure:"info_fg"`
	InfoBg    string `yaml:"info_bg" mapstructure:"info_bg"`
	WarningFg string `yaml:"warning_fg" mapstructure:"warning_fg"`
	WarningBg string `yaml:"warning_bg" mapstructure:"warning_bg"`
	ErrorFg   string `yaml:"error_fg" mapstructure:"error_fg"`
	ErrorBg   string `yaml:"error_bg" mapstructure:"error_bg"`

	// Status bar
	StatusBarBg   string `yaml:"status_bar_bg" mapstructure:"status_bar_bg"`
	StatusBarText string `yaml:"status_bar_text" mapstructure:"status_bar_text"`
}

// Presets lists the names GetPreset understands
var Presets = []string{"default", "monochrome", "wave", "dragon", "lotus"}

// GetPreset returns a preset color scheme by name. Unknown names get the
// default preset.
func GetPreset(name string) *ColorScheme {
	switch name {
	case "monochrome":
		return Monochrome()
	case "wave":
		return Wave()
	case "dragon":
		return Dragon()
	case "lotus":
		return Lotus()
	default:
		return Default()
	}
}

// IsPreset reports whether name is a known preset
func IsPreset(name string) bool {
	for _, p := range Presets {
		if p == name {
			return true
		}
	}
	return false
}

// ApplyDefaults fills in missing color values from the named preset.
// Explicit values always win over the preset.
func (c *ColorScheme) ApplyDefaults() {
	preset := GetPreset(c.Preset)
	if c.Preset == "" {
		c.Preset = preset.Preset
	}

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}

	fill(&c.Accent, preset.Accent)
	fill(&c.Background, preset.Background)
	fill(&c.Create, preset.Create)
	fill(&c.Edit, preset.Edit)
	fill(&c.Delete, preset.Delete)
	fill(&c.Border, preset.Border)
	fill(&c.SelectedBorder, preset.SelectedBorder)
	fill(&c.SelectedBg, preset.SelectedBg)
	fill(&c.Title, preset.Title)
	fill(&c.Subtle, preset.Subtle)
	fill(&c.Normal, preset.Normal)
	fill(&c.InfoFg, preset.InfoFg)
	fill(&c.InfoBg, preset.InfoBg)
	fill(&c.WarningFg, preset.WarningFg)
	fill(&c.WarningBg, preset.WarningBg)
	fill(&c.ErrorFg, preset.ErrorFg)
	fill(&c.ErrorBg, preset.ErrorBg)
	fill(&c.StatusBarBg, preset.StatusBarBg)
	fill(&c.StatusBarText, preset.StatusBarText)
}
