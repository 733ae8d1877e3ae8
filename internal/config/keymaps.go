package config

// KeyMappings defines all configurable key bindings
type KeyMappings struct {
	// Creation forms
	AddScheme string `yaml:"add_scheme" mapstructure:"add_scheme"`
	AddGroup  string `yaml:"add_group" mapstructure:"add_group"`
	AddClass  string `yaml:"add_class" mapstructure:"add_class"`

	// Editing
	SetColour    string `yaml:"set_colour" mapstructure:"set_colour"`
	Rename       string `yaml:"rename" mapstructure:"rename"`
	ToggleActive string `yaml:"toggle_active" mapstructure:"toggle_active"`

	// Navigation
	Up         string `yaml:"up" mapstructure:"up"`
	Down       string `yaml:"down" mapstructure:"down"`
	NextScheme string `yaml:"next_scheme" mapstructure:"next_scheme"`
	PrevScheme string `yaml:"prev_scheme" mapstructure:"prev_scheme"`

	// Sync
	Push       string `yaml:"push" mapstructure:"push"`
	ToggleSync string `yaml:"toggle_sync" mapstructure:"toggle_sync"`

	// Other
	ShowHelp string `yaml:"show_help" mapstructure:"show_help"`
	Quit     string `yaml:"quit" mapstructure:"quit"`
}

// DefaultKeyMappings returns the default key mappings
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		AddScheme: "S",
		AddGroup:  "G",
		AddClass:  "a",

		SetColour:    "c",
		Rename:       "r",
		ToggleActive: "space",

		Up:         "k",
		Down:       "j",
		NextScheme: "l",
		PrevScheme: "h",

		Push:       "p",
		ToggleSync: "P",

		ShowHelp: "?",
		Quit:     "q",
	}
}

// applyDefaults fills in missing key mappings with defaults
func (k *KeyMappings) applyDefaults() {
	defaults := DefaultKeyMappings()

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}

	fill(&k.AddScheme, defaults.AddScheme)
	fill(&k.AddGroup, defaults.AddGroup)
	fill(&k.AddClass, defaults.AddClass)
	fill(&k.SetColour, defaults.SetColour)
	fill(&k.Rename, defaults.Rename)
	fill(&k.ToggleActive, defaults.ToggleActive)
	fill(&k.Up, defaults.Up)
	fill(&k.Down, defaults.Down)
	fill(&k.NextScheme, defaults.NextScheme)
	fill(&k.PrevScheme, defaults.PrevScheme)
	fill(&k.Push, defaults.Push)
	fill(&k.ToggleSync, defaults.ToggleSync)
	fill(&k.ShowHelp, defaults.ShowHelp)
	fill(&k.Quit, defaults.Quit)
}
