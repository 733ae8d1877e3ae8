package models

// ColourScheme is a named colouring of all label classes, e.g. "natural" or "artistic"
type ColourScheme struct {
	ID        EntityID `json:"id" yaml:"id"`
	Active    bool     `json:"active" yaml:"active"`
	Name      string   `json:"name" yaml:"name"`             // Machine key used in colour maps
	HumanName string   `json:"human_name" yaml:"human_name"` // Display name
}

// NewColourScheme builds an active colour scheme with a placeholder id.
// name is required.
func NewColourScheme(name, humanName string) (*ColourScheme, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	return &ColourScheme{
		ID:        NewPlaceholderID(),
		Active:    true,
		Name:      name,
		HumanName: humanName,
	}, nil
}

// Clone returns a copy of the scheme
func (s *ColourScheme) Clone() *ColourScheme {
	c := *s
	return &c
}
