package models

// LabelClass is a single class that annotators can assign to a region
type LabelClass struct {
	ID        EntityID  `json:"id" yaml:"id"`
	Active    bool      `json:"active" yaml:"active"`
	Name      string    `json:"name" yaml:"name"`
	HumanName string    `json:"human_name" yaml:"human_name"`
	Colours   ColourMap `json:"colours" yaml:"colours"`
}

// NewLabelClass builds an active label class with a placeholder id and a
// colour map holding DefaultColour for every scheme name plus "default".
func NewLabelClass(name, humanName string, schemeNames []string) (*LabelClass, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	colours := make(ColourMap, len(schemeNames)+1)
	for _, scheme := range schemeNames {
		colours[scheme] = Colour{HTML: DefaultColour}
	}
	colours[DefaultSchemeName] = Colour{HTML: DefaultColour}

	return &LabelClass{
		ID:        NewPlaceholderID(),
		Active:    true,
		Name:      name,
		HumanName: humanName,
		Colours:   colours,
	}, nil
}

// Colour returns the colour for a scheme, falling back to DefaultColour
func (c *LabelClass) Colour(scheme string) string {
	if col, ok := c.Colours[scheme]; ok {
		return col.HTML
	}
	return DefaultColour
}

// Clone returns a deep copy of the class
func (c *LabelClass) Clone() *LabelClass {
	out := *c
	out.Colours = c.Colours.Clone()
	return &out
}
