package models

import "regexp"

// colourRegex matches a full #RRGGBB colour code
var colourRegex = regexp.MustCompile(`^#[A-Fa-f0-9]{6}$`)

// Colour is a single colour entry in a label class colour map
type Colour struct {
	HTML string `json:"html" yaml:"html"`
}

// ValidColour reports whether s is exactly '#' followed by six hex digits.
func ValidColour(s string) bool {
	return colourRegex.MatchString(s)
}

// ColourMap maps a colour scheme name (or "default") to a colour
type ColourMap map[string]Colour

// Clone returns a copy of the map
func (m ColourMap) Clone() ColourMap {
	out := make(ColourMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
