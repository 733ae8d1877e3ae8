package schema

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/labelschema/internal/models"
)

// ErrNullEntry is returned for a state with a null colour scheme, group or
// label class in one of its lists
var ErrNullEntry = errors.New("schema contains a null entry")

// State is the full serialisable schema, in the shape the hosting page
// injects it.
type State struct {
	ColourSchemes []*models.ColourScheme    `json:"colour_schemes" yaml:"colour_schemes"`
	Groups        []*models.LabelClassGroup `json:"groups" yaml:"groups"`
}

// Validate checks that no list in the state holds a null entry.
func (s State) Validate() error {
	for i, cs := range s.ColourSchemes {
		if cs == nil {
			return fmt.Errorf("%w: colour_schemes[%d]", ErrNullEntry, i)
		}
	}
	for i, g := range s.Groups {
		if g == nil {
			return fmt.Errorf("%w: groups[%d]", ErrNullEntry, i)
		}
		for j, c := range g.GroupClasses {
			if c == nil {
				return fmt.Errorf("%w: groups[%d].group_classes[%d]", ErrNullEntry, i, j)
			}
		}
	}
	return nil
}

// ColourSchemesParams is the params body of an update_colour_schemes request.
type ColourSchemesParams struct {
	ColourSchemes []*models.ColourScheme `json:"colour_schemes"`
}

// GroupsParams is the params body of an update_label_class_groups request.
type GroupsParams struct {
	Groups []*models.LabelClassGroup `json:"groups"`
}

// FromState builds a document from a loaded state.
func FromState(s State) *Document {
	return New(s.ColourSchemes, s.Groups)
}

// State returns a deep copy of the whole document.
func (d *Document) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return State{
		ColourSchemes: cloneSchemes(d.colourSchemes),
		Groups:        cloneGroups(d.groups),
	}
}

// ColourSchemesParams captures the current colour scheme list for sending.
func (d *Document) ColourSchemesParams() ColourSchemesParams {
	return ColourSchemesParams{ColourSchemes: d.ColourSchemes()}
}

// GroupsParams captures the current group list for sending.
func (d *Document) GroupsParams() GroupsParams {
	return GroupsParams{Groups: d.Groups()}
}
