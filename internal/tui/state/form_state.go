package state

import "charm.land/huh/v2"

// FormKind identifies which form is open
type FormKind int

const (
	NoForm FormKind = iota
	SchemeForm
	GroupForm
	ClassForm
	ColourForm
	RenameForm
)

// String returns the form title
func (k FormKind) String() string {
	switch k {
	case SchemeForm:
		return "New colour scheme"
	case GroupForm:
		return "New group"
	case ClassForm:
		return "New label class"
	case ColourForm:
		return "Set colour"
	case RenameForm:
		return "Rename"
	default:
		return ""
	}
}

// FormState holds the open huh form and the values it writes into.
// Values survive a failed submit so the user can correct them; Clear is
// called only after a successful one.
type FormState struct {
	Form   *huh.Form
	Kind   FormKind
	Target Row

	// Field values bound to the huh inputs
	Name      string
	HumanName string
	GroupName string
	Colour    string

	// Scheme is the colour scheme a ColourForm edits
	Scheme string
}

// NewFormState creates an empty FormState
func NewFormState() *FormState {
	return &FormState{}
}

// Open records which form is shown and for which row. Values from a
// previous form of a different kind are discarded.
func (s *FormState) Open(kind FormKind, target Row) {
	if kind != s.Kind || target != s.Target {
		s.Clear()
	}
	s.Kind = kind
	s.Target = target
}

// Visible reports whether a form is open
func (s *FormState) Visible() bool {
	return s.Form != nil
}

// Hide closes the form but keeps its values
func (s *FormState) Hide() {
	s.Form = nil
}

// Clear resets every value and closes the form
func (s *FormState) Clear() {
	*s = FormState{}
}
