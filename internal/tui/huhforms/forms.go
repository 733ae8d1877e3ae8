// Package huhforms builds the huh forms used by the editor.
package huhforms

import (
	"errors"
	"strings"

	"charm.land/huh/v2"

	"github.com/thenoetrevino/labelschema/internal/models"
)

// Validation errors shown inline under a field
var (
	errRequired = errors.New("required")
	errColour   = errors.New("use #RRGGBB")
)

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errRequired
	}
	return nil
}

func validColour(s string) error {
	if !models.ValidColour(strings.TrimSpace(s)) {
		return errColour
	}
	return nil
}

func newForm(fields ...huh.Field) *huh.Form {
	return huh.NewForm(huh.NewGroup(fields...)).
		WithKeyMap(CreateKeyMap()).
		WithShowHelp(false)
}

// CreateColourSchemeForm asks for a scheme name and an optional display name
func CreateColourSchemeForm(name, humanName *string) *huh.Form {
	return newForm(
		huh.NewInput().
			Key("name").
			Title("Scheme Name").
			Placeholder("e.g. dark_mode").
			Validate(required).
			Value(name),

		huh.NewInput().
			Key("human_name").
			Title("Display Name (optional)").
			Placeholder("Defaults to the name").
			Value(humanName),
	)
}

// CreateGroupForm asks for a group name
func CreateGroupForm(groupName *string) *huh.Form {
	return newForm(
		huh.NewInput().
			Key("group_name").
			Title("Group Name").
			Placeholder("e.g. Vehicles").
			Validate(required).
			Value(groupName),
	)
}

// CreateLabelClassForm asks for a class name and an optional display name
func CreateLabelClassForm(groupName string, name, humanName *string) *huh.Form {
	return newForm(
		huh.NewInput().
			Key("name").
			Title("Class Name").
			Description("In group " + groupName).
			Placeholder("e.g. car").
			Validate(required).
			Value(name),

		huh.NewInput().
			Key("human_name").
			Title("Display Name (optional)").
			Placeholder("Defaults to the name").
			Value(humanName),
	)
}

// CreateColourForm asks for the colour of one class in one scheme
func CreateColourForm(className, scheme string, colour *string) *huh.Form {
	return newForm(
		huh.NewInput().
			Key("colour").
			Title("Colour of " + className).
			Description("Scheme " + scheme).
			Placeholder(models.DefaultColour).
			CharLimit(7).
			Validate(validColour).
			Value(colour),
	)
}

// CreateRenameForm edits a single display name
func CreateRenameForm(title string, value *string, mustBeSet bool) *huh.Form {
	input := huh.NewInput().
		Key("value").
		Title(title).
		Value(value)
	if mustBeSet {
		input = input.Validate(required)
	}
	return newForm(input)
}
