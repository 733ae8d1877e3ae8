package editor

import "errors"

// Editor errors
var (
	// Validation errors
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrEmptyGroupName  = errors.New("group name cannot be empty")
	ErrEmptyClassName  = errors.New("label class name cannot be empty")
	ErrInvalidColour   = errors.New("invalid colour format (must be hex colour like #A1B2C3)")
	ErrNoFieldsToApply = errors.New("no fields to update")

	// Business logic errors
	ErrUnknownScheme = errors.New("colour scheme does not exist")
)
