package models

import "errors"

// Validation errors for schema entities
var (
	// ErrEmptyName indicates a scheme or label class without a machine name
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyGroupName indicates a group without a name
	ErrEmptyGroupName = errors.New("group name cannot be empty")

	// ErrInvalidColour indicates a colour that is not #RRGGBB
	ErrInvalidColour = errors.New("invalid colour format (must be hex colour like #80FF00)")
)
