package models

// ============================================================================
// COLOUR CONSTANTS
// ============================================================================

// DefaultColour is used to backfill colour map entries
const DefaultColour = "#808080"

// DefaultSchemeName is the colour map key that every label class carries
// regardless of which colour schemes exist
const DefaultSchemeName = "default"

// ============================================================================
// UPDATE ACTIONS
// ============================================================================

// Action names understood by the update endpoint
const (
	ActionUpdateColourSchemes    = "update_colour_schemes"
	ActionUpdateLabelClassGroups = "update_label_class_groups"
)
