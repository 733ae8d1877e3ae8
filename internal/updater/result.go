package updater

import (
	"time"

	"github.com/thenoetrevino/labelschema/internal/transport"
)

// Result is the outcome of one update request.
type Result struct {
	Action   transport.Action
	Response *transport.Response
	// Err is nil when the server accepted the update
	Err      *transport.UpdateError
	Remapped int
	At       time.Time
}

// Succeeded reports whether the update was accepted
func (r Result) Succeeded() bool {
	return r.Err == nil
}

// Subtree returns the user-facing name of the updated subtree
func (r Result) Subtree() string {
	switch r.Action {
	case transport.ActionUpdateColourSchemes:
		return "colour schemes"
	case transport.ActionUpdateLabelClassGroups:
		return "label class groups"
	default:
		return string(r.Action)
	}
}
