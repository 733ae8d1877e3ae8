package transport

import "github.com/thenoetrevino/labelschema/internal/models"

// Action identifies which subtree an update carries
type Action string

const (
	ActionUpdateColourSchemes    Action = models.ActionUpdateColourSchemes
	ActionUpdateLabelClassGroups Action = models.ActionUpdateLabelClassGroups
)

// StatusSuccess is the only response status that counts as accepted
const StatusSuccess = "success"

// Response is the JSON body returned by the update endpoint
type Response struct {
	Status              string           `json:"status"`
	IDMapping           models.IDMapping `json:"id_mapping,omitempty"`
	GroupIDMapping      models.IDMapping `json:"group_id_mapping,omitempty"`
	LabelClassIDMapping models.IDMapping `json:"label_class_id_mapping,omitempty"`
}

// Succeeded reports whether the server accepted the update
func (r *Response) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}
