package models

// LabelClassGroup is an ordered collection of label classes shown together
type LabelClassGroup struct {
	ID           EntityID      `json:"id" yaml:"id"`
	Active       bool          `json:"active" yaml:"active"`
	GroupName    string        `json:"group_name" yaml:"group_name"`
	GroupClasses []*LabelClass `json:"group_classes" yaml:"group_classes"`
}

// NewLabelClassGroup builds an empty, active group with a placeholder id.
func NewLabelClassGroup(groupName string) (*LabelClassGroup, error) {
	if groupName == "" {
		return nil, ErrEmptyGroupName
	}
	return &LabelClassGroup{
		ID:           NewPlaceholderID(),
		Active:       true,
		GroupName:    groupName,
		GroupClasses: []*LabelClass{},
	}, nil
}

// Clone returns a deep copy of the group and its classes
func (g *LabelClassGroup) Clone() *LabelClassGroup {
	out := *g
	out.GroupClasses = make([]*LabelClass, len(g.GroupClasses))
	for i, c := range g.GroupClasses {
		out.GroupClasses[i] = c.Clone()
	}
	return &out
}
