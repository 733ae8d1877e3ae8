// Package editor validates user edits and applies them to a schema document.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/thenoetrevino/labelschema/internal/models"
	"github.com/thenoetrevino/labelschema/internal/schema"
)

// Service defines every edit a user can make to the schema
type Service interface {
	// Create operations
	CreateColourScheme(req CreateColourSchemeRequest) (*models.ColourScheme, error)
	CreateGroup(req CreateGroupRequest) (*models.LabelClassGroup, error)
	CreateLabelClass(req CreateLabelClassRequest) (*models.LabelClass, error)

	// Update operations
	SetColour(req SetColourRequest) error
	UpdateColourScheme(req UpdateColourSchemeRequest) error
	UpdateGroup(req UpdateGroupRequest) error
	UpdateLabelClass(req UpdateLabelClassRequest) error
}

// CreateColourSchemeRequest encapsulates data for creating a colour scheme
type CreateColourSchemeRequest struct {
	Name      string
	HumanName string // defaults to a title-cased Name
}

// CreateGroupRequest encapsulates data for creating a group
type CreateGroupRequest struct {
	GroupName string
}

// CreateLabelClassRequest encapsulates data for creating a label class
type CreateLabelClassRequest struct {
	GroupIndex int
	Name       string
	HumanName  string // defaults to a title-cased Name
}

// SetColourRequest sets the colour of one label class in one scheme
type SetColourRequest struct {
	Class  schema.ClassRef
	Scheme string
	Colour string // #RRGGBB
}

// UpdateColourSchemeRequest changes the provided fields of a colour scheme
type UpdateColourSchemeRequest struct {
	Index     int
	Active    *bool
	HumanName *string
}

// UpdateGroupRequest changes the provided fields of a group
type UpdateGroupRequest struct {
	Index     int
	Active    *bool
	GroupName *string
}

// UpdateLabelClassRequest changes the provided fields of a label class
type UpdateLabelClassRequest struct {
	Class     schema.ClassRef
	Active    *bool
	HumanName *string
}

// service implements Service interface
type service struct {
	doc *schema.Document
}

// NewService creates an editor bound to doc
func NewService(doc *schema.Document) Service {
	return &service{doc: doc}
}

// CreateColourScheme appends a new scheme. Every label class gets a default
// colour for it.
func (s *service) CreateColourScheme(req CreateColourSchemeRequest) (*models.ColourScheme, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	scheme, err := models.NewColourScheme(name, humanName(name, req.HumanName))
	if err != nil {
		return nil, fmt.Errorf("failed to create colour scheme: %w", err)
	}

	s.doc.AddColourScheme(scheme)
	return scheme, nil
}

// CreateGroup appends a new, empty group
func (s *service) CreateGroup(req CreateGroupRequest) (*models.LabelClassGroup, error) {
	groupName := strings.TrimSpace(req.GroupName)
	if groupName == "" {
		return nil, ErrEmptyGroupName
	}

	group, err := models.NewLabelClassGroup(groupName)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.doc.AddGroup(group)
	return group, nil
}

// CreateLabelClass appends a new class to a group with a default colour in
// every scheme
func (s *service) CreateLabelClass(req CreateLabelClassRequest) (*models.LabelClass, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyClassName
	}

	lcls, err := models.NewLabelClass(name, humanName(name, req.HumanName), s.doc.SchemeNames())
	if err != nil {
		return nil, fmt.Errorf("failed to create label class: %w", err)
	}

	if err := s.doc.AddLabelClass(req.GroupIndex, lcls); err != nil {
		return nil, fmt.Errorf("failed to add label class: %w", err)
	}
	return lcls, nil
}

// SetColour changes one colour of a label class
func (s *service) SetColour(req SetColourRequest) error {
	colour := strings.TrimSpace(req.Colour)
	if !models.ValidColour(colour) {
		return ErrInvalidColour
	}

	if req.Scheme != models.DefaultSchemeName {
		if _, err := s.doc.FindColourScheme(req.Scheme); err != nil {
			return fmt.Errorf("%w: %s", ErrUnknownScheme, req.Scheme)
		}
	}

	if err := s.doc.SetClassColour(req.Class, req.Scheme, colour); err != nil {
		return fmt.Errorf("failed to set colour: %w", err)
	}
	return nil
}

// UpdateColourScheme applies the provided fields
func (s *service) UpdateColourScheme(req UpdateColourSchemeRequest) error {
	if req.Active == nil && req.HumanName == nil {
		return ErrNoFieldsToApply
	}

	if req.Active != nil {
		if err := s.doc.SetColourSchemeActive(req.Index, *req.Active); err != nil {
			return fmt.Errorf("failed to update colour scheme: %w", err)
		}
	}
	if req.HumanName != nil {
		if err := s.doc.SetColourSchemeHumanName(req.Index, strings.TrimSpace(*req.HumanName)); err != nil {
			return fmt.Errorf("failed to update colour scheme: %w", err)
		}
	}
	return nil
}

// UpdateGroup applies the provided fields
func (s *service) UpdateGroup(req UpdateGroupRequest) error {
	if req.Active == nil && req.GroupName == nil {
		return ErrNoFieldsToApply
	}

	if req.GroupName != nil {
		if err := s.doc.SetGroupName(req.Index, strings.TrimSpace(*req.GroupName)); err != nil {
			if errors.Is(err, models.ErrEmptyGroupName) {
				return ErrEmptyGroupName
			}
			return fmt.Errorf("failed to update group: %w", err)
		}
	}
	if req.Active != nil {
		if err := s.doc.SetGroupActive(req.Index, *req.Active); err != nil {
			return fmt.Errorf("failed to update group: %w", err)
		}
	}
	return nil
}

// UpdateLabelClass applies the provided fields
func (s *service) UpdateLabelClass(req UpdateLabelClassRequest) error {
	if req.Active == nil && req.HumanName == nil {
		return ErrNoFieldsToApply
	}

	if req.Active != nil {
		if err := s.doc.SetLabelClassActive(req.Class, *req.Active); err != nil {
			return fmt.Errorf("failed to update label class: %w", err)
		}
	}
	if req.HumanName != nil {
		if err := s.doc.SetLabelClassHumanName(req.Class, strings.TrimSpace(*req.HumanName)); err != nil {
			return fmt.Errorf("failed to update label class: %w", err)
		}
	}
	return nil
}

// humanName returns given, or a display name derived from the machine name
// ("road_sign" becomes "Road Sign").
func humanName(name, given string) string {
	if given = strings.TrimSpace(given); given != "" {
		return given
	}
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}
