// Package schema holds the in-memory labelling schema being edited.
//
// All edits go through Document methods. Each successful mutation notifies
// subscribers with the subtrees it touched so that the updater can schedule
// the matching server update.
package schema

import (
	"errors"
	"sync"

	"github.com/thenoetrevino/labelschema/internal/models"
)

// Change names the subtrees touched by a mutation.
type Change uint8

const (
	// ChangeColourSchemes means the colour scheme list changed
	ChangeColourSchemes Change = 1 << iota
	// ChangeGroups means the group list, a group or a label class changed
	ChangeGroups
)

// Has reports whether c includes other
func (c Change) Has(other Change) bool { return c&other != 0 }

// Subscriber is called after a mutation, outside the document lock.
type Subscriber func(Change)

// Lookup errors
var (
	ErrGroupNotFound        = errors.New("label class group not found")
	ErrLabelClassNotFound   = errors.New("label class not found")
	ErrColourSchemeNotFound = errors.New("colour scheme not found")
)

// Document is the colour scheme list plus the group list.
type Document struct {
	mu            sync.RWMutex
	colourSchemes []*models.ColourScheme
	groups        []*models.LabelClassGroup

	subMu       sync.Mutex
	subscribers []Subscriber
}

// New creates a document from initial state. The slices are deep-copied.
func New(colourSchemes []*models.ColourScheme, groups []*models.LabelClassGroup) *Document {
	d := &Document{}
	d.colourSchemes, d.groups = cloneSchemes(colourSchemes), cloneGroups(groups)
	return d
}

// Subscribe registers fn for change notifications.
func (d *Document) Subscribe(fn Subscriber) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	d.subscribers = append(d.subscribers, fn)
}

func (d *Document) notify(change Change) {
	d.subMu.Lock()
	subs := make([]Subscriber, len(d.subscribers))
	copy(subs, d.subscribers)
	d.subMu.Unlock()

	for _, fn := range subs {
		fn(change)
	}
}

// ============================================================================
// Snapshots
// ============================================================================

// ColourSchemes returns a deep copy of the colour scheme list.
func (d *Document) ColourSchemes() []*models.ColourScheme {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return cloneSchemes(d.colourSchemes)
}

// Groups returns a deep copy of the group list.
func (d *Document) Groups() []*models.LabelClassGroup {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return cloneGroups(d.groups)
}

// SchemeNames returns the colour scheme names in order.
func (d *Document) SchemeNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return schemeNamesLocked(d.colourSchemes)
}

// FindColourScheme returns the index of the first scheme named name.
func (d *Document) FindColourScheme(name string) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i, s := range d.colourSchemes {
		if s.Name == name {
			return i, nil
		}
	}
	return -1, ErrColourSchemeNotFound
}

// FindGroup returns the index of the first group named groupName.
func (d *Document) FindGroup(groupName string) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i, g := range d.groups {
		if g.GroupName == groupName {
			return i, nil
		}
	}
	return -1, ErrGroupNotFound
}

// FindLabelClass returns the position of the first label class named name.
func (d *Document) FindLabelClass(name string) (ClassRef, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for gi, g := range d.groups {
		for ci, c := range g.GroupClasses {
			if c.Name == name {
				return ClassRef{Group: gi, Class: ci}, nil
			}
		}
	}
	return ClassRef{}, ErrLabelClassNotFound
}

// ClassRef locates a label class by group and class index.
type ClassRef struct {
	Group int
	Class int
}

// ============================================================================
// Mutations
// ============================================================================

// AddColourScheme appends scheme and backfills a DefaultColour entry for it
// in every existing label class that lacks one.
func (d *Document) AddColourScheme(scheme *models.ColourScheme) {
	d.mu.Lock()
	for _, g := range d.groups {
		for _, c := range g.GroupClasses {
			if c.Colours == nil {
				c.Colours = models.ColourMap{}
			}
			if _, ok := c.Colours[scheme.Name]; !ok {
				c.Colours[scheme.Name] = models.Colour{HTML: models.DefaultColour}
			}
		}
	}
	d.colourSchemes = append(d.colourSchemes, scheme.Clone())
	hasClasses := d.hasClassesLocked()
	d.mu.Unlock()

	change := ChangeColourSchemes
	if hasClasses {
		change |= ChangeGroups
	}
	d.notify(change)
}

// AddGroup appends group.
func (d *Document) AddGroup(group *models.LabelClassGroup) {
	d.mu.Lock()
	d.groups = append(d.groups, group.Clone())
	d.mu.Unlock()

	d.notify(ChangeGroups)
}

// AddLabelClass appends lcls to the group at groupIndex, backfilling colour
// entries for every scheme name plus "default".
func (d *Document) AddLabelClass(groupIndex int, lcls *models.LabelClass) error {
	d.mu.Lock()
	if groupIndex < 0 || groupIndex >= len(d.groups) {
		d.mu.Unlock()
		return ErrGroupNotFound
	}

	added := lcls.Clone()
	if added.Colours == nil {
		added.Colours = models.ColourMap{}
	}
	for _, name := range schemeNamesLocked(d.colourSchemes) {
		if _, ok := added.Colours[name]; !ok {
			added.Colours[name] = models.Colour{HTML: models.DefaultColour}
		}
	}
	if _, ok := added.Colours[models.DefaultSchemeName]; !ok {
		added.Colours[models.DefaultSchemeName] = models.Colour{HTML: models.DefaultColour}
	}

	group := d.groups[groupIndex]
	group.GroupClasses = append(group.GroupClasses, added)
	d.mu.Unlock()

	d.notify(ChangeGroups)
	return nil
}

// SetClassColour sets the colour of a label class for one scheme.
func (d *Document) SetClassColour(ref ClassRef, scheme, html string) error {
	if !models.ValidColour(html) {
		return models.ErrInvalidColour
	}
	return d.mutateClass(ref, func(c *models.LabelClass) {
		if c.Colours == nil {
			c.Colours = models.ColourMap{}
		}
		c.Colours[scheme] = models.Colour{HTML: html}
	})
}

// SetLabelClassActive toggles whether a label class is offered to annotators.
func (d *Document) SetLabelClassActive(ref ClassRef, active bool) error {
	return d.mutateClass(ref, func(c *models.LabelClass) { c.Active = active })
}

// SetLabelClassHumanName changes a label class display name.
func (d *Document) SetLabelClassHumanName(ref ClassRef, humanName string) error {
	return d.mutateClass(ref, func(c *models.LabelClass) { c.HumanName = humanName })
}

func (d *Document) mutateClass(ref ClassRef, fn func(*models.LabelClass)) error {
	d.mu.Lock()
	c, err := d.classLocked(ref)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	fn(c)
	d.mu.Unlock()

	d.notify(ChangeGroups)
	return nil
}

// SetGroupActive toggles a group.
func (d *Document) SetGroupActive(groupIndex int, active bool) error {
	return d.mutateGroup(groupIndex, func(g *models.LabelClassGroup) { g.Active = active })
}

// SetGroupName renames a group.
func (d *Document) SetGroupName(groupIndex int, groupName string) error {
	if groupName == "" {
		return models.ErrEmptyGroupName
	}
	return d.mutateGroup(groupIndex, func(g *models.LabelClassGroup) { g.GroupName = groupName })
}

func (d *Document) mutateGroup(groupIndex int, fn func(*models.LabelClassGroup)) error {
	d.mu.Lock()
	if groupIndex < 0 || groupIndex >= len(d.groups) {
		d.mu.Unlock()
		return ErrGroupNotFound
	}
	fn(d.groups[groupIndex])
	d.mu.Unlock()

	d.notify(ChangeGroups)
	return nil
}

// SetColourSchemeActive toggles a colour scheme.
func (d *Document) SetColourSchemeActive(index int, active bool) error {
	return d.mutateScheme(index, func(s *models.ColourScheme) { s.Active = active })
}

// SetColourSchemeHumanName changes a colour scheme display name.
func (d *Document) SetColourSchemeHumanName(index int, humanName string) error {
	return d.mutateScheme(index, func(s *models.ColourScheme) { s.HumanName = humanName })
}

func (d *Document) mutateScheme(index int, fn func(*models.ColourScheme)) error {
	d.mu.Lock()
	if index < 0 || index >= len(d.colourSchemes) {
		d.mu.Unlock()
		return ErrColourSchemeNotFound
	}
	fn(d.colourSchemes[index])
	d.mu.Unlock()

	d.notify(ChangeColourSchemes)
	return nil
}

// Replace swaps in a whole new schema, e.g. after reloading a file.
func (d *Document) Replace(colourSchemes []*models.ColourScheme, groups []*models.LabelClassGroup) {
	d.mu.Lock()
	d.colourSchemes, d.groups = cloneSchemes(colourSchemes), cloneGroups(groups)
	d.mu.Unlock()

	d.notify(ChangeColourSchemes | ChangeGroups)
}

// ReplaceColourSchemes swaps in a new colour scheme list.
func (d *Document) ReplaceColourSchemes(colourSchemes []*models.ColourScheme) {
	d.mu.Lock()
	d.colourSchemes = cloneSchemes(colourSchemes)
	d.mu.Unlock()

	d.notify(ChangeColourSchemes)
}

// ReplaceGroups swaps in a new group list.
func (d *Document) ReplaceGroups(groups []*models.LabelClassGroup) {
	d.mu.Lock()
	d.groups = cloneGroups(groups)
	d.mu.Unlock()

	d.notify(ChangeGroups)
}

// ============================================================================
// Id remapping
// ============================================================================

// ApplyColourSchemeIDMapping replaces the id of every colour scheme whose id
// key appears in mapping. It returns the number of entities changed.
// Subscribers are not notified.
func (d *Document) ApplyColourSchemeIDMapping(mapping models.IDMapping) int {
	if len(mapping) == 0 {
		return 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for _, s := range d.colourSchemes {
		if remap(&s.ID, mapping) {
			n++
		}
	}
	return n
}

// ApplyGroupIDMapping replaces group ids found in groupMapping and label
// class ids found in classMapping. It returns the number of entities changed.
// Subscribers are not notified.
func (d *Document) ApplyGroupIDMapping(groupMapping, classMapping models.IDMapping) int {
	if len(groupMapping) == 0 && len(classMapping) == 0 {
		return 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for _, g := range d.groups {
		if remap(&g.ID, groupMapping) {
			n++
		}
		for _, c := range g.GroupClasses {
			if remap(&c.ID, classMapping) {
				n++
			}
		}
	}
	return n
}

func remap(id *models.EntityID, mapping models.IDMapping) bool {
	key := id.Key()
	if key == "" {
		return false
	}
	newID, ok := mapping[key]
	if !ok {
		return false
	}
	*id = newID
	return true
}

// ============================================================================
// Helpers
// ============================================================================

func (d *Document) classLocked(ref ClassRef) (*models.LabelClass, error) {
	if ref.Group < 0 || ref.Group >= len(d.groups) {
		return nil, ErrGroupNotFound
	}
	classes := d.groups[ref.Group].GroupClasses
	if ref.Class < 0 || ref.Class >= len(classes) {
		return nil, ErrLabelClassNotFound
	}
	return classes[ref.Class], nil
}

func (d *Document) hasClassesLocked() bool {
	for _, g := range d.groups {
		if len(g.GroupClasses) > 0 {
			return true
		}
	}
	return false
}

func schemeNamesLocked(schemes []*models.ColourScheme) []string {
	names := make([]string, len(schemes))
	for i, s := range schemes {
		names[i] = s.Name
	}
	return names
}

func cloneSchemes(in []*models.ColourScheme) []*models.ColourScheme {
	out := make([]*models.ColourScheme, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

func cloneGroups(in []*models.LabelClassGroup) []*models.LabelClassGroup {
	out := make([]*models.LabelClassGroup, len(in))
	for i, g := range in {
		out[i] = g.Clone()
	}
	return out
}
