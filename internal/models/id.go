package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// IDKind tells which of the three states an EntityID is in.
type IDKind int

const (
	// IDNone is an entity with no id at all (JSON null)
	IDNone IDKind = iota
	// IDPlaceholder is a locally generated UUID awaiting a server id
	IDPlaceholder
	// IDAssigned is an integer id assigned by the server
	IDAssigned
)

// EntityID identifies a colour scheme, group or label class.
// The zero value is IDNone.
type EntityID struct {
	kind        IDKind
	placeholder string
	assigned    int
}

// NewPlaceholderID returns a fresh placeholder id backed by a random UUIDv4.
func NewPlaceholderID() EntityID {
	return EntityID{kind: IDPlaceholder, placeholder: uuid.NewString()}
}

// PlaceholderID wraps an existing placeholder string.
func PlaceholderID(s string) EntityID {
	return EntityID{kind: IDPlaceholder, placeholder: s}
}

// AssignedID wraps a server-assigned id.
func AssignedID(id int) EntityID {
	return EntityID{kind: IDAssigned, assigned: id}
}

// Kind returns the id kind
func (id EntityID) Kind() IDKind { return id.kind }

// IsNone reports whether the id is unset
func (id EntityID) IsNone() bool { return id.kind == IDNone }

// IsPlaceholder reports whether the id still awaits a server assignment
func (id EntityID) IsPlaceholder() bool { return id.kind == IDPlaceholder }

// Assigned returns the server id and whether the id is assigned.
func (id EntityID) Assigned() (int, bool) {
	return id.assigned, id.kind == IDAssigned
}

// Key returns the textual form used as a key in id-mapping tables.
// IDNone returns "" and never matches a mapping entry.
func (id EntityID) Key() string {
	switch id.kind {
	case IDPlaceholder:
		return id.placeholder
	case IDAssigned:
		return strconv.Itoa(id.assigned)
	default:
		return ""
	}
}

// String implements fmt.Stringer
func (id EntityID) String() string {
	if id.kind == IDNone {
		return "<none>"
	}
	return id.Key()
}

// MarshalJSON encodes the id as null, a string or a number.
func (id EntityID) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case IDPlaceholder:
		return json.Marshal(id.placeholder)
	case IDAssigned:
		return json.Marshal(id.assigned)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, a string or an integer.
func (id *EntityID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = EntityID{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = PlaceholderID(s)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("entity id must be null, a string or an integer: %w", err)
	}
	*id = AssignedID(n)
	return nil
}

// MarshalYAML mirrors the JSON encoding for YAML documents.
func (id EntityID) MarshalYAML() (any, error) {
	switch id.kind {
	case IDPlaceholder:
		return id.placeholder, nil
	case IDAssigned:
		return id.assigned, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML accepts null, a string or an integer.
func (id *EntityID) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*id = EntityID{}
	case int:
		*id = AssignedID(v)
	case string:
		*id = PlaceholderID(v)
	default:
		return fmt.Errorf("entity id must be null, a string or an integer, got %T", raw)
	}
	return nil
}

// IDMapping maps old id keys (usually placeholders) to server-assigned ids.
type IDMapping map[string]EntityID
