// Package schema defines the flat entity/attribute model produced by the
// flattener.
//
// A Schema is a list of entities; an Entity is an ordered list of
// attributes whose names are unique under case folding. Order matters:
// it is the order a reviewer sees in a preview, and flattening the same
// documents twice yields the same order.
package schema

import (
	"fmt"

	"github.com/erraggy/xsdflat/internal/naming"
)

// AttributeType is the four-way attribute type.
type AttributeType int

const (
	// String is the default type and the fallback for anything unresolved.
	String AttributeType = iota
	// Int covers the integer, decimal and floating-point XSD primitives.
	Int
	// Bool covers xs:boolean.
	Bool
	// Datetime covers the date and time XSD primitives.
	Datetime
)

var attributeTypeNames = [...]string{
	String:   "String",
	Int:      "Int",
	Bool:     "Bool",
	Datetime: "Datetime",
}

// String returns the type name, e.g. "Datetime".
func (t AttributeType) String() string {
	if t < 0 || int(t) >= len(attributeTypeNames) {
		return fmt.Sprintf("AttributeType(%d)", int(t))
	}
	return attributeTypeNames[t]
}

// ParseAttributeType is the inverse of AttributeType.String.
func ParseAttributeType(s string) (AttributeType, error) {
	for i, name := range attributeTypeNames {
		if name == s {
			return AttributeType(i), nil
		}
	}
	return String, fmt.Errorf("schema: unknown attribute type %q", s)
}

// MarshalText implements encoding.TextMarshaler so JSON and YAML output
// carry the type name rather than its ordinal.
func (t AttributeType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(attributeTypeNames) {
		return nil, fmt.Errorf("schema: invalid attribute type %d", int(t))
	}
	return []byte(attributeTypeNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *AttributeType) UnmarshalText(text []byte) error {
	parsed, err := ParseAttributeType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Attribute is a single flattened field of an entity.
type Attribute struct {
	Name       string        `json:"name" yaml:"name"`
	Type       AttributeType `json:"type" yaml:"type"`
	MultiValue bool          `json:"multiValue" yaml:"multiValue"`
	IsKey      bool          `json:"isKey" yaml:"isKey"`
}

// Entity is a named, ordered attribute list.
type Entity struct {
	Name       string      `json:"name" yaml:"name"`
	Attributes []Attribute `json:"attributes" yaml:"attributes"`
}

// Add appends attr unless an attribute with the same case-folded name is
// already present. The first occurrence wins. Add reports whether attr was
// appended.
func (e *Entity) Add(attr Attribute) bool {
	if e.indexOf(attr.Name) >= 0 {
		return false
	}
	e.Attributes = append(e.Attributes, attr)
	return true
}

// Attribute returns the attribute whose name matches under case folding.
func (e *Entity) Attribute(name string) (Attribute, bool) {
	if i := e.indexOf(name); i >= 0 {
		return e.Attributes[i], true
	}
	return Attribute{}, false
}

// Key returns the first attribute marked as key.
func (e *Entity) Key() (Attribute, bool) {
	for _, attr := range e.Attributes {
		if attr.IsKey {
			return attr, true
		}
	}
	return Attribute{}, false
}

// MarkKey flags the attribute named name as key. It reports whether such an
// attribute exists. Other key flags are left alone; call NormalizeKeys to
// enforce a single key.
func (e *Entity) MarkKey(name string) bool {
	i := e.indexOf(name)
	if i < 0 {
		return false
	}
	e.Attributes[i].IsKey = true
	return true
}

// NormalizeKeys clears every key flag after the first one.
func (e *Entity) NormalizeKeys() {
	seen := false
	for i := range e.Attributes {
		if !e.Attributes[i].IsKey {
			continue
		}
		if seen {
			e.Attributes[i].IsKey = false
		}
		seen = true
	}
}

// Merge folds other into e. Attributes of other that e lacks are appended
// in order; duplicates are dropped. When e already has a key it is kept;
// otherwise the key of other, if any, is carried over onto e's attribute of
// that name. At most one key remains.
func (e *Entity) Merge(other Entity) {
	_, hadKey := e.Key()
	for _, attr := range other.Attributes {
		incomingKey := attr.IsKey
		attr.IsKey = attr.IsKey && !hadKey
		if !e.Add(attr) && incomingKey && !hadKey {
			e.MarkKey(attr.Name)
		}
	}
	e.NormalizeKeys()
}

func (e *Entity) indexOf(name string) int {
	folded := naming.Fold(name)
	for i := range e.Attributes {
		if naming.Fold(e.Attributes[i].Name) == folded {
			return i
		}
	}
	return -1
}

// Schema is the flattener's output.
type Schema struct {
	Name     string   `json:"name" yaml:"name"`
	Version  string   `json:"version" yaml:"version"`
	Entities []Entity `json:"entities" yaml:"entities"`
}

// Entity returns a pointer to the entity with the given name, or nil.
func (s *Schema) Entity(name string) *Entity {
	for i := range s.Entities {
		if s.Entities[i].Name == name {
			return &s.Entities[i]
		}
	}
	return nil
}

// AttributeCount returns the total number of attributes across all entities.
func (s *Schema) AttributeCount() int {
	n := 0
	for _, e := range s.Entities {
		n += len(e.Attributes)
	}
	return n
}
