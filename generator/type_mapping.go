// This file implements attribute type to Go type mapping for code generation.

package generator

import (
	"github.com/erraggy/xsdflat/schema"
)

// goType maps an attribute to its Go field type. Multi-valued attributes
// become slices.
func goType(attr schema.Attribute) string {
	var base string
	switch attr.Type {
	case schema.Int:
		base = "int64"
	case schema.Bool:
		base = "bool"
	case schema.Datetime:
		base = "time.Time"
	default:
		base = "string"
	}
	if attr.MultiValue {
		return "[]" + base
	}
	return base
}
