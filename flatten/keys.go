package flatten

import (
	"regexp"

	"github.com/erraggy/xsdflat/schema"
)

// idPattern matches attribute names that conventionally hold an identifier.
var idPattern = regexp.MustCompile(`^(?i:id)$|(_id|Id|ID)$`)

// inferKey marks the key attribute of e. Declared constraint fields take
// precedence: when any are declared the heuristic is not consulted, even if
// none of the fields survived flattening. Otherwise the first attribute
// whose name looks like an identifier is the key.
func inferKey(e *schema.Entity, constrained []string) {
	if len(constrained) > 0 {
		for _, field := range constrained {
			e.MarkKey(field)
		}
		e.NormalizeKeys()
		return
	}

	for i := range e.Attributes {
		if idPattern.MatchString(e.Attributes[i].Name) {
			e.Attributes[i].IsKey = true
			return
		}
	}
}
