// This file implements name conversion from entity and attribute names to valid
// Go identifiers, including reserved word escaping and collision suffixes.

package generator

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ettle/strcase"
)

// goReservedWords contains Go reserved keywords that cannot be used as identifiers.
var goReservedWords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// escapeReservedWord appends an underscore to Go keywords. The check is
// case-insensitive because PascalCase names like "Range" or "Type" should
// still be escaped.
func escapeReservedWord(name string) string {
	if goReservedWords[strings.ToLower(name)] {
		return name + "_"
	}
	return name
}

// toTypeName converts an entity or attribute name to an exported Go
// identifier with Go initialisms ("order_id" becomes "OrderID").
func toTypeName(s string) string {
	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, s)

	name := strcase.ToGoPascal(sanitized)
	if name == "" {
		return "Field"
	}
	if first := []rune(name)[0]; !unicode.IsLetter(first) {
		name = "X" + name
	}
	return escapeReservedWord(name)
}

// nameSet hands out identifiers unique within one scope by appending a
// numeric suffix on collision.
type nameSet map[string]bool

func (ns nameSet) unique(name string) string {
	candidate := name
	for i := 2; ns[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	ns[candidate] = true
	return candidate
}
