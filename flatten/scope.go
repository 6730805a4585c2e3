package flatten

import (
	"fmt"
)

// Scope selects which global elements become entities.
type Scope int

const (
	// ScopeRootsOnly uses the elements referenced by WSDL message parts,
	// or every global element when there are none.
	ScopeRootsOnly Scope = iota
	// ScopeAll uses every global element and ignores entry points.
	ScopeAll
	// ScopeUnion uses the entry points followed by every other global element.
	ScopeUnion
)

var scopeNames = map[Scope]string{
	ScopeRootsOnly: "roots-only",
	ScopeAll:       "all",
	ScopeUnion:     "union",
}

// String returns the scope name as accepted by ParseScope.
func (s Scope) String() string {
	if name, ok := scopeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

// ParseScope parses "roots-only", "all" or "union".
func ParseScope(s string) (Scope, error) {
	for scope, name := range scopeNames {
		if name == s {
			return scope, nil
		}
	}
	return ScopeRootsOnly, fmt.Errorf("unknown scope %q (valid: %v)", s, ValidScopes())
}

// ValidScopes returns the accepted scope names.
func ValidScopes() []string {
	return []string{"roots-only", "all", "union"}
}

// IsValidScope reports whether s names a scope.
func IsValidScope(s string) bool {
	_, err := ParseScope(s)
	return err == nil
}
