package naming

import (
	"golang.org/x/text/cases"
)

// Fold returns the case-folded form of s used as a uniqueness key.
// A Caser is stateful, so a fresh one is created per call.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// EqualFold reports whether a and b are equal under Unicode case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// LocalName strips a namespace prefix ("tns:code" -> "code") and an
// attribute axis marker ("@code" -> "code").
func LocalName(s string) string {
	if len(s) > 0 && s[0] == '@' {
		s = s[1:]
	}
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			return s[i+1:]
		}
	}
	return s
}
