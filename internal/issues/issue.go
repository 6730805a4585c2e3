// Package issues provides the issue type recorded when flattening degrades
// instead of failing.
package issues

import (
	"fmt"

	"github.com/erraggy/xsdflat/internal/severity"
)

// Issue represents a single degradation or processing note.
type Issue struct {
	// Path locates the construct, e.g. "{urn:shop}Order/lines/sku"
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Document is the caller-supplied name of the source document (optional)
	Document string
	// Context provides additional information, such as the unresolved QName (optional)
	Context string
}

// String returns a formatted string representation of the issue.
func (i Issue) String() string {
	result := fmt.Sprintf("%s %s: %s", i.Severity.Symbol(), i.Location(), i.Message)
	if i.Context != "" {
		result += fmt.Sprintf("\n    Context: %s", i.Context)
	}
	return result
}

// Location returns "document:path" when the document is known, otherwise the path.
func (i Issue) Location() string {
	if i.Document == "" {
		return i.Path
	}
	if i.Path == "" {
		return i.Document
	}
	return i.Document + ":" + i.Path
}

// Count returns the number of info and warning issues in list.
func Count(list []Issue) (info, warning int) {
	for _, issue := range list {
		switch issue.Severity {
		case severity.SeverityInfo:
			info++
		case severity.SeverityWarning:
			warning++
		}
	}
	return info, warning
}
