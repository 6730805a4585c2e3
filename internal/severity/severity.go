// Package severity provides severity levels for issues reported while
// flattening schema documents.
//
// Flattening never fails on structural uncertainty; it degrades and
// records an issue instead. The levels are ordered Info < Warning:
//   - SeverityInfo: a choice the engine made (fallback scope, ignored construct)
//   - SeverityWarning: a lossy degradation (unresolved reference typed as String)
package severity

// Severity indicates the severity level of an issue.
type Severity int

const (
	// SeverityInfo indicates informational messages about processing choices.
	SeverityInfo Severity = iota

	// SeverityWarning indicates a best-effort degradation that a human
	// reviewer should check, such as an unresolved type reference.
	SeverityWarning
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Symbol returns the single-character marker used in text output.
func (s Severity) Symbol() string {
	switch s {
	case SeverityInfo:
		return "ℹ"
	case SeverityWarning:
		return "⚠"
	default:
		return "?"
	}
}
