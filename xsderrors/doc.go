// Package xsderrors provides structured error types for the xsdflat library.
//
// Import path: github.com/erraggy/xsdflat/xsderrors
//
// A conversion either returns a complete schema or exactly one terminal
// error. This package defines those terminal errors so callers can tell
// them apart with [errors.Is] and [errors.As]. Unresolved references and
// unknown types are not errors; they degrade to String attributes and are
// reported as issues on the conversion result.
//
// # Error Types
//
//   - [ParseError]: a document is not well-formed XML
//   - [ResourceLimitError]: element nesting or reference indirection went
//     deeper than the configured bound (cyclic or pathological schemas)
//   - [ConfigError]: invalid options or missing input
//
// # Sentinel Errors
//
//   - [ErrMalformedDocument]: matches any [ParseError]
//   - [ErrRecursionLimitExceeded]: matches any [ResourceLimitError]
//   - [ErrConfig]: matches any [ConfigError]
//
// # Usage Examples
//
//	result, err := flatten.Convert(sources)
//	if errors.Is(err, xsderrors.ErrMalformedDocument) {
//	    var parseErr *xsderrors.ParseError
//	    errors.As(err, &parseErr)
//	    fmt.Printf("%s is not well-formed: %s\n", parseErr.Document, parseErr.Message)
//	}
//
//	if errors.Is(err, xsderrors.ErrRecursionLimitExceeded) {
//	    // The schema is cyclic; raise the limit with flatten.WithMaxDepth
//	    // only if the nesting is legitimately deep.
//	}
package xsderrors
