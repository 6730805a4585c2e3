package flatten

import (
	"fmt"

	"github.com/erraggy/xsdflat/document"
	"github.com/erraggy/xsdflat/index"
	"github.com/erraggy/xsdflat/internal/issues"
	"github.com/erraggy/xsdflat/schema"
	"github.com/erraggy/xsdflat/xsderrors"
)

// Issue is a degradation or note recorded during a conversion.
type Issue = issues.Issue

// TextSourceName is the source name used by ConvertText.
const TextSourceName = "document"

// Flattener converts XSD and WSDL document sets into a flat schema.
// The zero value is not ready for use; call New.
type Flattener struct {
	// Name is the name given to the produced schema
	Name string
	// Version is the version given to the produced schema
	Version string
	// Scope selects which global elements become entities
	Scope Scope
	// MaxDepth bounds nesting and type indirection per entity
	MaxDepth int
	// ResolveSimpleTypes maps simple types restricting a primitive to that primitive
	ResolveSimpleTypes bool
	// Logger receives debug output and degradations (nil disables logging)
	Logger document.Logger
}

// New creates a Flattener with default settings.
func New() *Flattener {
	return &Flattener{
		Name:     DefaultName,
		Version:  DefaultVersion,
		Scope:    ScopeRootsOnly,
		MaxDepth: DefaultMaxDepth,
	}
}

// Result is the outcome of a conversion.
type Result struct {
	// Schema is the flattened schema
	Schema *schema.Schema
	// Issues lists every degradation in the order it was encountered
	Issues []Issue
	// InfoCount is the number of informational issues
	InfoCount int
	// WarningCount is the number of warnings
	WarningCount int
	// DocumentCount is the number of documents supplied
	DocumentCount int
	// SchemaCount is the number of schemas indexed, including embedded ones
	SchemaCount int
	// ServiceCount is the number of service descriptions scanned
	ServiceCount int
	// IgnoredCount is the number of documents that were neither schemas nor service descriptions
	IgnoredCount int
	// EntryPointCount is the number of distinct elements named by message parts
	EntryPointCount int
}

// HasWarnings reports whether any warning was recorded.
func (r *Result) HasWarnings() bool {
	return r.WarningCount > 0
}

// Convert flattens sources as one document set.
//
// The only errors are a malformed document (*xsderrors.ParseError), the
// depth bound being exceeded (*xsderrors.ResourceLimitError) and invalid
// configuration (*xsderrors.ConfigError). Everything else degrades to
// String attributes and is reported in Result.Issues.
func (f *Flattener) Convert(sources []document.Source) (*Result, error) {
	if len(sources) == 0 {
		return nil, &xsderrors.ConfigError{Option: "input", Message: "flatten: at least one document is required"}
	}
	if f.MaxDepth <= 0 {
		return nil, &xsderrors.ConfigError{Option: "MaxDepth", Value: f.MaxDepth, Message: "depth must be positive"}
	}
	logger := document.OrNop(f.Logger)

	docs, err := document.ParseAll(sources)
	if err != nil {
		return nil, err
	}

	idx := index.Build(docs, logger)
	w := newWalker(idx, f.MaxDepth, f.ResolveSimpleTypes, logger)
	c := &collector{idx: idx, walker: w, scope: f.Scope}

	entities, err := c.collect()
	if err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}

	result := &Result{
		Schema: &schema.Schema{
			Name:     f.Name,
			Version:  f.Version,
			Entities: entities,
		},
		DocumentCount:   len(docs),
		SchemaCount:     idx.SchemaCount(),
		ServiceCount:    idx.ServiceCount(),
		IgnoredCount:    idx.IgnoredCount(),
		EntryPointCount: len(idx.EntryPoints()),
	}
	if result.Schema.Entities == nil {
		result.Schema.Entities = []schema.Entity{}
	}
	result.Issues = append(result.Issues, idx.Issues()...)
	result.Issues = append(result.Issues, c.issues...)
	result.Issues = append(result.Issues, w.issues...)
	result.InfoCount, result.WarningCount = issues.Count(result.Issues)

	logger.Debug("conversion complete",
		"documents", result.DocumentCount,
		"entities", len(entities),
		"attributes", result.Schema.AttributeCount(),
		"warnings", result.WarningCount)
	return result, nil
}

// Convert flattens sources as one document set.
//
// Example:
//
//	result, err := flatten.Convert(sources, flatten.WithScope(flatten.ScopeAll))
func Convert(sources []document.Source, opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("flatten: invalid options: %w", err)
	}
	return cfg.flattener().Convert(sources)
}

// ConvertText flattens a single document.
func ConvertText(text string, opts ...Option) (*Result, error) {
	return Convert([]document.Source{{Name: TextSourceName, Text: text}}, opts...)
}

// ConvertWithOptions flattens the input given by exactly one of WithSources
// or WithText.
//
// Example:
//
//	result, err := flatten.ConvertWithOptions(
//	    flatten.WithSources(sources...),
//	    flatten.WithName("Orders"),
//	)
func ConvertWithOptions(opts ...Option) (*Result, error) {
	cfg, err := applyInputOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("flatten: invalid options: %w", err)
	}

	f := cfg.flattener()
	if cfg.text != nil {
		return f.Convert([]document.Source{{Name: TextSourceName, Text: *cfg.text}})
	}
	return f.Convert(cfg.sources)
}

func (cfg *flattenConfig) flattener() *Flattener {
	return &Flattener{
		Name:               cfg.name,
		Version:            cfg.version,
		Scope:              cfg.scope,
		MaxDepth:           cfg.maxDepth,
		ResolveSimpleTypes: cfg.resolveSimpleTypes,
		Logger:             cfg.logger,
	}
}
