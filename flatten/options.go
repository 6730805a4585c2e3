package flatten

import (
	"github.com/erraggy/xsdflat/document"
	"github.com/erraggy/xsdflat/internal/options"
	"github.com/erraggy/xsdflat/xsderrors"
)

// Defaults applied when an option is not given.
const (
	DefaultName        = "Connector"
	DefaultVersion     = "1.0.0"
	DefaultMaxDepth    = 64
	DefaultConcurrency = 4
)

// Option is a function that configures a conversion
type Option func(*flattenConfig) error

// flattenConfig holds configuration for a conversion
type flattenConfig struct {
	// Input source (exactly one must be set for ConvertWithOptions)
	sources []document.Source
	text    *string

	name               string
	version            string
	scope              Scope
	maxDepth           int
	resolveSimpleTypes bool
	logger             document.Logger

	// Batch only
	concurrency int
}

// applyOptions applies option functions over the defaults.
func applyOptions(opts ...Option) (*flattenConfig, error) {
	cfg := &flattenConfig{
		name:        DefaultName,
		version:     DefaultVersion,
		scope:       ScopeRootsOnly,
		maxDepth:    DefaultMaxDepth,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// applyInputOptions is applyOptions plus the rule that exactly one input
// source is given.
func applyInputOptions(opts ...Option) (*flattenConfig, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	if err := options.ValidateSingleInputSource(
		"flatten: must specify an input source (use WithSources or WithText)",
		"flatten: must specify exactly one input source",
		cfg.sources != nil, cfg.text != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithSources specifies the documents to convert as one set
func WithSources(sources ...document.Source) Option {
	return func(cfg *flattenConfig) error {
		if len(sources) == 0 {
			return &xsderrors.ConfigError{Option: "WithSources", Message: "at least one source is required"}
		}
		cfg.sources = sources
		return nil
	}
}

// WithText specifies a single document as the input
func WithText(text string) Option {
	return func(cfg *flattenConfig) error {
		cfg.text = &text
		return nil
	}
}

// WithName sets the name of the produced schema (default "Connector")
func WithName(name string) Option {
	return func(cfg *flattenConfig) error {
		if name == "" {
			return &xsderrors.ConfigError{Option: "WithName", Value: name, Message: "name must not be empty"}
		}
		cfg.name = name
		return nil
	}
}

// WithVersion sets the version of the produced schema (default "1.0.0")
func WithVersion(version string) Option {
	return func(cfg *flattenConfig) error {
		if version == "" {
			return &xsderrors.ConfigError{Option: "WithVersion", Value: version, Message: "version must not be empty"}
		}
		cfg.version = version
		return nil
	}
}

// WithScope selects which global elements become entities (default ScopeRootsOnly)
func WithScope(scope Scope) Option {
	return func(cfg *flattenConfig) error {
		if _, ok := scopeNames[scope]; !ok {
			return &xsderrors.ConfigError{Option: "WithScope", Value: int(scope), Message: "unknown scope"}
		}
		cfg.scope = scope
		return nil
	}
}

// WithScopeName is WithScope taking "roots-only", "all" or "union"
func WithScopeName(name string) Option {
	return func(cfg *flattenConfig) error {
		scope, err := ParseScope(name)
		if err != nil {
			return &xsderrors.ConfigError{Option: "WithScopeName", Value: name, Message: "unknown scope", Cause: err}
		}
		cfg.scope = scope
		return nil
	}
}

// WithMaxDepth bounds the number of nested elements and type indirections
// followed from each entity root (default 64)
func WithMaxDepth(depth int) Option {
	return func(cfg *flattenConfig) error {
		if depth <= 0 {
			return &xsderrors.ConfigError{Option: "WithMaxDepth", Value: depth, Message: "depth must be positive"}
		}
		cfg.maxDepth = depth
		return nil
	}
}

// WithResolveSimpleTypes maps a named simple type restricting a primitive
// to that primitive's attribute type instead of String
func WithResolveSimpleTypes(enabled bool) Option {
	return func(cfg *flattenConfig) error {
		cfg.resolveSimpleTypes = enabled
		return nil
	}
}

// WithLogger sets a structured logger for debug output and degradations.
// By default no logging is performed.
func WithLogger(l document.Logger) Option {
	return func(cfg *flattenConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithConcurrency bounds how many sets ConvertBatch converts at once
// (default 4). Other entry points ignore it.
func WithConcurrency(n int) Option {
	return func(cfg *flattenConfig) error {
		if n <= 0 {
			return &xsderrors.ConfigError{Option: "WithConcurrency", Value: n, Message: "concurrency must be positive"}
		}
		cfg.concurrency = n
		return nil
	}
}
