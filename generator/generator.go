package generator

import (
	"fmt"
	"go/token"

	"golang.org/x/tools/imports"

	"github.com/erraggy/xsdflat/schema"
	"github.com/erraggy/xsdflat/xsderrors"
)

// DefaultPackageName is the package clause used when WithPackageName is not given.
const DefaultPackageName = "model"

// Option is a function that configures code generation
type Option func(*generateConfig) error

// generateConfig holds configuration for code generation
type generateConfig struct {
	packageName string
	fileName    string
}

func applyOptions(opts ...Option) (*generateConfig, error) {
	cfg := &generateConfig{
		packageName: DefaultPackageName,
		fileName:    "model.go",
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

// WithPackageName sets the package clause of the generated file (default "model")
func WithPackageName(name string) Option {
	return func(cfg *generateConfig) error {
		if !token.IsIdentifier(name) || name == "_" {
			return &xsderrors.ConfigError{Option: "WithPackageName", Value: name, Message: "not a valid Go package name"}
		}
		cfg.packageName = name
		return nil
	}
}

// WithFileName sets the file name used when resolving imports (default "model.go")
func WithFileName(name string) Option {
	return func(cfg *generateConfig) error {
		if name == "" {
			return &xsderrors.ConfigError{Option: "WithFileName", Value: name, Message: "file name must not be empty"}
		}
		cfg.fileName = name
		return nil
	}
}

// Generate renders one Go struct per entity of s. Fields follow attribute
// order; multi-valued attributes become slices and the key field carries a
// "// key" comment. JSON tags use the original attribute names.
func Generate(s *schema.Schema, opts ...Option) ([]byte, error) {
	if s == nil {
		return nil, &xsderrors.ConfigError{Option: "schema", Message: "generator: schema is nil"}
	}
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: invalid options: %w", err)
	}

	data := buildFileData(s, cfg.packageName)

	buf := getBuffer()
	defer putBuffer(buf)
	if err := templates.ExecuteTemplate(buf, modelTemplate, data); err != nil {
		return nil, fmt.Errorf("generator: rendering %s: %w", modelTemplate, err)
	}

	// Adds the "time" import when a Datetime attribute is present.
	formatted, err := imports.Process(cfg.fileName, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("generator: formatting generated source: %w", err)
	}
	return formatted, nil
}

func buildFileData(s *schema.Schema, packageName string) fileData {
	data := fileData{
		PackageName:   packageName,
		SchemaName:    s.Name,
		SchemaVersion: s.Version,
		Types:         make([]typeData, 0, len(s.Entities)),
	}

	typeNames := nameSet{}
	for _, e := range s.Entities {
		td := typeData{
			Name:   typeNames.unique(toTypeName(e.Name)),
			Entity: e.Name,
			Fields: make([]fieldData, 0, len(e.Attributes)),
		}

		fieldNames := nameSet{}
		for _, attr := range e.Attributes {
			fd := fieldData{
				Name:      fieldNames.unique(toTypeName(attr.Name)),
				GoType:    goType(attr),
				JSONName:  attr.Name,
				OmitEmpty: !attr.IsKey,
				Key:       attr.IsKey,
			}
			if fd.Key && td.Key == "" {
				td.Key = fd.Name
			}
			td.Fields = append(td.Fields, fd)
		}
		data.Types = append(data.Types, td)
	}
	return data
}
