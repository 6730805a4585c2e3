package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/xsdflat/generator"
)

type generateInput struct {
	Documents          []documentInput `json:"documents"                      jsonschema:"The documents to convert as one set; order matters for merging"`
	Scope              string          `json:"scope,omitempty"                jsonschema:"Entity selection: roots-only, all or union (default from XSDFLAT_SCOPE or roots-only)"`
	MaxDepth           int             `json:"max_depth,omitempty"            jsonschema:"Nesting and indirection bound per entity (default from XSDFLAT_MAX_DEPTH or 64)"`
	ResolveSimpleTypes bool            `json:"resolve_simple_types,omitempty" jsonschema:"Map simple types restricting a primitive to that primitive's type instead of String"`
	PackageName        string          `json:"package_name,omitempty"         jsonschema:"Go package name for the generated file (default model)"`
	Output             string          `json:"output,omitempty"               jsonschema:"Write the generated file to this path instead of returning it inline"`
}

func (in generateInput) conversion() conversionInput {
	return conversionInput{
		Documents:          in.Documents,
		Scope:              in.Scope,
		MaxDepth:           in.MaxDepth,
		ResolveSimpleTypes: in.ResolveSimpleTypes,
	}
}

type generateOutput struct {
	PackageName  string `json:"package_name"`
	TypeCount    int    `json:"type_count"`
	WarningCount int    `json:"warning_count"`
	Source       string `json:"source,omitempty"`
	WrittenTo    string `json:"written_to,omitempty"`
}

func handleGenerate(_ context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	result, err := input.conversion().convert()
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	pkg := input.PackageName
	if pkg == "" {
		pkg = generator.DefaultPackageName
	}
	src, err := generator.Generate(result.Schema, generator.WithPackageName(pkg))
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	output := generateOutput{
		PackageName:  pkg,
		TypeCount:    len(result.Schema.Entities),
		WarningCount: result.WarningCount,
	}

	if input.Output == "" {
		output.Source = string(src)
		return nil, output, nil
	}

	path := filepath.Clean(input.Output)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errResult(fmt.Errorf("creating output directory: %w", err)), generateOutput{}, nil
	}
	if err := os.WriteFile(path, src, 0o600); err != nil {
		return errResult(fmt.Errorf("writing output: %w", err)), generateOutput{}, nil
	}
	output.WrittenTo = path
	return nil, output, nil
}
