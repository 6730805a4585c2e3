package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/xsdflat/schema"
)

type flattenInput struct {
	Documents          []documentInput `json:"documents"                      jsonschema:"The documents to convert as one set; order matters for merging"`
	Name               string          `json:"name,omitempty"                 jsonschema:"Output schema name (default from XSDFLAT_SCHEMA_NAME or Connector)"`
	Version            string          `json:"version,omitempty"              jsonschema:"Output schema version (default from XSDFLAT_SCHEMA_VERSION or 1.0.0)"`
	Scope              string          `json:"scope,omitempty"                jsonschema:"Entity selection: roots-only, all or union (default from XSDFLAT_SCOPE or roots-only)"`
	MaxDepth           int             `json:"max_depth,omitempty"            jsonschema:"Nesting and indirection bound per entity (default from XSDFLAT_MAX_DEPTH or 64)"`
	ResolveSimpleTypes bool            `json:"resolve_simple_types,omitempty" jsonschema:"Map simple types restricting a primitive to that primitive's type instead of String"`
	IssuesOnly         bool            `json:"issues_only,omitempty"          jsonschema:"Return counts and issues without the schema"`
	Offset             int             `json:"offset,omitempty"               jsonschema:"Skip the first N issues"`
	Limit              int             `json:"limit,omitempty"                jsonschema:"Maximum issues to return (default from XSDFLAT_ISSUE_LIMIT or 100)"`
}

func (in flattenInput) conversion() conversionInput {
	return conversionInput{
		Documents:          in.Documents,
		Name:               in.Name,
		Version:            in.Version,
		Scope:              in.Scope,
		MaxDepth:           in.MaxDepth,
		ResolveSimpleTypes: in.ResolveSimpleTypes,
	}
}

type issueOutput struct {
	Severity string `json:"severity"`
	Document string `json:"document,omitempty"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
	Context  string `json:"context,omitempty"`
}

type attributeOutput struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	MultiValue bool   `json:"multi_value,omitempty"`
	IsKey      bool   `json:"is_key,omitempty"`
}

type entityOutput struct {
	Name       string            `json:"name"`
	Attributes []attributeOutput `json:"attributes"`
}

type schemaOutput struct {
	Name     string         `json:"name"`
	Version  string         `json:"version"`
	Entities []entityOutput `json:"entities"`
}

type flattenOutput struct {
	Schema          *schemaOutput `json:"schema,omitempty"`
	EntityCount     int           `json:"entity_count"`
	AttributeCount  int           `json:"attribute_count"`
	DocumentCount   int           `json:"document_count"`
	SchemaCount     int           `json:"schema_count"`
	ServiceCount    int           `json:"service_count"`
	EntryPointCount int           `json:"entry_point_count"`
	InfoCount       int           `json:"info_count"`
	WarningCount    int           `json:"warning_count"`
	IssueCount      int           `json:"issue_count"`
	Issues          []issueOutput `json:"issues,omitempty"`
}

func handleFlatten(_ context.Context, _ *mcp.CallToolRequest, input flattenInput) (*mcp.CallToolResult, flattenOutput, error) {
	result, err := input.conversion().convert()
	if err != nil {
		return errResult(err), flattenOutput{}, nil
	}

	output := flattenOutput{
		EntityCount:     len(result.Schema.Entities),
		AttributeCount:  result.Schema.AttributeCount(),
		DocumentCount:   result.DocumentCount,
		SchemaCount:     result.SchemaCount,
		ServiceCount:    result.ServiceCount,
		EntryPointCount: result.EntryPointCount,
		InfoCount:       result.InfoCount,
		WarningCount:    result.WarningCount,
		IssueCount:      len(result.Issues),
	}
	if !input.IssuesOnly {
		output.Schema = toSchemaOutput(result.Schema)
	}

	page := paginate(result.Issues, input.Offset, input.Limit)
	output.Issues = makeSlice[issueOutput](len(page))
	for _, issue := range page {
		output.Issues = append(output.Issues, issueOutput{
			Severity: issue.Severity.String(),
			Document: issue.Document,
			Path:     issue.Path,
			Message:  issue.Message,
			Context:  issue.Context,
		})
	}

	return nil, output, nil
}

// toSchemaOutput spells attribute types out by name so the structured
// output matches its inferred JSON schema.
func toSchemaOutput(s *schema.Schema) *schemaOutput {
	out := &schemaOutput{
		Name:     s.Name,
		Version:  s.Version,
		Entities: make([]entityOutput, 0, len(s.Entities)),
	}
	for _, e := range s.Entities {
		entity := entityOutput{Name: e.Name, Attributes: make([]attributeOutput, 0, len(e.Attributes))}
		for _, a := range e.Attributes {
			entity.Attributes = append(entity.Attributes, attributeOutput{
				Name:       a.Name,
				Type:       a.Type.String(),
				MultiValue: a.MultiValue,
				IsKey:      a.IsKey,
			})
		}
		out.Entities = append(out.Entities, entity)
	}
	return out
}
