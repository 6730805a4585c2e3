// Package xsdflat converts XML Schema (XSD) and WSDL documents into a flat
// entity/attribute schema suitable for tabular connectors.
//
// A document set is parsed as a whole: every schema (including schemas
// embedded in WSDL wsdl:types sections) contributes to one symbol table,
// WSDL message parts nominate entry-point elements, and each selected
// top-level element becomes an entity whose attributes are the leaf fields
// reachable through its nested content. Nested structure is flattened away;
// a repeating element marks every field beneath it multi-valued.
//
// # Overview
//
// The library consists of these packages:
//
//   - document: Parse sources into classified XML trees
//   - index: Build the per-conversion symbol tables and key constraints
//   - flatten: Walk the selected elements and produce the flat schema
//   - schema: The output model (Schema, Entity, Attribute, AttributeType)
//   - generator: Render a flat schema as Go struct definitions
//   - xsderrors: Terminal error types (malformed input, recursion limit, config)
//
// # Installation
//
//	go get github.com/erraggy/xsdflat
//
// # Quick Start
//
// Convert a schema held in memory:
//
//	import "github.com/erraggy/xsdflat/flatten"
//
//	result, err := flatten.ConvertText(xsdText, flatten.WithName("Orders"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, e := range result.Schema.Entities {
//		fmt.Printf("%s: %d attributes\n", e.Name, len(e.Attributes))
//	}
//
// Convert a WSDL and the schemas it imports as one set:
//
//	sources := []document.Source{
//		{Name: "orders.wsdl", Text: wsdlText},
//		{Name: "types.xsd", Text: typesText},
//	}
//	result, err := flatten.Convert(sources, flatten.WithScope(flatten.ScopeUnion))
//
// Generate Go types from the result:
//
//	src, err := generator.Generate(result.Schema, generator.WithPackageName("orders"))
//
// # Attribute Types
//
// Built-in XSD types map onto four primitives: Bool, Int, Datetime and
// String. Numeric types of any width (including decimal and double) map to
// Int. Anything unresolved falls back to String and is reported as a
// warning issue rather than an error.
//
// # Error Handling
//
// A conversion returns either a complete schema or one terminal error:
//
//   - Malformed XML: xsderrors.ErrMalformedDocument
//   - Nesting or reference indirection beyond the depth bound:
//     xsderrors.ErrRecursionLimitExceeded
//   - Invalid options or no input: xsderrors.ErrConfig
//
// Unresolved references, unknown types and ignored constraints are collected
// in Result.Issues with Info or Warning severity.
//
// # Concurrency
//
// Each conversion owns its symbol table and walker, so concurrent calls to
// flatten.Convert are independent. flatten.ConvertBatch converts several
// document sets in parallel and returns the results in input order.
//
// # Command-Line Interface
//
//	# Flatten a WSDL and its schemas into JSON
//	xsdflat flatten -format json service.wsdl types.xsd
//
//	# Generate Go structs
//	xsdflat generate -package orders -o orders.go orders.xsd
//
//	# Serve the flatten and generate tools over MCP stdio
//	xsdflat mcp
//
// Install the CLI:
//
//	go install github.com/erraggy/xsdflat/cmd/xsdflat@latest
package xsdflat
