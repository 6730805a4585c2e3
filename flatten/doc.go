// Package flatten resolves XSD and WSDL documents into a flat entity schema.
//
// A conversion parses every document of a set, indexes the top-level
// declarations of every schema (including schemas embedded in WSDL types
// sections) and then walks each selected global element into an entity.
// Nested element content, named types, element references, groups and
// attribute groups are all inlined into a single ordered attribute list per
// entity. Attributes are named by local name only and deduplicated case
// insensitively, first occurrence winning.
//
// # Quick Start
//
//	result, err := flatten.Convert([]document.Source{
//		{Name: "orders.xsd", Text: xsd},
//		{Name: "orders.wsdl", Text: wsdl},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, e := range result.Schema.Entities {
//		fmt.Println(e.Name, len(e.Attributes))
//	}
//
// Or with functional options:
//
//	result, err := flatten.ConvertWithOptions(
//		flatten.WithText(xsd),
//		flatten.WithScope(flatten.ScopeAll),
//		flatten.WithName("Orders"),
//	)
//
// # Scope
//
// ScopeRootsOnly (the default) converts the elements referenced by WSDL
// message parts and falls back to every global element when there are
// none. ScopeAll converts every global element. ScopeUnion converts the
// entry points first and then every other global element. Declarations of
// the same qualified name in different documents are merged into one
// entity.
//
// # Types and Keys
//
// XSD primitives map to Bool, Int or Datetime; everything else, including
// named simple types, is String. WithResolveSimpleTypes follows simple type
// restrictions down to their primitive instead. An attribute produced from
// an element is multi-valued when that element or an enclosing element
// allows more than one occurrence. Compositor bounds are not inherited, and
// xs:attribute declarations are always single-valued.
//
// The key of an entity comes from a single-field xs:key or xs:unique
// declared on the element. Without one, the first attribute named "id" or
// ending in "_id", "Id" or "ID" is the key.
//
// # Errors and Issues
//
// A conversion fails only on a malformed document, on exceeding the depth
// bound (WithMaxDepth, default 64) or on invalid options; see package
// xsderrors. Unresolved references, ignored constraints and similar
// degradations produce String attributes and are listed in Result.Issues.
//
// Each call builds its own index, so concurrent conversions are safe.
// ConvertBatch converts several independent sets concurrently.
package flatten
