// Package document parses raw XSD and WSDL text into namespace-aware trees
// and classifies each document.
//
// Parsing is all-or-nothing: a single malformed source aborts the whole
// set with an *xsderrors.ParseError. Documents whose root is neither an
// xs:schema nor a wsdl:definitions are kept but classified KindIgnored, so
// downstream indexing skips them without failing.
//
// Trees are built with aqwari.net/xml/xmltree. Every node carries the
// namespace bindings in scope at that node, which is what qualified-name
// resolution (ref="tns:Order", type="xs:int") relies on.
package document

import (
	"encoding/xml"
	"errors"
	"strings"

	"aqwari.net/xml/xmltree"

	"github.com/erraggy/xsdflat/xsderrors"
)

// Well-known namespaces.
const (
	// XSDNamespace is the XML Schema 1.0 namespace.
	XSDNamespace = "http://www.w3.org/2001/XMLSchema"
	// WSDLNamespace is the WSDL 1.1 namespace.
	WSDLNamespace = "http://schemas.xmlsoap.org/wsdl/"
)

// Kind classifies a parsed document.
type Kind int

const (
	// KindIgnored is any document that is neither a schema nor a service description.
	KindIgnored Kind = iota
	// KindSchema is a document whose root is xs:schema.
	KindSchema
	// KindServiceDescription is a document whose root is wsdl:definitions.
	KindServiceDescription
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindServiceDescription:
		return "service-description"
	default:
		return "ignored"
	}
}

// Source is one raw input document.
type Source struct {
	// Name identifies the document in errors and issues, e.g. a file name.
	Name string `json:"name"`
	// Text is the raw XML text.
	Text string `json:"text"`
}

// Document is a parsed and classified source.
type Document struct {
	// Name is the Source name.
	Name string
	// Kind is the classification of the root element.
	Kind Kind
	// Root is the parsed root element.
	Root *xmltree.Element
	// Namespace is the namespace URI of the root element.
	Namespace string
	// TargetNamespace is the root's targetNamespace attribute, "" when absent.
	TargetNamespace string
	// Bindings maps prefixes declared on the root to namespace URIs.
	// The default namespace is stored under "".
	Bindings map[string]string
}

// Parse parses a single source.
func Parse(src Source) (*Document, error) {
	if strings.TrimSpace(src.Text) == "" {
		return nil, &xsderrors.ParseError{Document: src.Name, Message: "document is empty"}
	}

	root, err := xmltree.Parse([]byte(src.Text))
	if err != nil {
		parseErr := &xsderrors.ParseError{Document: src.Name, Message: err.Error(), Cause: err}
		var syntaxErr *xml.SyntaxError
		if errors.As(err, &syntaxErr) {
			parseErr.Line = syntaxErr.Line
		}
		return nil, parseErr
	}

	doc := &Document{
		Name:            src.Name,
		Root:            root,
		Namespace:       root.Name.Space,
		TargetNamespace: root.Attr("", "targetNamespace"),
		Bindings:        bindings(root),
	}
	doc.Kind = classify(root.Name)
	return doc, nil
}

// ParseAll parses every source in order. The first malformed source aborts
// the set and no documents are returned.
func ParseAll(sources []Source) ([]*Document, error) {
	docs := make([]*Document, 0, len(sources))
	for _, src := range sources {
		doc, err := Parse(src)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Schemas returns the xs:schema elements this document contributes to the
// symbol index: the root of a schema document, or every schema embedded in
// the types section of a service description.
func (d *Document) Schemas() []*xmltree.Element {
	switch d.Kind {
	case KindSchema:
		return []*xmltree.Element{d.Root}
	case KindServiceDescription:
		var out []*xmltree.Element
		for _, types := range children(d.Root, WSDLNamespace, "types") {
			out = append(out, children(types, XSDNamespace, "schema")...)
		}
		return out
	default:
		return nil
	}
}

func classify(name xml.Name) Kind {
	switch name {
	case xml.Name{Space: XSDNamespace, Local: "schema"}:
		return KindSchema
	case xml.Name{Space: WSDLNamespace, Local: "definitions"}:
		return KindServiceDescription
	default:
		return KindIgnored
	}
}

// bindings reads xmlns and xmlns:prefix attributes off el. encoding/xml
// leaves the "xmlns" prefix untranslated, so prefixed declarations arrive
// as {Space: "xmlns", Local: prefix} and the default as {Local: "xmlns"}.
func bindings(el *xmltree.Element) map[string]string {
	out := make(map[string]string)
	for _, attr := range el.StartElement.Attr {
		switch {
		case attr.Name.Space == "xmlns":
			out[attr.Name.Local] = attr.Value
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			out[""] = attr.Value
		}
	}
	return out
}

// children returns the direct children of el named {space}local.
func children(el *xmltree.Element, space, local string) []*xmltree.Element {
	var out []*xmltree.Element
	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Space == space && c.Name.Local == local {
			out = append(out, c)
		}
	}
	return out
}
