// Package index builds the per-conversion symbol tables for a document set.
//
// An Index holds every top-level named declaration of every schema in the
// set, keyed by qualified name, plus the key/unique constraints and the
// WSDL message parts that act as entry points. It is built once by Build
// and is read-only afterwards; nothing in the walker writes to it. An Index
// is never shared between conversions.
//
// Lookups return a tagged Resolution rather than an error: not finding a
// symbol is an expected outcome that the caller degrades on.
package index

import (
	"encoding/xml"

	"aqwari.net/xml/xmltree"

	"github.com/erraggy/xsdflat/document"
	"github.com/erraggy/xsdflat/internal/issues"
)

// Issue is a note recorded while indexing, such as an ignored constraint.
type Issue = issues.Issue

// QName is a namespace-qualified name.
type QName struct {
	Space string
	Local string
}

// Name converts an encoding/xml name.
func Name(n xml.Name) QName {
	return QName{Space: n.Space, Local: n.Local}
}

// String returns the Clark notation "{space}local", or just local when the
// namespace is empty.
func (q QName) String() string {
	if q.Space == "" {
		return q.Local
	}
	return "{" + q.Space + "}" + q.Local
}

// Decl is a top-level named declaration.
type Decl struct {
	// Name is the qualified name of the declaration.
	Name QName
	// Node is the declaring xs:element, xs:complexType, ... node.
	Node *xmltree.Element
	// TargetNamespace is the target namespace of the owning schema.
	TargetNamespace string
	// Document is the name of the source document.
	Document string
}

// IsSimpleType reports whether the declaration is an xs:simpleType.
func (d *Decl) IsSimpleType() bool {
	return d.Node.Name == xml.Name{Space: document.XSDNamespace, Local: "simpleType"}
}

// IsComplexType reports whether the declaration is an xs:complexType.
func (d *Decl) IsComplexType() bool {
	return d.Node.Name == xml.Name{Space: document.XSDNamespace, Local: "complexType"}
}

// Kind tags a Resolution.
type Kind int

const (
	// KindNotFound means no declaration matched.
	KindNotFound Kind = iota
	// KindElement means a top-level xs:element matched.
	KindElement
	// KindType means a top-level xs:complexType or xs:simpleType matched.
	KindType
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindType:
		return "type"
	default:
		return "not-found"
	}
}

// Resolution is the outcome of a symbol lookup.
type Resolution struct {
	Kind Kind
	Decl *Decl
}

// Found reports whether the lookup matched anything.
func (r Resolution) Found() bool {
	return r.Kind != KindNotFound
}

// EntryPoint is a global element referenced by a WSDL message part.
type EntryPoint struct {
	Name QName
	// Document is the service description that referenced it.
	Document string
	// Message and Part name the referencing declaration.
	Message string
	Part    string
}

// Index is the symbol table for one document set.
type Index struct {
	elements        map[QName]*Decl
	types           map[QName]*Decl
	groups          map[QName]*Decl
	attributeGroups map[QName]*Decl
	attributes      map[QName]*Decl
	keys            map[QName][]string

	globals     []*Decl
	entryPoints []EntryPoint
	issues      []Issue

	schemaCount  int
	serviceCount int
	ignoredCount int
}

func newIndex() *Index {
	return &Index{
		elements:        make(map[QName]*Decl),
		types:           make(map[QName]*Decl),
		groups:          make(map[QName]*Decl),
		attributeGroups: make(map[QName]*Decl),
		attributes:      make(map[QName]*Decl),
		keys:            make(map[QName][]string),
	}
}

// Lookup resolves name against the element table first and then the type
// table, since a reference does not always say which kind it targets.
func (idx *Index) Lookup(name QName) Resolution {
	if d, ok := idx.elements[name]; ok {
		return Resolution{Kind: KindElement, Decl: d}
	}
	return idx.LookupType(name)
}

// LookupType resolves name against the type table only.
func (idx *Index) LookupType(name QName) Resolution {
	if d, ok := idx.types[name]; ok {
		return Resolution{Kind: KindType, Decl: d}
	}
	return Resolution{}
}

// LookupGroup returns the top-level xs:group named name.
func (idx *Index) LookupGroup(name QName) (*Decl, bool) {
	d, ok := idx.groups[name]
	return d, ok
}

// LookupAttributeGroup returns the top-level xs:attributeGroup named name.
func (idx *Index) LookupAttributeGroup(name QName) (*Decl, bool) {
	d, ok := idx.attributeGroups[name]
	return d, ok
}

// LookupAttribute returns the top-level xs:attribute named name.
func (idx *Index) LookupAttribute(name QName) (*Decl, bool) {
	d, ok := idx.attributes[name]
	return d, ok
}

// Keys returns the constrained field names declared for the element, in
// declaration order.
func (idx *Index) Keys(element QName) []string {
	return idx.keys[element]
}

// Globals returns every top-level xs:element in document order. Unlike the
// lookup table, it keeps later declarations of an already-seen name so that
// partial definitions spread across documents can be merged.
func (idx *Index) Globals() []*Decl {
	return idx.globals
}

// GlobalsNamed returns every top-level declaration of name, in document order.
func (idx *Index) GlobalsNamed(name QName) []*Decl {
	var out []*Decl
	for _, d := range idx.globals {
		if d.Name == name {
			out = append(out, d)
		}
	}
	return out
}

// EntryPoints returns the elements referenced by WSDL message parts, in
// document order without duplicates.
func (idx *Index) EntryPoints() []EntryPoint {
	return idx.entryPoints
}

// Issues returns the notes recorded while building the index.
func (idx *Index) Issues() []Issue {
	return idx.issues
}

// SchemaCount returns the number of xs:schema roots indexed, including
// schemas embedded in service descriptions.
func (idx *Index) SchemaCount() int { return idx.schemaCount }

// ServiceCount returns the number of service-description documents scanned.
func (idx *Index) ServiceCount() int { return idx.serviceCount }

// IgnoredCount returns the number of documents that were neither schemas
// nor service descriptions.
func (idx *Index) IgnoredCount() int { return idx.ignoredCount }
