package flatten

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"aqwari.net/xml/xmltree"

	"github.com/erraggy/xsdflat/document"
	"github.com/erraggy/xsdflat/index"
	"github.com/erraggy/xsdflat/internal/issues"
	"github.com/erraggy/xsdflat/internal/severity"
	"github.com/erraggy/xsdflat/schema"
	"github.com/erraggy/xsdflat/xsderrors"
)

// fallbackName names attributes produced by elements without a name.
const fallbackName = "field"

// occurs holds the raw minOccurs/maxOccurs of a particle.
type occurs struct {
	min string
	max string
}

func occursOf(el *xmltree.Element) occurs {
	return occurs{min: el.Attr("", "minOccurs"), max: el.Attr("", "maxOccurs")}
}

// multi reports whether the bounds allow more than one occurrence.
// Numbers too large for a uint64 are still greater than one; anything else
// unparseable counts as single-valued.
func (o occurs) multi() bool {
	upper := strings.TrimSpace(o.max)
	if upper == "unbounded" {
		return true
	}
	n, err := strconv.ParseUint(upper, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return true
	}
	return err == nil && n > 1
}

// frame is the walker state carried down one step. It is passed by value so
// that nothing a child does leaks back into its parent.
type frame struct {
	// tns is the target namespace of the schema declaring the current node.
	tns string
	// doc is the source document of the current node, for issues.
	doc string
	// depth counts indirection steps taken from the entity root.
	depth int
	// multi is set once the element or any ancestor element is multi-valued.
	multi bool
	// path is the element path used in issues and limit errors.
	path string
}

func (f frame) child(name string) frame {
	switch {
	case name == "":
	case f.path == "":
		f.path = name
	default:
		f.path += "/" + name
	}
	return f
}

func (f frame) in(decl *index.Decl) frame {
	f.tns = decl.TargetNamespace
	f.doc = decl.Document
	return f
}

// walker flattens one element declaration into attributes. A walker reads
// from the index but never writes to it; the only state it accumulates is
// the issue list.
type walker struct {
	idx                *index.Index
	maxDepth           int
	resolveSimpleTypes bool
	logger             document.Logger
	issues             []issues.Issue
}

func newWalker(idx *index.Index, maxDepth int, resolveSimpleTypes bool, logger document.Logger) *walker {
	return &walker{
		idx:                idx,
		maxDepth:           maxDepth,
		resolveSimpleTypes: resolveSimpleTypes,
		logger:             document.OrNop(logger),
	}
}

// enter takes one indirection step, failing once the depth bound is passed.
func (w *walker) enter(f frame) (frame, error) {
	f.depth++
	if f.depth > w.maxDepth {
		return f, &xsderrors.ResourceLimitError{
			ResourceType: "element_depth",
			Limit:        w.maxDepth,
			Actual:       f.depth,
			Path:         f.path,
		}
	}
	return f, nil
}

// walkElement flattens an xs:element node. bounds are the occurrence bounds
// in effect at the point of use, which for a ref are the referencing node's.
func (w *walker) walkElement(node *xmltree.Element, bounds occurs, f frame) ([]schema.Attribute, error) {
	f, err := w.enter(f)
	if err != nil {
		return nil, err
	}

	name := node.Attr("", "name")
	ref := node.Attr("", "ref")

	if ref != "" && name == "" {
		qn := index.Name(node.Resolve(ref))
		res := w.lookup(qn, f.tns)
		switch res.Kind {
		case index.KindElement:
			w.logger.Debug("following element ref", "ref", qn.String(), "path", f.path)
			return w.walkElement(res.Decl.Node, bounds, f.in(res.Decl))
		case index.KindType:
			multi := f.multi || bounds.multi()
			return w.walkNamedType(qn.Local, res.Decl, multi, f.child(qn.Local))
		}
		f = f.child(qn.Local)
		w.warn(f, fmt.Sprintf("unresolved element reference %s", qn), ref)
		return []schema.Attribute{w.fallback(qn.Local, f.multi || bounds.multi())}, nil
	}

	multi := f.multi || bounds.multi()
	f = f.child(name)
	f.multi = multi

	var typeName index.QName
	typeAttr := node.Attr("", "type")
	if typeAttr != "" {
		typeName = index.Name(node.Resolve(typeAttr))
		if t, ok := primitiveType(typeName); ok {
			return []schema.Attribute{{Name: nameOr(name), Type: t, MultiValue: multi}}, nil
		}
	}

	if ct := xsdChild(node, "complexType"); ct != nil {
		return w.walkContent(ct, nameOr(name), f)
	}
	if st := xsdChild(node, "simpleType"); st != nil {
		t, err := w.simpleType(st, f)
		if err != nil {
			return nil, err
		}
		return []schema.Attribute{{Name: nameOr(name), Type: t, MultiValue: multi}}, nil
	}

	if typeAttr != "" {
		res := w.lookupType(typeName, f.tns)
		if res.Found() {
			return w.walkNamedType(nameOr(name), res.Decl, multi, f)
		}
		w.warn(f, fmt.Sprintf("unresolved type %s", typeName), typeAttr)
	}

	return []schema.Attribute{w.fallback(name, multi)}, nil
}

// walkNamedType flattens a global type as though it were declared inline on
// an element called name.
func (w *walker) walkNamedType(name string, decl *index.Decl, multi bool, f frame) ([]schema.Attribute, error) {
	f, err := w.enter(f)
	if err != nil {
		return nil, err
	}
	f = f.in(decl)
	f.multi = multi

	if decl.IsSimpleType() {
		t, err := w.simpleType(decl.Node, f)
		if err != nil {
			return nil, err
		}
		return []schema.Attribute{{Name: name, Type: t, MultiValue: multi}}, nil
	}
	w.logger.Debug("expanding named type", "type", decl.Name.String(), "element", name)
	return w.walkContent(decl.Node, name, f)
}

// walkContent flattens the children of a complexType, or of a complexContent
// extension/restriction, which share the same content model. owner is the
// name of the element the content belongs to.
func (w *walker) walkContent(node *xmltree.Element, owner string, f frame) ([]schema.Attribute, error) {
	var out []schema.Attribute
	for i := range node.Children {
		c := &node.Children[i]
		if c.Name.Space != document.XSDNamespace {
			continue
		}

		var attrs []schema.Attribute
		var err error
		switch c.Name.Local {
		case "sequence", "choice", "all":
			attrs, err = w.walkParticles(c, f)
		case "group":
			attrs, err = w.walkGroupRef(c, f)
		case "attribute":
			attrs, err = w.walkAttribute(c, f)
		case "attributeGroup":
			attrs, err = w.walkAttributeGroupRef(c, f)
		case "complexContent":
			attrs, err = w.walkComplexContent(c, owner, f)
		case "simpleContent":
			attrs, err = w.walkSimpleContent(c, owner, f)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, attrs...)
	}
	return out, nil
}

// walkParticles flattens a compositor. Its own bounds are not carried to the
// particles; only element bounds are.
func (w *walker) walkParticles(compositor *xmltree.Element, f frame) ([]schema.Attribute, error) {
	var out []schema.Attribute
	for i := range compositor.Children {
		c := &compositor.Children[i]
		if c.Name.Space != document.XSDNamespace {
			continue
		}

		var attrs []schema.Attribute
		var err error
		switch c.Name.Local {
		case "element":
			attrs, err = w.walkElement(c, occursOf(c), f)
		case "sequence", "choice", "all":
			attrs, err = w.walkParticles(c, f)
		case "group":
			attrs, err = w.walkGroupRef(c, f)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, attrs...)
	}
	return out, nil
}

func (w *walker) walkGroupRef(node *xmltree.Element, f frame) ([]schema.Attribute, error) {
	ref := node.Attr("", "ref")
	if ref == "" {
		return nil, nil
	}
	qn := index.Name(node.Resolve(ref))
	decl, ok := w.idx.LookupGroup(qn)
	if !ok && qn.Space == "" && f.tns != "" {
		decl, ok = w.idx.LookupGroup(index.QName{Space: f.tns, Local: qn.Local})
	}
	if !ok {
		w.warn(f, fmt.Sprintf("unresolved group reference %s", qn), ref)
		return nil, nil
	}

	f, err := w.enter(f)
	if err != nil {
		return nil, err
	}
	f = f.in(decl)

	var out []schema.Attribute
	for i := range decl.Node.Children {
		c := &decl.Node.Children[i]
		if c.Name.Space != document.XSDNamespace {
			continue
		}
		switch c.Name.Local {
		case "sequence", "choice", "all":
			attrs, err := w.walkParticles(c, f)
			if err != nil {
				return nil, err
			}
			out = append(out, attrs...)
		}
	}
	return out, nil
}

// walkAttribute flattens an xs:attribute. Attributes are always
// single-valued, whatever the bounds of the element they sit on.
func (w *walker) walkAttribute(node *xmltree.Element, f frame) ([]schema.Attribute, error) {
	if node.Attr("", "use") == "prohibited" {
		return nil, nil
	}

	decl := node
	name := node.Attr("", "name")
	if ref := node.Attr("", "ref"); ref != "" && name == "" {
		qn := index.Name(node.Resolve(ref))
		name = qn.Local
		global, ok := w.idx.LookupAttribute(qn)
		if !ok && qn.Space == "" && f.tns != "" {
			global, ok = w.idx.LookupAttribute(index.QName{Space: f.tns, Local: qn.Local})
		}
		if !ok {
			// xml:lang and friends are never declared by user schemas.
			if qn.Space != "http://www.w3.org/XML/1998/namespace" {
				w.warn(f.child("@"+name), fmt.Sprintf("unresolved attribute reference %s", qn), ref)
			}
			return []schema.Attribute{w.fallback(name, false)}, nil
		}
		decl = global.Node
		f = f.in(global)
	}
	name = nameOr(name)

	t, err := w.attributeType(decl, f.child("@"+name))
	if err != nil {
		return nil, err
	}
	return []schema.Attribute{{Name: name, Type: t}}, nil
}

func (w *walker) attributeType(decl *xmltree.Element, f frame) (schema.AttributeType, error) {
	if typeAttr := decl.Attr("", "type"); typeAttr != "" {
		qn := index.Name(decl.Resolve(typeAttr))
		return w.typeOf(qn, typeAttr, f)
	}
	if st := xsdChild(decl, "simpleType"); st != nil {
		return w.simpleType(st, f)
	}
	return schema.String, nil
}

func (w *walker) walkAttributeGroupRef(node *xmltree.Element, f frame) ([]schema.Attribute, error) {
	ref := node.Attr("", "ref")
	if ref == "" {
		return nil, nil
	}
	qn := index.Name(node.Resolve(ref))
	decl, ok := w.idx.LookupAttributeGroup(qn)
	if !ok && qn.Space == "" && f.tns != "" {
		decl, ok = w.idx.LookupAttributeGroup(index.QName{Space: f.tns, Local: qn.Local})
	}
	if !ok {
		w.warn(f, fmt.Sprintf("unresolved attribute group reference %s", qn), ref)
		return nil, nil
	}

	f, err := w.enter(f)
	if err != nil {
		return nil, err
	}
	return w.walkContent(decl.Node, "", f.in(decl))
}

// walkComplexContent handles derivation. An extension contributes the base
// type's content followed by its own; a restriction restates the content it
// keeps, so only its own is walked.
func (w *walker) walkComplexContent(node *xmltree.Element, owner string, f frame) ([]schema.Attribute, error) {
	var out []schema.Attribute
	for i := range node.Children {
		c := &node.Children[i]
		if c.Name.Space != document.XSDNamespace {
			continue
		}
		switch c.Name.Local {
		case "extension":
			base, err := w.walkBase(c, owner, f)
			if err != nil {
				return nil, err
			}
			out = append(out, base...)
			fallthrough
		case "restriction":
			own, err := w.walkContent(c, owner, f)
			if err != nil {
				return nil, err
			}
			out = append(out, own...)
		}
	}
	return out, nil
}

func (w *walker) walkBase(ext *xmltree.Element, owner string, f frame) ([]schema.Attribute, error) {
	baseAttr := ext.Attr("", "base")
	if baseAttr == "" {
		return nil, nil
	}
	qn := index.Name(ext.Resolve(baseAttr))
	if _, ok := primitiveType(qn); ok {
		return nil, nil
	}
	res := w.lookupType(qn, f.tns)
	if !res.Found() {
		w.warn(f, fmt.Sprintf("unresolved base type %s", qn), baseAttr)
		return nil, nil
	}
	if res.Decl.IsSimpleType() {
		return nil, nil
	}

	f, err := w.enter(f)
	if err != nil {
		return nil, err
	}
	return w.walkContent(res.Decl.Node, owner, f.in(res.Decl))
}

// walkSimpleContent turns the owning element into a single attribute typed
// from the base, followed by the attributes the derivation declares.
func (w *walker) walkSimpleContent(node *xmltree.Element, owner string, f frame) ([]schema.Attribute, error) {
	var out []schema.Attribute
	for i := range node.Children {
		c := &node.Children[i]
		if c.Name.Space != document.XSDNamespace {
			continue
		}
		if c.Name.Local != "extension" && c.Name.Local != "restriction" {
			continue
		}

		t := schema.String
		if baseAttr := c.Attr("", "base"); baseAttr != "" {
			var err error
			t, err = w.typeOf(index.Name(c.Resolve(baseAttr)), baseAttr, f)
			if err != nil {
				return nil, err
			}
		}
		if owner != "" {
			out = append(out, schema.Attribute{Name: owner, Type: t, MultiValue: f.multi})
		}

		attrs, err := w.walkContent(c, owner, f)
		if err != nil {
			return nil, err
		}
		out = append(out, attrs...)
	}
	return out, nil
}

// typeOf maps a type name used as a leaf (attribute type, simple content
// base) to an attribute type. Complex types cannot be leaves and map to
// String.
func (w *walker) typeOf(qn index.QName, raw string, f frame) (schema.AttributeType, error) {
	if t, ok := primitiveType(qn); ok {
		return t, nil
	}
	res := w.lookupType(qn, f.tns)
	if !res.Found() {
		w.warn(f, fmt.Sprintf("unresolved type %s", qn), raw)
		return schema.String, nil
	}
	if !res.Decl.IsSimpleType() {
		return schema.String, nil
	}

	f, err := w.enter(f)
	if err != nil {
		return schema.String, err
	}
	return w.simpleType(res.Decl.Node, f.in(res.Decl))
}

// simpleType returns String unless simple type resolution is enabled, in
// which case a restriction chain ending in a primitive takes that
// primitive's type. Lists and unions stay String.
func (w *walker) simpleType(st *xmltree.Element, f frame) (schema.AttributeType, error) {
	if !w.resolveSimpleTypes {
		return schema.String, nil
	}
	restriction := xsdChild(st, "restriction")
	if restriction == nil {
		return schema.String, nil
	}
	if baseAttr := restriction.Attr("", "base"); baseAttr != "" {
		return w.typeOf(index.Name(restriction.Resolve(baseAttr)), baseAttr, f)
	}
	if inner := xsdChild(restriction, "simpleType"); inner != nil {
		return w.simpleType(inner, f)
	}
	return schema.String, nil
}

// lookup resolves a reference, retrying an unqualified name in the current
// target namespace.
func (w *walker) lookup(qn index.QName, tns string) index.Resolution {
	res := w.idx.Lookup(qn)
	if !res.Found() && qn.Space == "" && tns != "" {
		res = w.idx.Lookup(index.QName{Space: tns, Local: qn.Local})
	}
	return res
}

func (w *walker) lookupType(qn index.QName, tns string) index.Resolution {
	res := w.idx.LookupType(qn)
	if !res.Found() && qn.Space == "" && tns != "" {
		res = w.idx.LookupType(index.QName{Space: tns, Local: qn.Local})
	}
	return res
}

func (w *walker) fallback(name string, multi bool) schema.Attribute {
	return schema.Attribute{Name: nameOr(name), Type: schema.String, MultiValue: multi}
}

func (w *walker) warn(f frame, message, context string) {
	w.logger.Warn(message, "document", f.doc, "path", f.path)
	w.issues = append(w.issues, issues.Issue{
		Path:     f.path,
		Message:  message,
		Severity: severity.SeverityWarning,
		Document: f.doc,
		Context:  context,
	})
}

func nameOr(name string) string {
	if name == "" {
		return fallbackName
	}
	return name
}

// xsdChild returns the first direct xs:local child of el.
func xsdChild(el *xmltree.Element, local string) *xmltree.Element {
	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Space == document.XSDNamespace && c.Name.Local == local {
			return c
		}
	}
	return nil
}
