package index

import (
	"fmt"
	"strings"

	"aqwari.net/xml/xmltree"

	"github.com/erraggy/xsdflat/document"
	"github.com/erraggy/xsdflat/internal/naming"
	"github.com/erraggy/xsdflat/internal/severity"
)

// Build indexes docs. Documents of KindIgnored are skipped with an info
// issue; building never fails.
func Build(docs []*document.Document, logger document.Logger) *Index {
	logger = document.OrNop(logger)
	idx := newIndex()

	for _, doc := range docs {
		switch doc.Kind {
		case document.KindIgnored:
			idx.ignoredCount++
			idx.note(doc.Name, "", fmt.Sprintf("root element %s is neither xs:schema nor wsdl:definitions, document ignored", Name(doc.Root.Name)))
			logger.Debug("document ignored", "document", doc.Name, "root", Name(doc.Root.Name).String())
			continue
		case document.KindServiceDescription:
			idx.serviceCount++
		}

		for _, root := range doc.Schemas() {
			idx.addSchema(doc.Name, root, logger)
		}
		if doc.Kind == document.KindServiceDescription {
			idx.addEntryPoints(doc, logger)
		}
	}

	logger.Debug("index built",
		"elements", len(idx.elements),
		"types", len(idx.types),
		"keys", len(idx.keys),
		"entryPoints", len(idx.entryPoints))
	return idx
}

func (idx *Index) addSchema(docName string, root *xmltree.Element, logger document.Logger) {
	idx.schemaCount++
	tns := root.Attr("", "targetNamespace")

	for i := range root.Children {
		el := &root.Children[i]
		if el.Name.Space != document.XSDNamespace {
			continue
		}
		local := el.Attr("", "name")
		if local == "" {
			continue
		}
		decl := &Decl{
			Name:            QName{Space: tns, Local: local},
			Node:            el,
			TargetNamespace: tns,
			Document:        docName,
		}

		switch el.Name.Local {
		case "element":
			idx.globals = append(idx.globals, decl)
			addFirst(idx.elements, decl)
		case "complexType", "simpleType":
			addFirst(idx.types, decl)
		case "group":
			addFirst(idx.groups, decl)
		case "attributeGroup":
			addFirst(idx.attributeGroups, decl)
		case "attribute":
			addFirst(idx.attributes, decl)
		}
	}

	idx.scanConstraints(docName, tns, root, "")
	logger.Debug("schema indexed", "document", docName, "targetNamespace", tns)
}

// addFirst keeps the first declaration of a name; later ones are only
// reachable through Globals.
func addFirst(table map[QName]*Decl, decl *Decl) {
	if _, ok := table[decl.Name]; !ok {
		table[decl.Name] = decl
	}
}

// scanConstraints walks the schema tree tracking the nearest enclosing
// named xs:element and records xs:key and xs:unique constraints against it.
func (idx *Index) scanConstraints(docName, tns string, el *xmltree.Element, enclosing string) {
	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Space != document.XSDNamespace {
			continue
		}
		switch c.Name.Local {
		case "element":
			name := enclosing
			if n := c.Attr("", "name"); n != "" {
				name = n
			}
			idx.scanConstraints(docName, tns, c, name)
		case "key", "unique":
			idx.addConstraint(docName, tns, c, enclosing)
		default:
			idx.scanConstraints(docName, tns, c, enclosing)
		}
	}
}

// addConstraint honors only a single selector and a single field whose
// paths have no step separators or alternatives. Anything else is ignored.
func (idx *Index) addConstraint(docName, tns string, c *xmltree.Element, enclosing string) {
	path := QName{Space: tns, Local: enclosing}.String() + "/" + c.Name.Local
	if n := c.Attr("", "name"); n != "" {
		path += "[" + n + "]"
	}
	if enclosing == "" {
		idx.note(docName, path, "constraint outside any named element ignored")
		return
	}

	selectors := childrenNamed(c, "selector")
	fields := childrenNamed(c, "field")
	if len(selectors) != 1 || len(fields) != 1 {
		idx.note(docName, path, "constraint with multiple selectors or fields ignored")
		return
	}
	selector := selectors[0].Attr("", "xpath")
	field := fields[0].Attr("", "xpath")
	if !singleStep(selector) || !singleStep(field) {
		idx.note(docName, path, fmt.Sprintf("constraint path %q/%q is not a single step, ignored", selector, field))
		return
	}

	owner := QName{Space: tns, Local: enclosing}
	name := naming.LocalName(strings.TrimSpace(field))
	for _, existing := range idx.keys[owner] {
		if existing == name {
			return
		}
	}
	idx.keys[owner] = append(idx.keys[owner], name)
}

func singleStep(xpath string) bool {
	xpath = strings.TrimSpace(xpath)
	return xpath != "" && !strings.ContainsAny(xpath, "/|")
}

func (idx *Index) addEntryPoints(doc *document.Document, logger document.Logger) {
	seen := make(map[QName]bool, len(idx.entryPoints))
	for _, ep := range idx.entryPoints {
		seen[ep.Name] = true
	}

	for _, msg := range wsdlChildren(doc.Root, "message") {
		for _, part := range wsdlChildren(msg, "part") {
			ref := part.Attr("", "element")
			if ref == "" {
				continue
			}
			name := Name(part.Resolve(ref))
			if seen[name] {
				continue
			}
			seen[name] = true
			idx.entryPoints = append(idx.entryPoints, EntryPoint{
				Name:     name,
				Document: doc.Name,
				Message:  msg.Attr("", "name"),
				Part:     part.Attr("", "name"),
			})
			logger.Debug("entry point", "document", doc.Name, "element", name.String())
		}
	}
}

func (idx *Index) note(docName, path, message string) {
	idx.issues = append(idx.issues, Issue{
		Path:     path,
		Message:  message,
		Severity: severity.SeverityInfo,
		Document: docName,
	})
}

func childrenNamed(el *xmltree.Element, local string) []*xmltree.Element {
	return directChildren(el, document.XSDNamespace, local)
}

func wsdlChildren(el *xmltree.Element, local string) []*xmltree.Element {
	return directChildren(el, document.WSDLNamespace, local)
}

func directChildren(el *xmltree.Element, space, local string) []*xmltree.Element {
	var out []*xmltree.Element
	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Space == space && c.Name.Local == local {
			out = append(out, c)
		}
	}
	return out
}
