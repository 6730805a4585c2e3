package flatten

import (
	"fmt"

	"github.com/erraggy/xsdflat/index"
	"github.com/erraggy/xsdflat/internal/issues"
	"github.com/erraggy/xsdflat/internal/severity"
	"github.com/erraggy/xsdflat/schema"
)

// collector turns selected global elements into entities.
type collector struct {
	idx    *index.Index
	walker *walker
	scope  Scope
	issues []issues.Issue
}

// selection is one chosen QName and every global declaration of it.
type selection struct {
	name  index.QName
	decls []*index.Decl
}

// selectElements applies the scope. The result is in first-selection order
// with each QName at most once.
func (c *collector) selectElements() []selection {
	byName := make(map[index.QName][]*index.Decl)
	var declared []index.QName
	for _, d := range c.idx.Globals() {
		if _, ok := byName[d.Name]; !ok {
			declared = append(declared, d.Name)
		}
		byName[d.Name] = append(byName[d.Name], d)
	}

	var names []index.QName
	seen := make(map[index.QName]bool)
	add := func(q index.QName) {
		if !seen[q] {
			seen[q] = true
			names = append(names, q)
		}
	}

	if c.scope != ScopeAll {
		for _, ep := range c.idx.EntryPoints() {
			if _, ok := byName[ep.Name]; !ok {
				c.note(severity.SeverityWarning, ep.Document, ep.Message+"/"+ep.Part,
					fmt.Sprintf("entry point %s is not declared by any schema, skipped", ep.Name), ep.Name.String())
				continue
			}
			add(ep.Name)
		}
	}

	switch c.scope {
	case ScopeRootsOnly:
		if len(names) == 0 {
			if len(declared) > 0 {
				c.note(severity.SeverityInfo, "", "", "no entry points resolved, using every global element", "")
			}
			for _, q := range declared {
				add(q)
			}
		}
	case ScopeAll, ScopeUnion:
		for _, q := range declared {
			add(q)
		}
	}

	out := make([]selection, 0, len(names))
	for _, q := range names {
		out = append(out, selection{name: q, decls: byName[q]})
	}
	return out
}

// collect walks every selected element and returns the merged entities in
// first-selection order.
func (c *collector) collect() ([]schema.Entity, error) {
	var entities []schema.Entity
	byLocal := make(map[string]int)
	owner := make(map[string]index.QName)

	for _, sel := range c.selectElements() {
		var merged *schema.Entity
		for _, decl := range sel.decls {
			entity, err := c.entity(decl)
			if err != nil {
				return nil, err
			}
			if merged == nil {
				merged = &entity
				continue
			}
			merged.Merge(entity)
		}

		local := sel.name.Local
		if i, ok := byLocal[local]; ok {
			c.note(severity.SeverityWarning, sel.decls[0].Document, sel.name.String(),
				fmt.Sprintf("entity %s collides with %s, merged", sel.name, owner[local]), local)
			entities[i].Merge(*merged)
			continue
		}
		byLocal[local] = len(entities)
		owner[local] = sel.name
		entities = append(entities, *merged)
	}
	return entities, nil
}

// entity flattens one global declaration.
func (c *collector) entity(decl *index.Decl) (schema.Entity, error) {
	f := frame{tns: decl.TargetNamespace, doc: decl.Document}
	attrs, err := c.walker.walkElement(decl.Node, occurs{}, f)
	if err != nil {
		return schema.Entity{}, err
	}

	e := schema.Entity{Name: decl.Name.Local}
	for _, attr := range attrs {
		e.Add(attr)
	}
	inferKey(&e, c.idx.Keys(decl.Name))
	return e, nil
}

func (c *collector) note(sev severity.Severity, doc, path, message, context string) {
	c.issues = append(c.issues, issues.Issue{
		Path:     path,
		Message:  message,
		Severity: sev,
		Document: doc,
		Context:  context,
	})
}
