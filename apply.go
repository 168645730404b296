package pomparent

import (
	"fmt"

	"github.com/pomtools/go-pomparent/cleanup"
	"github.com/pomtools/go-pomparent/pomxml"
)

// operation is one deferred edit against a document. Nothing mutates the
// tree while a traversal is still deciding what to do; the scheduled
// operations are replayed afterwards by applyAll.
type operation func(doc *pomxml.Document) error

// operations lowers the plan's edits into deferred operations, preserving
// the plan's emission order with the insertion last.
func (p EditPlan) operations() []operation {
	ops := make([]operation, 0, p.Len())
	for _, edit := range p.Fields {
		ops = append(ops, applyFieldEdit(edit))
	}
	if p.Insert != nil {
		ops = append(ops, applyInsertEdit(*p.Insert))
	}
	return ops
}

func applyFieldEdit(edit FieldEdit) operation {
	return func(doc *pomxml.Document) error {
		parent := doc.Parent()
		if parent == nil {
			return fmt.Errorf("apply %s: document lost its parent reference", edit)
		}
		if !pomxml.SetChildValue(parent, edit.Field.Tag(), edit.NewValue) {
			return fmt.Errorf("apply %s: parent has no <%s> element", edit, edit.Field.Tag())
		}
		return nil
	}
}

func applyInsertEdit(edit InsertEdit) operation {
	return func(doc *pomxml.Document) error {
		parent := doc.Parent()
		if parent == nil {
			return fmt.Errorf("apply %s: document lost its parent reference", edit)
		}
		pomxml.InsertCanonical(parent, pomxml.NewLeaf(edit.Field.Tag(), edit.NewValue))
		return nil
	}
}

// schedule sequences the full deferred pipeline for one matched tag: the
// retain pass and the first redundant-version removal run before the
// primary edits, and a second removal runs after them to strip versions
// the parent change itself made redundant. Both removal passes honor the
// retained set; versions pinned by the retain pass must survive the whole
// pipeline. schedule is only called for a non-empty plan.
func schedule(plan EditPlan, retain cleanup.RetainedSet) []operation {
	ops := []operation{
		operation(cleanup.RetainExplicitVersions(retain)),
		operation(cleanup.RemoveRedundantVersions(retain)),
	}
	ops = append(ops, plan.operations()...)
	ops = append(ops, operation(cleanup.RemoveRedundantVersions(retain)))
	return ops
}

// applyAll is the post-traversal reducer: it replays the scheduled
// operations in order against the document.
func applyAll(doc *pomxml.Document, ops []operation) error {
	for _, op := range ops {
		if err := op(doc); err != nil {
			return err
		}
	}
	return nil
}
