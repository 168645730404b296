package pomparent

import "fmt"

// ParentReference is the parent declaration read from a document at match
// time. It is an immutable snapshot; later edits to the document do not
// change it.
type ParentReference struct {
	// GroupID is the parent's group identifier.
	GroupID string

	// ArtifactID is the parent's artifact identifier.
	ArtifactID string

	// Version is the parent's declared version.
	Version string

	// RelativePath is the declared relative path to the parent pom.
	// Only meaningful when HasRelativePath is true; an empty value with
	// HasRelativePath set represents an explicitly empty element.
	RelativePath string

	// HasRelativePath distinguishes an absent <relativePath> from an
	// empty one.
	HasRelativePath bool
}

// TargetIdentity is the fully-resolved identity the parent reference is
// being moved to. Defaults from the current reference are applied once,
// when the target is built, never re-derived at use sites.
type TargetIdentity struct {
	GroupID         string
	ArtifactID      string
	RelativePath    string
	HasRelativePath bool
}

// Field names the parent reference field an edit applies to.
type Field int

const (
	FieldGroupID Field = iota
	FieldArtifactID
	FieldVersion
	FieldRelativePath
)

var fieldTags = map[Field]string{
	FieldGroupID:      "groupId",
	FieldArtifactID:   "artifactId",
	FieldVersion:      "version",
	FieldRelativePath: "relativePath",
}

// Tag returns the element name of the field.
func (f Field) Tag() string { return fieldTags[f] }

func (f Field) String() string { return f.Tag() }

// FieldEdit replaces the value of an existing parent reference field.
type FieldEdit struct {
	Field    Field
	NewValue string
}

func (e FieldEdit) String() string {
	return fmt.Sprintf("set %s=%q", e.Field, e.NewValue)
}

// InsertEdit adds a parent reference field that does not exist yet. The
// insertion position among siblings is computed from the schema-canonical
// child ordering when the edit is applied, not simply appended.
type InsertEdit struct {
	Field    Field
	NewValue string
}

func (e InsertEdit) String() string {
	return fmt.Sprintf("insert %s=%q", e.Field, e.NewValue)
}

// EditPlan is the ordered edit sequence for one matched parent tag. Field
// edits come first, in emission order (group, artifact, version,
// relative-path); the insertion, when present, is always last.
type EditPlan struct {
	Fields []FieldEdit
	Insert *InsertEdit
}

// Empty reports whether the plan contains no edits. An empty plan
// short-circuits all orchestration, which is what makes a re-run against an
// already-upgraded document a no-op.
func (p EditPlan) Empty() bool {
	return len(p.Fields) == 0 && p.Insert == nil
}

// Len returns the total number of edits in the plan.
func (p EditPlan) Len() int {
	n := len(p.Fields)
	if p.Insert != nil {
		n++
	}
	return n
}

// Describe renders the plan's edits in application order.
func (p EditPlan) Describe() []string {
	if p.Empty() {
		return nil
	}
	out := make([]string, 0, p.Len())
	for _, e := range p.Fields {
		out = append(out, e.String())
	}
	if p.Insert != nil {
		out = append(out, p.Insert.String())
	}
	return out
}

// Outcome classifies how an upgrade run ended for one document.
type Outcome int

const (
	// OutcomeUnmatched means the document has no parent reference, or its
	// parent did not satisfy the old-identity patterns. No network access
	// happened.
	OutcomeUnmatched Outcome = iota

	// OutcomeNoChange means the parent matched but resolution found no
	// eligible version, or every field already has its target value.
	OutcomeNoChange

	// OutcomeWarned means metadata could not be fetched; the document was
	// annotated with a warning and left otherwise unmodified.
	OutcomeWarned

	// OutcomeApplied means the edit plan and its cleanup passes were
	// applied to the document.
	OutcomeApplied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnmatched:
		return "unmatched"
	case OutcomeNoChange:
		return "no-change"
	case OutcomeWarned:
		return "warned"
	case OutcomeApplied:
		return "applied"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result reports what an upgrade run did to one document.
type Result struct {
	// Outcome classifies the run.
	Outcome Outcome

	// ResolvedVersion is the version selected by resolution. Empty when
	// the document was unmatched or resolution found no eligible version.
	ResolvedVersion string

	// Plan is the edit plan that was applied. Empty unless Outcome is
	// OutcomeApplied.
	Plan EditPlan

	// Warnings lists the warning messages annotated onto the document.
	Warnings []string
}

// Changed reports whether the document was mutated. A warning annotation
// counts: it lives in the tree and survives serialization.
func (r *Result) Changed() bool {
	return r.Outcome == OutcomeApplied || r.Outcome == OutcomeWarned
}
