package pomparent

import (
	"github.com/gobwas/glob"

	"github.com/pomtools/go-pomparent/pomxml"
)

// matchesGlob reports whether value satisfies a glob-style pattern.
// Literal patterns match only exact equality; a pattern that fails to
// compile is treated as a literal.
func matchesGlob(value, pattern string) bool {
	m, err := glob.Compile(pattern)
	if err != nil {
		return value == pattern
	}
	return m.Match(value)
}

// readParentReference snapshots the <parent> element into a
// ParentReference.
func readParentReference(doc *pomxml.Document) (ParentReference, bool) {
	el := doc.Parent()
	if el == nil {
		return ParentReference{}, false
	}
	groupID, _ := pomxml.ChildValue(el, "groupId")
	artifactID, _ := pomxml.ChildValue(el, "artifactId")
	version, _ := pomxml.ChildValue(el, "version")
	relativePath, hasRelativePath := pomxml.ChildValue(el, "relativePath")
	return ParentReference{
		GroupID:         groupID,
		ArtifactID:      artifactID,
		Version:         version,
		RelativePath:    relativePath,
		HasRelativePath: hasRelativePath,
	}, true
}

// matches gates resolution on the old-identity patterns. It runs before
// any network access: a non-matching document never triggers a metadata
// fetch. An unset old relative-path pattern leaves relative-path out of
// the decision entirely.
func (s UpgradeSpec) matches(ref ParentReference) bool {
	if !matchesGlob(ref.GroupID, s.OldGroupID) {
		return false
	}
	if !matchesGlob(ref.ArtifactID, s.OldArtifactID) {
		return false
	}
	if s.OldRelativePath != nil && !matchesGlob(ref.RelativePath, *s.OldRelativePath) {
		return false
	}
	return true
}
