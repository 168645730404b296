package pomxml

import "github.com/beevik/etree"

// Dependency is one <dependency> element of the project's direct dependency
// list. Element points into the document tree, so mutations through it are
// visible on the next serialization.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Version    string // empty when no explicit <version> child is declared
	Element    *etree.Element
}

// Key returns the "group:artifact" coordinate of the dependency.
func (dep Dependency) Key() string {
	return dep.GroupID + ":" + dep.ArtifactID
}

// SetVersion pins an explicit version on the dependency, creating the
// <version> child at its canonical position when absent.
func (dep Dependency) SetVersion(version string) {
	if SetChildValue(dep.Element, "version", version) {
		return
	}
	InsertCanonical(dep.Element, NewLeaf("version", version))
}

// RemoveVersion drops the explicit <version> child, reporting whether one
// was present.
func (dep Dependency) RemoveVersion() bool {
	return RemoveChild(dep.Element, "version")
}

// Dependencies returns the project's direct dependencies in document order.
func (d *Document) Dependencies() []Dependency {
	deps := d.Project().SelectElement("dependencies")
	if deps == nil {
		return nil
	}
	return collectDependencies(deps)
}

// ManagedVersions returns the versions pinned by the project's own
// <dependencyManagement> section, keyed by "group:artifact".
func (d *Document) ManagedVersions() map[string]string {
	managed := make(map[string]string)
	mgmt := d.Project().SelectElement("dependencyManagement")
	if mgmt == nil {
		return managed
	}
	deps := mgmt.SelectElement("dependencies")
	if deps == nil {
		return managed
	}
	for _, dep := range collectDependencies(deps) {
		if dep.Version != "" {
			managed[dep.Key()] = dep.Version
		}
	}
	return managed
}

func collectDependencies(deps *etree.Element) []Dependency {
	var out []Dependency
	for _, el := range deps.SelectElements("dependency") {
		groupID, _ := ChildValue(el, "groupId")
		artifactID, _ := ChildValue(el, "artifactId")
		version, _ := ChildValue(el, "version")
		if groupID == "" || artifactID == "" {
			continue
		}
		out = append(out, Dependency{
			GroupID:    groupID,
			ArtifactID: artifactID,
			Version:    version,
			Element:    el,
		})
	}
	return out
}
