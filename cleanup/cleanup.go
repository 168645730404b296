// Package cleanup provides the deferred document passes that accompany a
// parent upgrade: pinning explicit versions for dependencies that must keep
// them, and stripping explicit versions that dependency management already
// supplies.
//
// Each factory returns a deferred operation. Nothing is mutated at build
// time; the caller sequences the operations and applies them against the
// document after traversal completes.
package cleanup

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/pomtools/go-pomparent/pomxml"
)

// Op is a deferred operation against one document.
type Op func(doc *pomxml.Document) error

// GAV identifies a component by group and artifact, with an optional
// version. Group and artifact segments may be glob patterns.
type GAV struct {
	GroupID    string
	ArtifactID string
	Version    string // empty means "whatever dependency management supplies"
}

// InvalidGAVError reports a retain-versions entry that is not a two- or
// three-part colon-separated coordinate.
type InvalidGAVError struct {
	Entry string
}

func (e *InvalidGAVError) Error() string {
	return fmt.Sprintf("retain entry %q did not look like a two-or-three-part GAV", e.Entry)
}

// ParseGAV parses a "group:artifact" or "group:artifact:version" entry.
func ParseGAV(entry string) (GAV, error) {
	parts := strings.Split(entry, ":")
	switch len(parts) {
	case 2:
		return GAV{GroupID: parts[0], ArtifactID: parts[1]}, nil
	case 3:
		return GAV{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}, nil
	default:
		return GAV{}, &InvalidGAVError{Entry: entry}
	}
}

func (g GAV) String() string {
	if g.Version == "" {
		return g.GroupID + ":" + g.ArtifactID
	}
	return g.GroupID + ":" + g.ArtifactID + ":" + g.Version
}

// matches reports whether the dependency's coordinates satisfy the entry's
// group and artifact patterns. Literal patterns match only themselves.
func (g GAV) matches(dep pomxml.Dependency) bool {
	return matchesGlob(dep.GroupID, g.GroupID) && matchesGlob(dep.ArtifactID, g.ArtifactID)
}

func matchesGlob(value, pattern string) bool {
	m, err := glob.Compile(pattern)
	if err != nil {
		return value == pattern
	}
	return m.Match(value)
}

// RetainedSet is the set of coordinates whose explicit versions must
// survive the parent change.
type RetainedSet []GAV

// Find returns the first entry matching the dependency.
func (s RetainedSet) Find(dep pomxml.Dependency) (GAV, bool) {
	for _, g := range s {
		if g.matches(dep) {
			return g, true
		}
	}
	return GAV{}, false
}

// RetainExplicitVersions builds the pass that pins explicit versions for
// every direct dependency on the retain list. An entry with a version pins
// that version; an entry without one pins the version dependency management
// supplies at apply time, so the pass must be sequenced before the edits
// that change the management view.
func RetainExplicitVersions(retain RetainedSet) Op {
	return func(doc *pomxml.Document) error {
		if len(retain) == 0 {
			return nil
		}
		managed := doc.ManagedVersions()
		for _, dep := range doc.Dependencies() {
			entry, ok := retain.Find(dep)
			if !ok {
				continue
			}
			version := entry.Version
			if version == "" {
				version = managed[dep.Key()]
			}
			if version == "" || version == dep.Version {
				continue
			}
			dep.SetVersion(version)
		}
		return nil
	}
}

// RemoveRedundantVersions builds the pass that strips explicit dependency
// versions equal to what dependency management supplies. Dependencies
// matching the retain set keep their explicit version even when redundant.
func RemoveRedundantVersions(retain RetainedSet) Op {
	return func(doc *pomxml.Document) error {
		managed := doc.ManagedVersions()
		if len(managed) == 0 {
			return nil
		}
		for _, dep := range doc.Dependencies() {
			if dep.Version == "" || managed[dep.Key()] != dep.Version {
				continue
			}
			if _, retained := retain.Find(dep); retained {
				continue
			}
			dep.RemoveVersion()
		}
		return nil
	}
}
