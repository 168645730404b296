// Package pomparent upgrades the parent reference of Maven pom.xml
// manifests.
//
// An UpgradeSpec names the parent to move away from (glob patterns over
// groupId and artifactId), the identity to adopt, and a version constraint.
// Upgrade matches the document's <parent> element against the spec,
// resolves the constraint against published repository metadata, and
// rewrites only the fields that differ, preserving the canonical child
// order inside <parent>. Explicit dependency versions made redundant by
// the new parent are stripped; coordinates listed in RetainVersions keep
// theirs.
//
// Basic usage:
//
//	doc, err := pomxml.Load("pom.xml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := pomparent.Upgrade(ctx, doc, pomparent.UpgradeSpec{
//		OldGroupID:    "org.springframework.boot",
//		OldArtifactID: "spring-boot-starter-parent",
//		NewVersion:    "~3.2",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if res.Changed() {
//		err = doc.WriteFile("pom.xml")
//	}
//
// Resolution consults Maven Central by default; WithRepositories configures
// a prioritized chain of alternatives. A repository that cannot be reached
// does not fail the run: the parent element is annotated with a warning
// comment and the result reports OutcomeWarned.
package pomparent

import (
	"context"

	"github.com/pomtools/go-pomparent/pomxml"
)

// Upgrade applies the parent change described by spec to a parsed
// document. The document is mutated in place only when the result reports
// a change; an unmatched or already-current document is left untouched.
//
// The error return covers invalid specs, configuration problems, and
// document corruption. Repository failures are not errors here: they
// surface as OutcomeWarned with a warning comment on the parent element.
func Upgrade(ctx context.Context, doc *pomxml.Document, spec UpgradeSpec, opts ...Option) (*Result, error) {
	sess, err := newSession(spec, opts...)
	if err != nil {
		return nil, err
	}
	return sess.upgrade(ctx, doc)
}

// UpgradeFile loads a pom.xml from disk, applies the parent change, and
// writes the file back only when something changed. The returned result is
// the same as Upgrade's.
func UpgradeFile(ctx context.Context, path string, spec UpgradeSpec, opts ...Option) (*Result, error) {
	doc, err := pomxml.Load(path)
	if err != nil {
		return nil, err
	}
	res, err := Upgrade(ctx, doc, spec, opts...)
	if err != nil {
		return nil, err
	}
	if res.Changed() {
		if err := doc.WriteFile(path); err != nil {
			return nil, err
		}
	}
	return res, nil
}
