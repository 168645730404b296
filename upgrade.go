package pomparent

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pomtools/go-pomparent/cleanup"
	"github.com/pomtools/go-pomparent/metadata"
	"github.com/pomtools/go-pomparent/pomxml"
	"github.com/pomtools/go-pomparent/versions"
)

// UpgradeSpec describes the parent change to perform. Old identifiers are
// glob-style patterns matched against the current parent reference; new
// identifiers default to the current values when left empty.
type UpgradeSpec struct {
	// OldGroupID is the group pattern of the parent to change away from.
	// Required.
	OldGroupID string

	// NewGroupID is the group of the parent to adopt. Defaults to the
	// current group when empty.
	NewGroupID string

	// OldArtifactID is the artifact pattern of the parent to change away
	// from. Required.
	OldArtifactID string

	// NewArtifactID is the artifact of the parent to adopt. Defaults to
	// the current artifact when empty.
	NewArtifactID string

	// NewVersion is an exact version or a version selector expression used
	// to choose the target version. Required.
	NewVersion string

	// VersionPattern extends selection beyond plain version semantics,
	// e.g. pairing a constraint of "25-29" with "-jre".
	VersionPattern string

	// OldRelativePath, when set, is an additional pattern the current
	// relative path must match. Nil leaves relative path out of matching.
	OldRelativePath *string

	// NewRelativePath, when set, is the relative path to adopt. An
	// explicitly empty string produces an empty element. Nil keeps the
	// current value.
	NewRelativePath *string

	// AllowDowngrades permits selecting a version older than the current
	// one; the highest version satisfying the constraint wins.
	AllowDowngrades bool

	// RetainVersions lists "group:artifact[:version]" coordinates whose
	// explicit dependency versions must survive the parent change.
	RetainVersions []string
}

// Validate checks the upgrade description without touching any document.
// All problems are collected into one *ValidationError; the compiled
// comparator and retain set are returned so resolution can proceed without
// re-parsing.
func (s UpgradeSpec) Validate() (*versions.Comparator, cleanup.RetainedSet, error) {
	var issues []error

	if s.OldGroupID == "" {
		issues = append(issues, errors.New("old group id is required"))
	}
	if s.OldArtifactID == "" {
		issues = append(issues, errors.New("old artifact id is required"))
	}

	var comparator *versions.Comparator
	if s.NewVersion == "" {
		issues = append(issues, errors.New("new version is required"))
	} else {
		var err error
		if comparator, err = versions.Validate(s.NewVersion, s.VersionPattern); err != nil {
			issues = append(issues, err)
		}
	}

	retain := make(cleanup.RetainedSet, 0, len(s.RetainVersions))
	for _, entry := range s.RetainVersions {
		gav, err := cleanup.ParseGAV(entry)
		if err != nil {
			issues = append(issues, err)
			continue
		}
		retain = append(retain, gav)
	}

	if len(issues) > 0 {
		return nil, nil, &ValidationError{Issues: issues}
	}
	return comparator, retain, nil
}

// target resolves the fully-populated target identity once, applying the
// defaulting rules: unset new values fall back to the current reference.
func (s UpgradeSpec) target(ref ParentReference) TargetIdentity {
	t := TargetIdentity{
		GroupID:         s.NewGroupID,
		ArtifactID:      s.NewArtifactID,
		RelativePath:    ref.RelativePath,
		HasRelativePath: ref.HasRelativePath,
	}
	if t.GroupID == "" {
		t.GroupID = ref.GroupID
	}
	if t.ArtifactID == "" {
		t.ArtifactID = ref.ArtifactID
	}
	if s.NewRelativePath != nil {
		t.RelativePath = *s.NewRelativePath
		t.HasRelativePath = true
	}
	return t
}

// session is one document-resolution session: one document, one metadata
// cache, one deferred-operation pipeline.
type session struct {
	spec     UpgradeSpec
	retain   cleanup.RetainedSet
	resolver *resolver
	logger   *slog.Logger
}

// upgrade runs the match → resolve → plan → orchestrate pipeline for one
// document. Metadata failures degrade to a warning annotation on the
// parent tag; every other error aborts the run for this document.
func (s *session) upgrade(ctx context.Context, doc *pomxml.Document) (*Result, error) {
	ref, ok := readParentReference(doc)
	if !ok || !s.spec.matches(ref) {
		return &Result{Outcome: OutcomeUnmatched}, nil
	}

	target := s.spec.target(ref)
	s.logger.Debug("parent matched",
		slog.String("current", ref.GroupID+":"+ref.ArtifactID+":"+ref.Version),
		slog.String("target", target.GroupID+":"+target.ArtifactID))

	resolved, found, err := s.resolver.resolve(ctx, target.GroupID, target.ArtifactID, ref.Version)
	if err != nil {
		var unavailable *MetadataUnavailableError
		if errors.As(err, &unavailable) {
			message := unavailable.Error()
			pomxml.Warn(doc.Parent(), message)
			s.logger.Warn("metadata fetch failed",
				slog.String("groupId", unavailable.GroupID),
				slog.String("artifactId", unavailable.ArtifactID),
				slog.Any("error", unavailable.Err))
			return &Result{Outcome: OutcomeWarned, Warnings: []string{message}}, nil
		}
		return nil, err
	}
	if !found {
		s.logger.Debug("no eligible version",
			slog.String("constraint", s.spec.NewVersion),
			slog.String("current", ref.Version))
		return &Result{Outcome: OutcomeNoChange}, nil
	}

	plan := buildPlan(ref, target, resolved)
	if plan.Empty() {
		// Already at the target; scheduling cleanup here would make
		// re-runs observable.
		return &Result{Outcome: OutcomeNoChange, ResolvedVersion: resolved}, nil
	}

	if err := applyAll(doc, schedule(plan, s.retain)); err != nil {
		return nil, err
	}

	s.logger.Info("parent upgraded",
		slog.String("groupId", target.GroupID),
		slog.String("artifactId", target.ArtifactID),
		slog.String("version", resolved),
		slog.Int("edits", plan.Len()))

	return &Result{Outcome: OutcomeApplied, ResolvedVersion: resolved, Plan: plan}, nil
}

// newSession validates the upgrade description and assembles a session
// from the configured options.
func newSession(spec UpgradeSpec, opts ...Option) (*session, error) {
	comparator, retain, err := spec.Validate()
	if err != nil {
		return nil, err
	}

	cfg, err := newSessionConfig(opts...)
	if err != nil {
		return nil, err
	}

	fetcher, err := cfg.newFetcher()
	if err != nil {
		return nil, err
	}

	failures := cfg.failures
	if failures == nil {
		failures = metadata.NewFailures()
	}

	return &session{
		spec:   spec,
		retain: retain,
		resolver: &resolver{
			comparator:      comparator,
			allowDowngrades: spec.AllowDowngrades,
			fetcher:         fetcher,
			failures:        failures,
			cache:           NewMetadataCache(),
		},
		logger: cfg.log(),
	}, nil
}
