package pomparent

import (
	"fmt"
	"strings"
)

// ValidationError aggregates every problem found while validating an
// UpgradeSpec. All malformed retain entries are collected before failing,
// so the caller sees the full list at once, and nothing touches a document
// until validation passes.
type ValidationError struct {
	Issues []error
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "invalid upgrade spec: " + e.Issues[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid upgrade spec (%d problems):", len(e.Issues))
	for _, issue := range e.Issues {
		sb.WriteString("\n  - ")
		sb.WriteString(issue.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual issues to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error { return e.Issues }

// MetadataUnavailableError means the remote metadata source could not be
// reached or parsed for one coordinate. It is recoverable per tag: the
// caller downgrades it to a warning annotation on the document instead of
// aborting the run.
type MetadataUnavailableError struct {
	GroupID    string
	ArtifactID string
	Err        error
}

func (e *MetadataUnavailableError) Error() string {
	return fmt.Sprintf("metadata unavailable for %s:%s: %v", e.GroupID, e.ArtifactID, e.Err)
}

func (e *MetadataUnavailableError) Unwrap() error { return e.Err }
