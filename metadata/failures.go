package metadata

import (
	"sync"
	"time"
)

// Failure is one recorded metadata fetch failure.
type Failure struct {
	GroupID    string
	ArtifactID string
	Repository string
	Reason     string
	At         time.Time
}

// Failures is a thread-safe ledger of metadata fetch failures, keyed by
// coordinates. A run records failures as it encounters them and reports
// them all at the end instead of aborting on the first one.
type Failures struct {
	mu   sync.Mutex
	rows []Failure
}

// NewFailures creates an empty ledger.
func NewFailures() *Failures {
	return &Failures{}
}

// Record appends a failure row. A nil ledger discards the row, so callers
// never need a nil check.
func (f *Failures) Record(groupID, artifactID, repository string, err error) {
	if f == nil || err == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, Failure{
		GroupID:    groupID,
		ArtifactID: artifactID,
		Repository: repository,
		Reason:     err.Error(),
		At:         time.Now(),
	})
}

// Rows returns a copy of all recorded failures in insertion order.
func (f *Failures) Rows() []Failure {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Failure, len(f.rows))
	copy(out, f.rows)
	return out
}

// Len returns the number of recorded failures.
func (f *Failures) Len() int {
	if f == nil {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}
