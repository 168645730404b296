package pomparent

import (
	"context"

	"github.com/pomtools/go-pomparent/metadata"
	"github.com/pomtools/go-pomparent/versions"
)

// baselineVersion is the sentinel substituted when the current version is
// not a parseable version token (a property placeholder, for instance), so
// constraint evaluation always has a defined lower bound.
const baselineVersion = "0.0.0"

// MetadataCache memoizes version listings for one document-resolution
// session. Failures are cached alongside successes, so within a session a
// coordinate is fetched at most once no matter how it resolved. A cache
// must not be shared across sessions: it is the session's frozen view of
// the remote metadata.
type MetadataCache struct {
	entries map[string][]string
	failed  map[string]error
}

// NewMetadataCache creates an empty session cache.
func NewMetadataCache() *MetadataCache {
	return &MetadataCache{
		entries: make(map[string][]string),
		failed:  make(map[string]error),
	}
}

// resolver computes upgrade targets for one session. It owns the session
// cache and never mutates any document.
type resolver struct {
	comparator      *versions.Comparator
	allowDowngrades bool
	fetcher         metadata.Fetcher
	failures        *metadata.Failures
	cache           *MetadataCache
}

// available returns the published versions for a coordinate, fetching at
// most once per session. Fetch failures are recorded in the ledger and
// replayed from the cache on later calls.
func (r *resolver) available(ctx context.Context, groupID, artifactID string) ([]string, error) {
	key := groupID + ":" + artifactID
	if vers, ok := r.cache.entries[key]; ok {
		return vers, nil
	}
	if err, ok := r.cache.failed[key]; ok {
		return nil, err
	}

	meta, err := r.fetcher.GetMetadata(ctx, groupID, artifactID)
	if err != nil {
		r.failures.Record(groupID, artifactID, r.fetcher.URL(), err)
		r.cache.failed[key] = err
		return nil, err
	}

	r.cache.entries[key] = meta.Versioning.Versions
	return meta.Versioning.Versions, nil
}

// resolve selects the target version for a coordinate, honoring the
// constraint and the downgrade policy. The boolean result is false when no
// published version is eligible, which is a normal outcome, not an error.
// A fetch or parse failure surfaces as *MetadataUnavailableError.
func (r *resolver) resolve(ctx context.Context, groupID, artifactID, currentVersion string) (string, bool, error) {
	current := currentVersion
	if !versions.IsVersion(current) {
		current = baselineVersion
	}

	published, err := r.available(ctx, groupID, artifactID)
	if err != nil {
		return "", false, &MetadataUnavailableError{GroupID: groupID, ArtifactID: artifactID, Err: err}
	}

	var eligible []string
	for _, candidate := range published {
		if !r.comparator.IsValid(current, candidate) {
			continue
		}
		// Allowing downgrades removes the ordering filter entirely;
		// constraint validity alone decides eligibility.
		if !r.allowDowngrades && r.comparator.Compare(current, candidate) >= 0 {
			continue
		}
		eligible = append(eligible, candidate)
	}

	if r.allowDowngrades {
		target, ok := r.comparator.Max(eligible)
		return target, ok, nil
	}
	target, ok := r.comparator.Upgrade(current, eligible)
	return target, ok, nil
}
