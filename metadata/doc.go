// Package metadata fetches and caches maven-metadata.xml version listings
// from Maven repositories.
//
// The package provides three pieces:
//
//   - Client: fetches metadata from one repository with connection pooling
//     and an in-memory response cache keyed by coordinates.
//   - Chain: multi-repository lookup with fallback. Repositories are tried
//     in order and the first repository that serves a coordinate is used
//     for all later requests for that coordinate.
//   - Failures: a thread-safe ledger of fetch failures keyed by
//     coordinates, for reporting after a run completes.
//
// Timeout and retry policy live here, not in the resolution core: a caller
// that needs different behavior supplies its own http.Client.
package metadata
