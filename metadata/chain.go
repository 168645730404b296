package metadata

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Fetcher is the lookup interface shared by Client and Chain.
type Fetcher interface {
	// GetMetadata returns the metadata document for a coordinate.
	GetMetadata(ctx context.Context, groupID, artifactID string) (*Metadata, error)

	// URL identifies the repository (or repository set) for reporting.
	URL() string
}

var (
	_ Fetcher = (*Client)(nil)
	_ Fetcher = (*Chain)(nil)
)

// Chain implements multi-repository lookup with fallback behavior.
//
// Repositories are tried in order, falling through on ANY error, including
// server errors and network failures, not only a missing coordinate. The
// first repository that serves a coordinate is remembered and used for all
// later requests for that coordinate, so a flaky mirror cannot make the
// same coordinate resolve against two different repositories within one
// session.
type Chain struct {
	clients []Fetcher

	pinned   map[string]int // coordinate -> client index
	pinnedMu sync.RWMutex
}

// NewChain creates a chain of repository clients from URLs, in priority
// order. An empty URL list is an error; the zero timeout uses the default.
func NewChain(repositoryURLs []string, timeout time.Duration) (*Chain, error) {
	if len(repositoryURLs) == 0 {
		return nil, errors.New("no repository URLs provided")
	}

	clients := make([]Fetcher, 0, len(repositoryURLs))
	for _, url := range repositoryURLs {
		clients = append(clients, NewClient(url, WithTimeout(timeout)))
	}

	return &Chain{
		clients: clients,
		pinned:  make(map[string]int),
	}, nil
}

// NewChainOf builds a chain from existing fetchers; used by tests to mix
// fakes with real clients.
func NewChainOf(clients ...Fetcher) (*Chain, error) {
	if len(clients) == 0 {
		return nil, errors.New("no repository clients provided")
	}
	return &Chain{
		clients: clients,
		pinned:  make(map[string]int),
	}, nil
}

// URL returns the base URL of the first repository in the chain.
func (ch *Chain) URL() string {
	return ch.clients[0].URL()
}

// GetMetadata looks the coordinate up across the chain. A coordinate
// already pinned to a repository goes straight to it; otherwise each
// repository is tried in order and the first success pins the coordinate.
func (ch *Chain) GetMetadata(ctx context.Context, groupID, artifactID string) (*Metadata, error) {
	coordinate := groupID + ":" + artifactID

	ch.pinnedMu.RLock()
	idx, ok := ch.pinned[coordinate]
	ch.pinnedMu.RUnlock()
	if ok {
		return ch.clients[idx].GetMetadata(ctx, groupID, artifactID)
	}

	var firstErr error
	for i, client := range ch.clients {
		meta, err := client.GetMetadata(ctx, groupID, artifactID)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		ch.pinnedMu.Lock()
		if existing, raced := ch.pinned[coordinate]; raced {
			i = existing
		} else {
			ch.pinned[coordinate] = i
		}
		ch.pinnedMu.Unlock()
		return meta, nil
	}

	return nil, fmt.Errorf("metadata for %s not available from any repository: %w", coordinate, firstErr)
}
