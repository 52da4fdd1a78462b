package domain

import "context"

// NetworkStatsProvider supplies a fresh network snapshot.
// Implementations must not cache between calls.
type NetworkStatsProvider interface {
	FetchSnapshot(ctx context.Context) (NetworkSnapshot, error)
}
