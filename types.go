// Package artistpath provides O(1) random access to a memory-mapped
// artist-similarity graph: a binary codec for the on-disk record formats,
// a loader for the unified metadata file, and a per-artist connections
// accessor. The pathfind and explore subpackages build on top of it.
package artistpath

import "github.com/google/uuid"

// Edge is a directed, weighted connection from one artist to another.
type Edge struct {
	To         uuid.UUID
	Similarity float32
}

// PathStep is one node on a path. Similarity is the similarity of the edge
// that led into Artist; the first step in a path always carries the 0.0
// sentinel.
type PathStep struct {
	Artist     uuid.UUID
	Similarity float32
}

// Algorithm selects the pathfinding strategy.
type Algorithm int

const (
	// Bfs finds the unweighted shortest path.
	Bfs Algorithm = iota
	// Dijkstra searches with edge weight 1 - similarity, preferring
	// high-similarity paths. It stops at the first node settled by both
	// sides, so the path is not guaranteed to be of minimum total weight.
	Dijkstra
)

// String returns the lowercase wire form used in config files and query
// strings (spec §6.3).
func (a Algorithm) String() string {
	if a == Dijkstra {
		return "dijkstra"
	}
	return "bfs"
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown values are
// coerced to Bfs, matching spec §6.3 ("unknown values are accepted and
// coerced to bfs").
func (a *Algorithm) UnmarshalText(text []byte) error {
	if string(text) == "dijkstra" {
		*a = Dijkstra
	} else {
		*a = Bfs
	}
	return nil
}

// Config is the per-query filter policy applied by Store.Connections.
type Config struct {
	// MinMatch drops edges with similarity strictly less than this
	// threshold. Zero disables filtering.
	MinMatch float32
	// TopRelated caps the number of edges returned per source artist,
	// after filtering and sorting.
	TopRelated int
}

// DefaultConfig matches the defaults spec §6.2 names for hosts that choose
// to expose them.
func DefaultConfig() Config {
	return Config{MinMatch: 0.0, TopRelated: 80}
}
