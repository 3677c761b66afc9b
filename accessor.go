package artistpath

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/malbiruk/artistpath/internal/zlog"
)

// Connections decodes id's adjacency record from s at the offset recorded
// in s's bound index, then applies cfg's filter/sort/truncate pipeline
// (spec §4.C).
//
// Returns an empty slice — never an error — if id is not in the index, its
// offset falls outside the mapped region, or the record's stored UUID
// does not match id. A corrupt record is absorbed here so a bidirectional
// search can continue past one bad page (spec §7).
func (s *Store) Connections(id uuid.UUID, cfg Config) []Edge {
	pos, ok := s.index[id]
	if !ok {
		return nil
	}
	tail, ok := s.tail(pos)
	if !ok {
		zlog.Debug("connections: offset outside mapped region", zap.Stringer("artist", id), zap.Uint64("offset", pos))
		return nil
	}

	c := newCursor(tail)
	stored, err := c.uuid()
	if err != nil || stored != id {
		zlog.Debug("connections: record uuid mismatch or truncated", zap.Stringer("artist", id))
		return nil
	}
	count, err := c.u32()
	if err != nil {
		zlog.Debug("connections: truncated record count", zap.Stringer("artist", id))
		return nil
	}

	edges := make([]Edge, 0, count)
	for i := uint32(0); i < count; i++ {
		to, err := c.uuid()
		if err != nil {
			zlog.Debug("connections: truncated edge target", zap.Stringer("artist", id), zap.Uint32("index", i))
			return nil
		}
		sim, err := c.f32()
		if err != nil {
			zlog.Debug("connections: truncated edge similarity", zap.Stringer("artist", id), zap.Uint32("index", i))
			return nil
		}
		edges = append(edges, Edge{To: to, Similarity: sim})
	}

	return filterSortTruncate(edges, cfg)
}

func filterSortTruncate(edges []Edge, cfg Config) []Edge {
	if cfg.MinMatch > 0 {
		kept := edges[:0]
		for _, e := range edges {
			if e.Similarity >= cfg.MinMatch {
				kept = append(kept, e)
			}
		}
		edges = kept
	}

	sort.SliceStable(edges, func(i, j int) bool {
		return simGreater(edges[i].Similarity, edges[j].Similarity)
	})

	if cfg.TopRelated > 0 && len(edges) > cfg.TopRelated {
		edges = edges[:cfg.TopRelated]
	}
	return edges
}

// simGreater reports whether a should sort before b (descending
// similarity). NaN is treated as equal to everything, matching spec §4.C
// ("NaN is treated as Equal — NaN must not appear but must not crash").
func simGreater(a, b float32) bool {
	if a != a || b != b {
		return false
	}
	return a > b
}
