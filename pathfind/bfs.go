package pathfind

import (
	"github.com/google/uuid"

	"github.com/malbiruk/artistpath"
)

// bfs runs bidirectional unweighted BFS: a forward frontier from start over
// the forward graph and a reverse frontier from target over the reverse
// graph, alternating expansion one step at a time until they meet.
// Grounded on core/src/pathfinding/profiled_bfs.rs's
// profiled_bidirectional_bfs (spec §4.D.2).
func bfs(start, target uuid.UUID, forward, reverse *artistpath.Store, cfg artistpath.Config) (path []artistpath.PathStep, visited int) {
	startOrd, ok := forward.Ordinal(start)
	if !ok {
		return nil, 0
	}
	targetOrd, ok := reverse.Ordinal(target)
	if !ok {
		return nil, 0
	}

	fwd := newSide(forward)
	rev := newSide(reverse)

	var fwdQueue, revQueue fifo
	fwdQueue.push(startOrd)
	fwd.queued.Add(startOrd)
	revQueue.push(targetOrd)
	rev.queued.Add(targetOrd)

	for !fwdQueue.empty() || !revQueue.empty() {
		if cur, ok := fwdQueue.pop(); ok {
			if !fwd.visited.Contains(cur) {
				fwd.visited.Add(cur)
				fwd.queued.Remove(cur)

				if rev.visited.Contains(cur) {
					p := reconstruct(fwd, rev, start, target, cur)
					return p, int(fwd.visited.GetCardinality() + rev.visited.GetCardinality())
				}

				expandSide(fwd, &fwdQueue, cur, cfg)
			}
		}

		if cur, ok := revQueue.pop(); ok {
			if !rev.visited.Contains(cur) {
				rev.visited.Add(cur)
				rev.queued.Remove(cur)

				if fwd.visited.Contains(cur) {
					p := reconstruct(fwd, rev, start, target, cur)
					return p, int(fwd.visited.GetCardinality() + rev.visited.GetCardinality())
				}

				expandSide(rev, &revQueue, cur, cfg)
			}
		}
	}

	return nil, int(fwd.visited.GetCardinality() + rev.visited.GetCardinality())
}

// expandSide enumerates cur's connections on s's graph and enqueues every
// neighbor not already visited or queued on this side, recording its
// parent for path reconstruction.
func expandSide(s *side, q *fifo, cur uint32, cfg artistpath.Config) {
	id, ok := s.store.UUID(cur)
	if !ok {
		return
	}
	for _, e := range s.store.Connections(id, cfg) {
		nOrd, ok := s.store.Ordinal(e.To)
		if !ok {
			continue
		}
		if s.visited.Contains(nOrd) || s.queued.Contains(nOrd) {
			continue
		}
		s.parent[nOrd] = parentEdge{parent: cur, similarity: e.Similarity}
		q.push(nOrd)
		s.queued.Add(nOrd)
	}
}
