package pathfind

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/google/uuid"

	"github.com/malbiruk/artistpath"
)

// parentEdge records, for one artist ordinal, the ordinal it was first
// reached from and the similarity of the edge that reached it.
type parentEdge struct {
	parent     uint32
	similarity float32
}

// side is one direction's search state in a bidirectional traversal: the
// graph Store to expand through, a visited (settled) bitmap and a queued
// bitmap keyed by artist ordinal, and a parent map for reconstruction.
//
// visited and queued are tracked separately, not merged into one set,
// because testing queued membership during intersection would stop a
// search at a node that has no parent chain yet — the distinction matters
// for both correctness (meeting-point test) and performance (it is what
// keeps re-enqueuing from going quadratic). Grounded on
// core/src/pathfinding/profiled_bfs.rs's forward_visited/forward_queued
// pair.
type side struct {
	store   *artistpath.Store
	visited *roaring.Bitmap
	queued  *roaring.Bitmap
	parent  map[uint32]parentEdge
}

func newSide(store *artistpath.Store) *side {
	return &side{
		store:   store,
		visited: roaring.New(),
		queued:  roaring.New(),
		parent:  make(map[uint32]parentEdge),
	}
}

// fifo is a minimal FIFO queue of artist ordinals for BFS frontiers.
type fifo struct {
	items []uint32
	head  int
}

func (q *fifo) push(v uint32) {
	q.items = append(q.items, v)
}

func (q *fifo) pop() (uint32, bool) {
	if q.head >= len(q.items) {
		return 0, false
	}
	v := q.items[q.head]
	q.head++
	return v, true
}

func (q *fifo) empty() bool {
	return q.head >= len(q.items)
}

// reconstruct walks fwd's parent chain from meetingOrd back to start,
// reverses it, then walks rev's parent chain from meetingOrd forward to
// target and appends it, producing start -> ... -> meeting -> ... ->
// target. Grounded on profiled_bfs.rs's reconstruct_path.
func reconstruct(fwd, rev *side, start, target uuid.UUID, meetingOrd uint32) []artistpath.PathStep {
	var toStart []artistpath.PathStep
	cur := meetingOrd
	for {
		id, ok := fwd.store.UUID(cur)
		if !ok {
			break
		}
		if id == start {
			toStart = append(toStart, artistpath.PathStep{Artist: id, Similarity: 0})
			break
		}
		pe, ok := fwd.parent[cur]
		if !ok {
			toStart = append(toStart, artistpath.PathStep{Artist: id, Similarity: 0})
			break
		}
		toStart = append(toStart, artistpath.PathStep{Artist: id, Similarity: pe.similarity})
		cur = pe.parent
	}
	reverseSteps(toStart)

	var toTarget []artistpath.PathStep
	cur = meetingOrd
	for {
		id, ok := rev.store.UUID(cur)
		if !ok || id == target {
			break
		}
		pe, ok := rev.parent[cur]
		if !ok {
			break
		}
		nextID, ok := rev.store.UUID(pe.parent)
		if !ok {
			break
		}
		toTarget = append(toTarget, artistpath.PathStep{Artist: nextID, Similarity: pe.similarity})
		cur = pe.parent
	}

	path := make([]artistpath.PathStep, 0, len(toStart)+len(toTarget))
	path = append(path, toStart...)
	path = append(path, toTarget...)
	return path
}

func reverseSteps(s []artistpath.PathStep) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
