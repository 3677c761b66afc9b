package pathfind

import (
	"container/heap"

	"github.com/google/uuid"

	"github.com/malbiruk/artistpath"
)

// heapNode is one entry in a Dijkstra priority queue: a tentative distance
// and a monotonically increasing sequence number used as a tie-breaker so
// equal-cost nodes pop in insertion order (spec §5 "ties broken by
// insertion order"). Mirrors core/src/pathfinding/dijkstra.rs's
// DijkstraNode, whose Ord treats NaN as Equal; Go's container/heap has no
// such hazard since cost comparisons here are always finite similarities.
type heapNode struct {
	cost float32
	ord  uint32
	seq  uint64
}

type nodeHeap []heapNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(heapNode)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// dijkstraSide extends side with the priority queue and distance map a
// weighted search needs; visited here means settled (popped with its
// final distance), matching DijkstraState in the original.
type dijkstraSide struct {
	*side
	heap      nodeHeap
	distances map[uint32]float32
	seq       uint64
}

func newDijkstraSide(store *artistpath.Store, startOrd uint32) *dijkstraSide {
	d := &dijkstraSide{
		side:      newSide(store),
		distances: map[uint32]float32{startOrd: 0},
	}
	heap.Push(&d.heap, heapNode{cost: 0, ord: startOrd, seq: d.nextSeq()})
	return d
}

func (d *dijkstraSide) nextSeq() uint64 {
	d.seq++
	return d.seq
}

// relax updates neighbor's distance if the edge through current improves
// it, recording the parent and pushing the new distance onto the heap.
func (d *dijkstraSide) relax(current, neighbor uint32, similarity, currentCost float32) {
	newCost := currentCost + (1 - similarity)
	if existing, ok := d.distances[neighbor]; ok && newCost >= existing {
		return
	}
	d.distances[neighbor] = newCost
	d.parent[neighbor] = parentEdge{parent: current, similarity: similarity}
	heap.Push(&d.heap, heapNode{cost: newCost, ord: neighbor, seq: d.nextSeq()})
}

// dijkstra runs bidirectional Dijkstra with edge weight 1-similarity, so
// higher similarity paths are preferred. Grounded on
// core/src/pathfinding/dijkstra.rs's dijkstra_find_path: each side settles
// its minimum-distance unsettled node per step, alternating sides, and the
// search stops the first time one side settles a node the other side has
// already settled (the conservative meeting rule spec §4.D.3 allows as an
// alternative to the tighter μ-bound rule).
func dijkstra(start, target uuid.UUID, forward, reverse *artistpath.Store, cfg artistpath.Config) (path []artistpath.PathStep, visited int) {
	startOrd, ok := forward.Ordinal(start)
	if !ok {
		return nil, 0
	}
	targetOrd, ok := reverse.Ordinal(target)
	if !ok {
		return nil, 0
	}

	fwd := newDijkstraSide(forward, startOrd)
	rev := newDijkstraSide(reverse, targetOrd)

	for fwd.heap.Len() > 0 || rev.heap.Len() > 0 {
		fwdDone := true
		if fwd.heap.Len() > 0 {
			n := heap.Pop(&fwd.heap).(heapNode)
			if !fwd.visited.Contains(n.ord) {
				if rev.visited.Contains(n.ord) {
					p := reconstruct(fwd.side, rev.side, start, target, n.ord)
					return p, int(fwd.visited.GetCardinality() + rev.visited.GetCardinality())
				}
				fwd.visited.Add(n.ord)
				relaxNeighbors(fwd, forward, n, cfg)
			}
			fwdDone = false
		}

		revDone := true
		if rev.heap.Len() > 0 {
			n := heap.Pop(&rev.heap).(heapNode)
			if !rev.visited.Contains(n.ord) {
				if fwd.visited.Contains(n.ord) {
					p := reconstruct(fwd.side, rev.side, start, target, n.ord)
					return p, int(fwd.visited.GetCardinality() + rev.visited.GetCardinality())
				}
				rev.visited.Add(n.ord)
				relaxNeighbors(rev, reverse, n, cfg)
			}
			revDone = false
		}

		if fwdDone && revDone {
			break
		}
	}

	return nil, int(fwd.visited.GetCardinality() + rev.visited.GetCardinality())
}

func relaxNeighbors(d *dijkstraSide, store *artistpath.Store, n heapNode, cfg artistpath.Config) {
	id, ok := store.UUID(n.ord)
	if !ok {
		return
	}
	for _, e := range store.Connections(id, cfg) {
		nOrd, ok := store.Ordinal(e.To)
		if !ok {
			continue
		}
		d.relax(n.ord, nOrd, e.Similarity, n.cost)
	}
}
