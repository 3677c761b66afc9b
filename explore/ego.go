// Package explore builds budget-bounded subgraphs around a single artist:
// a BFS/Dijkstra ego graph (spec §4.E) and a path decorated with
// contextual neighbors up to a node budget (spec §4.F).
package explore

import (
	"container/heap"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/malbiruk/artistpath"
)

// Discovered pairs an artist with the similarity of the edge that first
// reached it and its BFS/Dijkstra layer (0 for the center).
type Discovered struct {
	Similarity float32
	Layer      int
}

// EgoGraph is the result of BFS or Dijkstra ego-graph exploration.
type EgoGraph struct {
	Discovered  map[uuid.UUID]Discovered
	Connections map[uuid.UUID][]artistpath.Edge
	Visited     int
	Elapsed     time.Duration
}

// Edges returns the discovered subgraph's display edges: every
// (u, v, similarity) from Connections where both endpoints are in
// Discovered and u != v (spec §4.E.3).
func (g EgoGraph) Edges() []Triple {
	var out []Triple
	for u, edges := range g.Connections {
		for _, e := range edges {
			if u == e.To {
				continue
			}
			if _, ok := g.Discovered[e.To]; !ok {
				continue
			}
			out = append(out, Triple{From: u, To: e.To, Similarity: e.Similarity})
		}
	}
	return out
}

// Triple is a directed display edge.
type Triple struct {
	From, To   uuid.UUID
	Similarity float32
}

// BFS explores center's neighborhood layer by layer until budget artists
// are discovered or the frontier empties, caching each artist's decoded
// connections so a node is fetched from the store at most once. Grounded
// on original's core/src/exploration/bfs.rs (BfsExplorer).
func BFS(center uuid.UUID, budget, maxRelations int, minSimilarity float32, store *artistpath.Store) EgoGraph {
	t0 := time.Now()
	cfg := artistpath.Config{MinMatch: minSimilarity, TopRelated: maxRelations}

	discovered := map[uuid.UUID]Discovered{center: {Similarity: 1.0, Layer: 0}}
	cache := map[uuid.UUID][]artistpath.Edge{}
	visited := 0

	type queued struct {
		id    uuid.UUID
		layer int
	}
	queue := []queued{{center, 0}}

	for len(queue) > 0 && len(discovered) < budget {
		cur := queue[0]
		queue = queue[1:]

		conns, ok := cache[cur.id]
		if !ok {
			conns = store.Connections(cur.id, cfg)
			if len(conns) > maxRelations {
				conns = conns[:maxRelations]
			}
			cache[cur.id] = conns
			visited++
		}

		for _, e := range conns {
			if len(discovered) >= budget {
				break
			}
			if _, ok := discovered[e.To]; ok {
				continue
			}
			discovered[e.To] = Discovered{Similarity: e.Similarity, Layer: cur.layer + 1}
			queue = append(queue, queued{e.To, cur.layer + 1})
		}
	}

	connections := fetchAll(discovered, cache, store, cfg, maxRelations, &visited)
	return EgoGraph{Discovered: discovered, Connections: connections, Visited: visited, Elapsed: time.Since(t0)}
}

// dijkstraItem is a min-heap entry for ego-graph Dijkstra, keyed by cost
// with an insertion-order tie-breaker (mirrors pathfind's heapNode).
type dijkstraItem struct {
	cost float32
	id   uuid.UUID
	seq  uint64
}

type dijkstraQueue []dijkstraItem

func (q dijkstraQueue) Len() int { return len(q) }
func (q dijkstraQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].seq < q[j].seq
}
func (q dijkstraQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *dijkstraQueue) Push(x interface{}) { *q = append(*q, x.(dijkstraItem)) }
func (q *dijkstraQueue) Pop() interface{} {
	old := *q
	n := len(old)
	v := old[n-1]
	*q = old[:n-1]
	return v
}

// Dijkstra explores center's neighborhood by ascending weight (1 -
// similarity), stopping once budget artists are discovered and the
// current popped cost can no longer improve the budget-th smallest
// settled cost — the spec.md §4.E.2/§9 "correct" stop rule, since the
// original's core/src/exploration/dijkstra.rs never implements the
// Dijkstra exploration variant (a todo!() stub).
//
// Layer assignment (1 + floor(cost * 5)) is a display heuristic, not a
// metric: two nodes in the same layer are not necessarily equidistant.
// The cost used is the tentative cost at which the artist was first
// reached; a later cheaper relaxation does not update Layer or
// Similarity, and the cost itself is not part of the returned EgoGraph.
func Dijkstra(center uuid.UUID, budget, maxRelations int, minSimilarity float32, store *artistpath.Store) EgoGraph {
	t0 := time.Now()
	cfg := artistpath.Config{MinMatch: minSimilarity, TopRelated: maxRelations}

	discovered := map[uuid.UUID]Discovered{center: {Similarity: 1.0, Layer: 0}}
	tentative := map[uuid.UUID]float32{center: 0}
	settled := map[uuid.UUID]bool{}
	cache := map[uuid.UUID][]artistpath.Edge{}
	visited := 0
	var seq uint64

	pq := dijkstraQueue{{cost: 0, id: center, seq: seq}}
	var settledCosts []float32

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(dijkstraItem)
		if settled[item.id] || item.cost > tentative[item.id] {
			continue // stale heap entry: either already settled, or superseded by a cheaper relax
		}

		if len(discovered) >= budget {
			kth := kthSmallest(settledCosts, budget)
			if item.cost > kth {
				break
			}
		}

		settled[item.id] = true
		settledCosts = append(settledCosts, item.cost)

		conns, ok := cache[item.id]
		if !ok {
			conns = store.Connections(item.id, cfg)
			if len(conns) > maxRelations {
				conns = conns[:maxRelations]
			}
			cache[item.id] = conns
			visited++
		}

		for _, e := range conns {
			weight := 1 - e.Similarity
			newCost := item.cost + weight
			if existing, seen := tentative[e.To]; seen && existing <= newCost {
				continue
			}
			tentative[e.To] = newCost
			if _, already := discovered[e.To]; !already && len(discovered) < budget {
				layer := 1 + int(math.Floor(float64(newCost)*5))
				discovered[e.To] = Discovered{Similarity: e.Similarity, Layer: layer}
			}
			seq++
			heap.Push(&pq, dijkstraItem{cost: newCost, id: e.To, seq: seq})
		}
	}

	connections := fetchAll(discovered, cache, store, cfg, maxRelations, &visited)
	return EgoGraph{Discovered: discovered, Connections: connections, Visited: visited, Elapsed: time.Since(t0)}
}

// kthSmallest returns the k-th smallest (1-indexed) value in costs, or
// +Inf if fewer than k costs have been recorded — meaning no admitted
// node can be beaten yet. It insertion-sorts a copy of costs, which is
// O(n²) in the number of settled costs.
func kthSmallest(costs []float32, k int) float32 {
	if k <= 0 || k > len(costs) {
		return float32(math.Inf(1))
	}
	sorted := append([]float32(nil), costs...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	return sorted[k-1]
}

// fetchAll ensures every discovered artist's connections are cached (a
// cache hit for anything BFS/Dijkstra already visited) and returns the
// connections map used to build display edges.
func fetchAll(discovered map[uuid.UUID]Discovered, cache map[uuid.UUID][]artistpath.Edge, store *artistpath.Store, cfg artistpath.Config, maxRelations int, visited *int) map[uuid.UUID][]artistpath.Edge {
	out := make(map[uuid.UUID][]artistpath.Edge, len(discovered))
	for id := range discovered {
		conns, ok := cache[id]
		if !ok {
			conns = store.Connections(id, cfg)
			if len(conns) > maxRelations {
				conns = conns[:maxRelations]
			}
			cache[id] = conns
			*visited++
		}
		out[id] = conns
	}
	return out
}
