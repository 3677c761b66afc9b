package explore

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/malbiruk/artistpath"
	"github.com/malbiruk/artistpath/pathfind"
)

// Status distinguishes the three outcomes PathWithContext can produce
// (spec §4.F).
type Status int

const (
	StatusSuccess Status = iota
	StatusPathTooLong
	StatusNoPath
)

// Result is the outcome of PathWithContext.
type Result struct {
	Status              Status
	PrimaryPath         []artistpath.PathStep
	PathLength          int
	MinimumBudgetNeeded int
	Discovered          map[uuid.UUID]Discovered
	Edges               []Triple
	Visited             int
	Elapsed             time.Duration
}

type neighborInfo struct {
	similarity float32
	hits       int
}

// PathWithContext runs a primary path search, then — if the path fits the
// budget — decorates it with the highest-connectivity neighbors of the
// path artists until the budget is reached. Grounded on original's
// core/src/pathfinding/bfs/neighborhood.rs (explore_path_neighborhood,
// analyze_neighbor_connectivity, prioritize_neighbors) for the
// hits/best_sim ranking, and web/backend/src/enhanced_pathfinding.rs's
// build_graph_edges for the output edge-list assembly (spec §4.F).
func PathWithContext(start, target uuid.UUID, algo artistpath.Algorithm, budget int, forward, reverse *artistpath.Store, cfg artistpath.Config) Result {
	t0 := time.Now()

	primary := pathfind.Search(start, target, algo, forward, reverse, cfg)
	if !primary.Found {
		return Result{Status: StatusNoPath, Visited: primary.Visited, Elapsed: time.Since(t0)}
	}

	path := primary.Path
	if len(path) > budget {
		return Result{
			Status:              StatusPathTooLong,
			PrimaryPath:         path,
			PathLength:          len(path),
			MinimumBudgetNeeded: len(path),
			Visited:             primary.Visited,
			Elapsed:             time.Since(t0),
		}
	}

	discovered := make(map[uuid.UUID]Discovered, len(path))
	for i, step := range path {
		discovered[step.Artist] = Discovered{Similarity: step.Similarity, Layer: i}
	}

	connections := make(map[uuid.UUID][]artistpath.Edge, len(path))
	for _, step := range path {
		connections[step.Artist] = mergedConnections(step.Artist, forward, reverse, cfg)
	}

	remaining := budget - len(path)
	if remaining > 0 {
		pathSet := make(map[uuid.UUID]bool, len(path))
		for _, step := range path {
			pathSet[step.Artist] = true
		}

		info := map[uuid.UUID]*neighborInfo{}
		for _, edges := range connections {
			for _, e := range edges {
				if pathSet[e.To] {
					continue
				}
				ni, ok := info[e.To]
				if !ok {
					ni = &neighborInfo{}
					info[e.To] = ni
				}
				ni.hits++
				if e.Similarity > ni.similarity {
					ni.similarity = e.Similarity
				}
			}
		}

		candidates := make([]uuid.UUID, 0, len(info))
		for id := range info {
			candidates = append(candidates, id)
		}
		sort.Slice(candidates, func(i, j int) bool {
			a, b := info[candidates[i]], info[candidates[j]]
			if a.hits != b.hits {
				return a.hits > b.hits
			}
			return a.similarity > b.similarity
		})

		for _, id := range candidates {
			if len(discovered) >= budget {
				break
			}
			ni := info[id]
			discovered[id] = Discovered{Similarity: ni.similarity, Layer: len(path)}
			connections[id] = mergedConnections(id, forward, reverse, cfg)
		}
	}

	edges := buildEdges(path, connections, discovered)

	return Result{
		Status:      StatusSuccess,
		PrimaryPath: path,
		Discovered:  discovered,
		Edges:       edges,
		Visited:     primary.Visited,
		Elapsed:     time.Since(t0),
	}
}

// mergedConnections fetches id's forward and reverse connections and
// merges them, keeping the higher similarity on duplicate targets.
func mergedConnections(id uuid.UUID, forward, reverse *artistpath.Store, cfg artistpath.Config) []artistpath.Edge {
	fwd := forward.Connections(id, cfg)
	rev := reverse.Connections(id, cfg)

	merged := make(map[uuid.UUID]float32, len(fwd)+len(rev))
	for _, e := range fwd {
		merged[e.To] = e.Similarity
	}
	for _, e := range rev {
		if existing, ok := merged[e.To]; !ok || e.Similarity > existing {
			merged[e.To] = e.Similarity
		}
	}

	out := make([]artistpath.Edge, 0, len(merged))
	for to, sim := range merged {
		out = append(out, artistpath.Edge{To: to, Similarity: sim})
	}
	return out
}

// buildEdges assembles the output edge list: every backbone path edge
// first, then neighborhood edges between discovered artists that are not
// self-loops, not already present, and not the reverse of a path edge
// (spec §4.F step 5).
func buildEdges(path []artistpath.PathStep, connections map[uuid.UUID][]artistpath.Edge, discovered map[uuid.UUID]Discovered) []Triple {
	var edges []Triple
	present := map[[2]uuid.UUID]bool{}
	pathEdges := map[[2]uuid.UUID]bool{}

	for i := 1; i < len(path); i++ {
		from, to := path[i-1].Artist, path[i].Artist
		edges = append(edges, Triple{From: from, To: to, Similarity: path[i].Similarity})
		present[[2]uuid.UUID{from, to}] = true
		pathEdges[[2]uuid.UUID{from, to}] = true
	}

	for from, conns := range connections {
		for _, e := range conns {
			to := e.To
			if from == to {
				continue
			}
			if _, ok := discovered[to]; !ok {
				continue
			}
			key := [2]uuid.UUID{from, to}
			if present[key] {
				continue
			}
			if pathEdges[[2]uuid.UUID{to, from}] {
				continue
			}
			present[key] = true
			edges = append(edges, Triple{From: from, To: to, Similarity: e.Similarity})
		}
	}

	return edges
}
