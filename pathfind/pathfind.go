// Package pathfind implements bidirectional BFS and Dijkstra search over a
// pair of forward/reverse artist-similarity graphs (spec §4.D).
package pathfind

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/malbiruk/artistpath"
)

// Result is the outcome of one find-path query.
type Result struct {
	Path    []artistpath.PathStep
	Found   bool
	Visited int
	Elapsed time.Duration
}

// Search dispatches to the bidirectional BFS or Dijkstra loop named by
// algo and returns its outcome, timing the call and recording Prometheus
// metrics the way shards/shards.go times shard searches. Grounded on
// original's core/src/pathfinding/mod.rs (the algorithm switch in
// find_paths_with_exploration), generalized to the bare find-path
// operation (spec §4.D.1).
func Search(start, target uuid.UUID, algo artistpath.Algorithm, forward, reverse *artistpath.Store, cfg artistpath.Config) Result {
	t0 := time.Now()

	if start == target {
		res := Result{
			Path:    []artistpath.PathStep{{Artist: start, Similarity: 0}},
			Found:   true,
			Visited: 1,
		}
		res.Elapsed = time.Since(t0)
		observe(algo.String(), res.Elapsed.Seconds(), res.Visited)
		return res
	}

	var path []artistpath.PathStep
	var visited int
	switch algo {
	case artistpath.Dijkstra:
		path, visited = dijkstra(start, target, forward, reverse, cfg)
	default:
		path, visited = bfs(start, target, forward, reverse, cfg)
	}

	res := Result{Path: path, Found: path != nil, Visited: visited, Elapsed: time.Since(t0)}
	observe(algo.String(), res.Elapsed.Seconds(), res.Visited)
	return res
}

// Query is one unit of work for RunMany.
type Query struct {
	Start, Target    uuid.UUID
	Algorithm        artistpath.Algorithm
	Forward, Reverse *artistpath.Store
	Config           artistpath.Config
}

// RunMany runs queries concurrently, one per worker slot, capped at
// workers simultaneous searches. Each query only touches its own stack-
// local search state (spec §5: "no shared mutable state is touched by a
// query after startup"); the shared Stores are read-only. Grounded on
// shards/shards.go's loader.load, which bounds concurrent shard loads
// with the same errgroup+semaphore pairing.
func RunMany(ctx context.Context, queries []Query, workers int) []Result {
	results := make([]Result, len(queries))
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	g, ctx := errgroup.WithContext(ctx)

	for i, q := range queries {
		i, q := i, q
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			results[i] = Search(q.Start, q.Target, q.Algorithm, q.Forward, q.Reverse, q.Config)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
