// Command artistpath-bench loads a metadata/graph/rev-graph triple and
// runs one find-path, find-path-with-context, and explore query against
// it, printing elapsed time and visited counts. It supplants the
// original's core/examples/benchmark_pathfinding.rs and
// core/src/benchmark.rs without reimplementing any of the CLI/JSON/HTTP/
// color/download layers spec.md places out of scope — nine flags and
// direct package calls, the same minimal shape cmd/zoekt-test uses.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/malbiruk/artistpath"
	"github.com/malbiruk/artistpath/explore"
	"github.com/malbiruk/artistpath/internal/zlog"
	"github.com/malbiruk/artistpath/pathfind"
)

func main() {
	metadataPath := flag.String("metadata", "metadata.bin", "path to the unified metadata file")
	forwardPath := flag.String("graph", "graph.bin", "path to the forward adjacency file")
	reversePath := flag.String("rev-graph", "rev-graph.bin", "path to the reverse adjacency file")
	from := flag.String("from", "", "source artist name")
	to := flag.String("to", "", "target artist name")
	algo := flag.String("algorithm", "bfs", "bfs or dijkstra")
	budget := flag.Int("budget", 100, "node budget for explore and find-path-with-context")
	topRelated := flag.Int("top-related", 80, "per-source edge cap after filtering")
	minMatch := flag.Float64("min-match", 0.0, "drop edges below this similarity")
	flag.Parse()

	if *from == "" || *to == "" {
		fmt.Fprintln(os.Stderr, "usage: artistpath-bench -from NAME -to NAME [flags]")
		os.Exit(2)
	}

	sync := zlog.Init()
	defer sync() //nolint:errcheck

	runID := xid.New().String()
	logger := zlog.Get().With(zap.String("run_id", runID))

	var algorithm artistpath.Algorithm
	if err := algorithm.UnmarshalText([]byte(*algo)); err != nil {
		logger.Warn("unrecognized algorithm, coercing to bfs", zap.String("input", *algo))
	}

	cfg := artistpath.Config{MinMatch: float32(*minMatch), TopRelated: *topRelated}

	t0 := time.Now()
	meta, err := artistpath.Load(*metadataPath)
	if err != nil {
		log.Fatalf("loading metadata: %v", err)
	}
	forward, err := artistpath.OpenStore(*forwardPath)
	if err != nil {
		log.Fatalf("opening forward graph: %v", err)
	}
	defer forward.Close()
	forward.Bind(meta.Forward, meta.Artists)

	reverse, err := artistpath.OpenStore(*reversePath)
	if err != nil {
		log.Fatalf("opening reverse graph: %v", err)
	}
	defer reverse.Close()
	reverse.Bind(meta.Reverse, meta.Artists)

	logger.Info("loaded graph store",
		zap.Int("artists", meta.Artists.Len()),
		zap.Duration("elapsed", time.Since(t0)))

	fromID, ok := meta.Resolve(*from)
	if !ok {
		log.Fatalf("artist not found: %q", *from)
	}
	toID, ok := meta.Resolve(*to)
	if !ok {
		log.Fatalf("artist not found: %q", *to)
	}

	pathResult := pathfind.Search(fromID, toID, algorithm, forward, reverse, cfg)
	printPathResult(*from, *to, algorithm, pathResult)

	ctxResult := explore.PathWithContext(fromID, toID, algorithm, *budget, forward, reverse, cfg)
	printContextResult(ctxResult)

	egoResult := explore.BFS(fromID, *budget, *topRelated, float32(*minMatch), forward)
	if algorithm == artistpath.Dijkstra {
		egoResult = explore.Dijkstra(fromID, *budget, *topRelated, float32(*minMatch), forward)
	}
	printEgoResult(*from, egoResult)
}

func printPathResult(from, to string, algo artistpath.Algorithm, r pathfind.Result) {
	if !r.Found {
		fmt.Printf("find-path(%s, %s, %s): no path, visited %s artists in %s\n",
			from, to, algo, humanize.Comma(int64(r.Visited)), r.Elapsed)
		return
	}
	fmt.Printf("find-path(%s, %s, %s): %d hops, visited %s artists in %s\n",
		from, to, algo, len(r.Path)-1, humanize.Comma(int64(r.Visited)), r.Elapsed)
}

func printContextResult(r explore.Result) {
	switch r.Status {
	case explore.StatusNoPath:
		fmt.Println("find-path-with-context: no path")
	case explore.StatusPathTooLong:
		fmt.Printf("find-path-with-context: path too long, needs budget >= %d\n", r.MinimumBudgetNeeded)
	default:
		fmt.Printf("find-path-with-context: %s discovered artists, %s edges, in %s\n",
			humanize.Comma(int64(len(r.Discovered))), humanize.Comma(int64(len(r.Edges))), r.Elapsed)
	}
}

func printEgoResult(center string, g explore.EgoGraph) {
	fmt.Printf("explore(%s): %s discovered, %s visited, in %s\n",
		center, humanize.Comma(int64(len(g.Discovered))), humanize.Comma(int64(g.Visited)), g.Elapsed)
}
