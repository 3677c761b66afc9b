package pathfind_test

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/malbiruk/artistpath"
	"github.com/malbiruk/artistpath/pathfind"
)

// testEdge is a directed similarity edge used to build fixture graphs.
type testEdge struct {
	from, to   uuid.UUID
	similarity float32
}

func putU16(buf *[]byte, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	*buf = append(*buf, b[:]...)
}
func putU32(buf *[]byte, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	*buf = append(*buf, b[:]...)
}
func putU64(buf *[]byte, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	*buf = append(*buf, b[:]...)
}
func putF32(buf *[]byte, v float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	*buf = append(*buf, b[:]...)
}
func putStr(buf *[]byte, s string) {
	putU16(buf, uint16(len(s)))
	*buf = append(*buf, s...)
}
func putUUID(buf *[]byte, id uuid.UUID) {
	*buf = append(*buf, id[:]...)
}

// buildGraph builds a directed adjacency list from edges, grouped by source.
func buildGraph(ids []uuid.UUID, edges []testEdge) map[uuid.UUID][]testEdge {
	g := make(map[uuid.UUID][]testEdge)
	for _, id := range ids {
		g[id] = nil
	}
	for _, e := range edges {
		g[e.from] = append(g[e.from], e)
	}
	return g
}

// encodeGraphFile serializes one direction's adjacency records and returns
// the bytes plus the per-artist byte offset index.
func encodeGraphFile(ids []uuid.UUID, adjacency map[uuid.UUID][]testEdge) ([]byte, map[uuid.UUID]uint64) {
	var buf []byte
	offsets := make(map[uuid.UUID]uint64, len(ids))
	for _, id := range ids {
		offsets[id] = uint64(len(buf))
		putUUID(&buf, id)
		edges := adjacency[id]
		putU32(&buf, uint32(len(edges)))
		for _, e := range edges {
			putUUID(&buf, e.to)
			putF32(&buf, e.similarity)
		}
	}
	return buf, offsets
}

// fixture holds the opened, bound forward/reverse stores plus the parsed
// metadata (for name-to-id lookups in tests) that buildFixture returns
// after writing metadata.bin/graph.bin/rev-graph.bin for a small directed,
// weighted graph.
type fixture struct {
	meta     *artistpath.Metadata
	forward  *artistpath.Store
	reverse  *artistpath.Store
}

func buildFixture(t *testing.T, ids []uuid.UUID, names map[uuid.UUID]string, edges []testEdge) *fixture {
	t.Helper()
	dir := t.TempDir()

	fwdAdj := buildGraph(ids, edges)
	var revEdges []testEdge
	for _, e := range edges {
		revEdges = append(revEdges, testEdge{from: e.to, to: e.from, similarity: e.similarity})
	}
	revAdj := buildGraph(ids, revEdges)

	fwdBytes, fwdOffsets := encodeGraphFile(ids, fwdAdj)
	revBytes, revOffsets := encodeGraphFile(ids, revAdj)

	var lookupSec, artistSec, forwardSec, reverseSec []byte
	putU32(&lookupSec, uint32(len(ids)))
	for _, id := range ids {
		putStr(&lookupSec, names[id])
		putU16(&lookupSec, 1)
		putUUID(&lookupSec, id)
	}
	putU32(&artistSec, uint32(len(ids)))
	for _, id := range ids {
		putUUID(&artistSec, id)
		putStr(&artistSec, names[id])
		putStr(&artistSec, "https://example.com/"+names[id])
	}
	putU32(&forwardSec, uint32(len(ids)))
	for _, id := range ids {
		putUUID(&forwardSec, id)
		putU64(&forwardSec, fwdOffsets[id])
	}
	putU32(&reverseSec, uint32(len(ids)))
	for _, id := range ids {
		putUUID(&reverseSec, id)
		putU64(&reverseSec, revOffsets[id])
	}

	var header []byte
	off := uint32(16)
	putU32(&header, off)
	off += uint32(len(lookupSec))
	putU32(&header, off)
	off += uint32(len(artistSec))
	putU32(&header, off)
	off += uint32(len(forwardSec))
	putU32(&header, off)

	metaBytes := append([]byte{}, header...)
	metaBytes = append(metaBytes, lookupSec...)
	metaBytes = append(metaBytes, artistSec...)
	metaBytes = append(metaBytes, forwardSec...)
	metaBytes = append(metaBytes, reverseSec...)

	metaPath := filepath.Join(dir, "metadata.bin")
	fwdPath := filepath.Join(dir, "graph.bin")
	revPath := filepath.Join(dir, "rev-graph.bin")
	require.NoError(t, os.WriteFile(metaPath, metaBytes, 0o644))
	require.NoError(t, os.WriteFile(fwdPath, fwdBytes, 0o644))
	require.NoError(t, os.WriteFile(revPath, revBytes, 0o644))

	meta, err := artistpath.Load(metaPath)
	require.NoError(t, err)

	fwdStore, err := artistpath.OpenStore(fwdPath)
	require.NoError(t, err)
	fwdStore.Bind(meta.Forward, meta.Artists)

	revStore, err := artistpath.OpenStore(revPath)
	require.NoError(t, err)
	revStore.Bind(meta.Reverse, meta.Artists)

	return &fixture{meta: meta, forward: fwdStore, reverse: revStore}
}

func newID() uuid.UUID { return uuid.New() }

// TestBFSDirect covers scenario S1: Alice<->Bob, similarity 0.8.
func TestBFSDirect(t *testing.T) {
	alice, bob := newID(), newID()
	fx := buildFixture(t, []uuid.UUID{alice, bob},
		map[uuid.UUID]string{alice: "alice", bob: "bob"},
		[]testEdge{{alice, bob, 0.8}})

	res := pathfind.Search(alice, bob, artistpath.Bfs, fx.forward, fx.reverse, artistpath.DefaultConfig())
	require.True(t, res.Found)
	require.Equal(t, []artistpath.PathStep{
		{Artist: alice, Similarity: 0},
		{Artist: bob, Similarity: 0.8},
	}, res.Path)
	require.GreaterOrEqual(t, res.Visited, 2)
}

// TestBFSFilterBlocks covers scenario S2.
func TestBFSFilterBlocks(t *testing.T) {
	alice, bob := newID(), newID()
	fx := buildFixture(t, []uuid.UUID{alice, bob},
		map[uuid.UUID]string{alice: "alice", bob: "bob"},
		[]testEdge{{alice, bob, 0.8}})

	cfg := artistpath.Config{MinMatch: 0.9, TopRelated: 80}
	res := pathfind.Search(alice, bob, artistpath.Bfs, fx.forward, fx.reverse, cfg)
	require.False(t, res.Found)
	require.Nil(t, res.Path)
}

// TestBFSThreeHop covers scenario S3.
func TestBFSThreeHop(t *testing.T) {
	a, b, c, d, e := newID(), newID(), newID(), newID(), newID()
	names := map[uuid.UUID]string{a: "a", b: "b", c: "c", d: "d", e: "e"}
	fx := buildFixture(t, []uuid.UUID{a, b, c, d, e}, names, []testEdge{
		{a, b, 0.9},
		{b, c, 0.8},
		{b, e, 0.6},
		{a, d, 0.7},
		{c, b, 0.8},
	})

	res := pathfind.Search(a, c, artistpath.Bfs, fx.forward, fx.reverse, artistpath.DefaultConfig())
	require.True(t, res.Found)
	require.Len(t, res.Path, 3)
	require.Equal(t, a, res.Path[0].Artist)
	require.Equal(t, c, res.Path[len(res.Path)-1].Artist)
}

// TestDijkstraPrefersSimilarity covers scenario S4.
func TestDijkstraPrefersSimilarity(t *testing.T) {
	a, b, c, d := newID(), newID(), newID(), newID()
	names := map[uuid.UUID]string{a: "a", b: "b", c: "c", d: "d"}
	fx := buildFixture(t, []uuid.UUID{a, b, c, d}, names, []testEdge{
		{a, b, 0.5},
		{a, c, 0.9},
		{b, d, 0.8},
		{c, d, 0.7},
	})

	res := pathfind.Search(a, d, artistpath.Dijkstra, fx.forward, fx.reverse, artistpath.DefaultConfig())
	require.True(t, res.Found)
	var ids []uuid.UUID
	for _, s := range res.Path {
		ids = append(ids, s.Artist)
	}
	require.Equal(t, []uuid.UUID{a, c, d}, ids)
}

func TestTerminationOnDisconnectedPair(t *testing.T) {
	a, b := newID(), newID()
	fx := buildFixture(t, []uuid.UUID{a, b}, map[uuid.UUID]string{a: "a", b: "b"}, nil)

	res := pathfind.Search(a, b, artistpath.Bfs, fx.forward, fx.reverse, artistpath.DefaultConfig())
	require.False(t, res.Found)

	res = pathfind.Search(a, b, artistpath.Dijkstra, fx.forward, fx.reverse, artistpath.DefaultConfig())
	require.False(t, res.Found)
}

func TestSameStartAndTarget(t *testing.T) {
	a := newID()
	fx := buildFixture(t, []uuid.UUID{a}, map[uuid.UUID]string{a: "a"}, nil)

	res := pathfind.Search(a, a, artistpath.Bfs, fx.forward, fx.reverse, artistpath.DefaultConfig())
	require.True(t, res.Found)
	require.Equal(t, []artistpath.PathStep{{Artist: a, Similarity: 0}}, res.Path)
}

func TestPathReconstructionIsIdempotent(t *testing.T) {
	a, b, c := newID(), newID(), newID()
	names := map[uuid.UUID]string{a: "a", b: "b", c: "c"}
	fx := buildFixture(t, []uuid.UUID{a, b, c}, names, []testEdge{
		{a, b, 0.7}, {b, c, 0.6},
	})

	r1 := pathfind.Search(a, c, artistpath.Bfs, fx.forward, fx.reverse, artistpath.DefaultConfig())
	r2 := pathfind.Search(a, c, artistpath.Bfs, fx.forward, fx.reverse, artistpath.DefaultConfig())
	require.Equal(t, r1.Path, r2.Path)
}

func TestRunManyRunsAllQueries(t *testing.T) {
	a, b, c := newID(), newID(), newID()
	names := map[uuid.UUID]string{a: "a", b: "b", c: "c"}
	fx := buildFixture(t, []uuid.UUID{a, b, c}, names, []testEdge{
		{a, b, 0.7}, {b, c, 0.6},
	})

	queries := []pathfind.Query{
		{Start: a, Target: c, Algorithm: artistpath.Bfs, Forward: fx.forward, Reverse: fx.reverse, Config: artistpath.DefaultConfig()},
		{Start: a, Target: b, Algorithm: artistpath.Dijkstra, Forward: fx.forward, Reverse: fx.reverse, Config: artistpath.DefaultConfig()},
	}
	results := pathfind.RunMany(context.Background(), queries, 2)
	require.Len(t, results, 2)
	require.True(t, results[0].Found)
	require.True(t, results[1].Found)
}
