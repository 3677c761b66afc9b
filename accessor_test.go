package artistpath

import (
	"testing"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// graphFixture builds a forward-graph.bin image in memory for one artist
// and its edges, mirroring spec §3's record layout.
func graphFixture(id uuid.UUID, edges []Edge) []byte {
	var buf []byte
	putUUID(&buf, id)
	putU32(&buf, uint32(len(edges)))
	for _, e := range edges {
		putUUID(&buf, e.To)
		putF32(&buf, e.Similarity)
	}
	return buf
}

func storeFromBytes(data []byte, index GraphIndex) *Store {
	s := &Store{data: mmap.MMap(data)}
	s.Bind(index, nil)
	return s
}

func TestConnectionsDecodesRecord(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()

	data := graphFixture(alice, []Edge{
		{To: bob, Similarity: 0.9},
		{To: carol, Similarity: 0.5},
	})
	s := storeFromBytes(data, GraphIndex{alice: 0})

	got := s.Connections(alice, DefaultConfig())
	require.Len(t, got, 2)
	require.Equal(t, bob, got[0].To)
	require.Equal(t, carol, got[1].To)
}

func TestConnectionsUnknownArtist(t *testing.T) {
	alice := uuid.New()
	data := graphFixture(alice, nil)
	s := storeFromBytes(data, GraphIndex{})

	require.Empty(t, s.Connections(uuid.New(), DefaultConfig()))
}

func TestConnectionsOffsetPastEnd(t *testing.T) {
	alice := uuid.New()
	data := graphFixture(alice, nil)
	s := storeFromBytes(data, GraphIndex{alice: uint64(len(data) + 10)})

	require.Empty(t, s.Connections(alice, DefaultConfig()))
}

func TestConnectionsUUIDMismatch(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	data := graphFixture(alice, nil)
	// Index claims this offset belongs to bob, but the stored record is alice's.
	s := storeFromBytes(data, GraphIndex{bob: 0})

	require.Empty(t, s.Connections(bob, DefaultConfig()))
}

func TestConnectionsFilterMonotonicity(t *testing.T) {
	alice := uuid.New()
	edges := []Edge{
		{To: uuid.New(), Similarity: 0.9},
		{To: uuid.New(), Similarity: 0.5},
		{To: uuid.New(), Similarity: 0.2},
	}
	data := graphFixture(alice, edges)
	s := storeFromBytes(data, GraphIndex{alice: 0})

	loose := s.Connections(alice, Config{MinMatch: 0.3, TopRelated: 80})
	strict := s.Connections(alice, Config{MinMatch: 0.6, TopRelated: 80})

	strictSet := make(map[uuid.UUID]bool)
	for _, e := range strict {
		strictSet[e.To] = true
	}
	looseSet := make(map[uuid.UUID]bool)
	for _, e := range loose {
		looseSet[e.To] = true
	}
	for id := range strictSet {
		require.True(t, looseSet[id], "strict result must be a subset of loose result")
	}

	for i := 1; i < len(loose); i++ {
		require.GreaterOrEqual(t, loose[i-1].Similarity, loose[i].Similarity)
	}
}

func TestConnectionsTruncatesToTopRelated(t *testing.T) {
	alice := uuid.New()
	edges := []Edge{
		{To: uuid.New(), Similarity: 0.9},
		{To: uuid.New(), Similarity: 0.8},
		{To: uuid.New(), Similarity: 0.7},
	}
	data := graphFixture(alice, edges)
	s := storeFromBytes(data, GraphIndex{alice: 0})

	got := s.Connections(alice, Config{MinMatch: 0, TopRelated: 2})
	require.Len(t, got, 2)
}

func TestConnectionsStability(t *testing.T) {
	alice := uuid.New()
	edges := []Edge{
		{To: uuid.New(), Similarity: 0.5},
		{To: uuid.New(), Similarity: 0.5},
	}
	data := graphFixture(alice, edges)
	s := storeFromBytes(data, GraphIndex{alice: 0})

	first := s.Connections(alice, DefaultConfig())
	second := s.Connections(alice, DefaultConfig())
	require.Equal(t, first, second)
}
