package artistpath

import (
	"os"
	"runtime"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Store is a read-only, process-lifetime memory map of one graph file
// (graph.bin or rev-graph.bin). It provides O(1) random access to each
// artist's adjacency record without loading the file into the heap.
//
// Grounded on zoekt's mmapedIndexFile (indexfile.go): map once at open,
// serve bounds-checked slices into the mapped region for the rest of the
// process's life, unmap on Close.
type Store struct {
	path    string
	data    mmap.MMap
	index   GraphIndex
	artists *ArtistTable
}

// OpenStore memory-maps the graph file at path for read-only access. The
// returned Store has no index bound yet; call Bind with the forward or
// reverse index parsed from metadata.bin before calling Connections.
func OpenStore(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "artistpath: opening graph file %q", path)
	}
	defer f.Close()

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "artistpath: memory-mapping graph file %q", path)
	}
	return &Store{path: path, data: data}, nil
}

// Bind associates a graph index (parsed from metadata.bin by Load) and the
// artist table with this Store, so that Connections can resolve an artist
// ID to its record offset and pathfind/explore can map an ID to its dense
// ordinal. The forward Store is bound to Metadata.Forward, the reverse
// Store to Metadata.Reverse; both share the same Metadata.Artists.
func (s *Store) Bind(index GraphIndex, artists *ArtistTable) {
	s.index = index
	s.artists = artists
}

// Ordinal returns the dense ordinal assigned to id by the bound artist
// table, if any. pathfind uses this as the key into a roaring.Bitmap
// visited/queued set (SPEC_FULL.md §3).
func (s *Store) Ordinal(id uuid.UUID) (uint32, bool) {
	if s.artists == nil {
		return 0, false
	}
	return s.artists.Ordinal(id)
}

// UUID is the inverse of Ordinal, used during path reconstruction.
func (s *Store) UUID(ordinal uint32) (uuid.UUID, bool) {
	if s.artists == nil {
		return uuid.UUID{}, false
	}
	return s.artists.UUID(ordinal)
}

// Close releases the memory map. Safe to call once; the runtime reclaims
// the mapping on process exit regardless (spec §5 "Shutdown").
func (s *Store) Close() error {
	if s.data == nil {
		return nil
	}
	err := s.data.Unmap()
	s.data = nil
	runtime.KeepAlive(s)
	if err != nil {
		return errors.Wrapf(err, "artistpath: unmapping graph file %q", s.path)
	}
	return nil
}

// tail returns the bytes from off to the end of the mapped region, or
// false if off is past the mapped region. A record's exact length isn't
// known until its count field is read, so the accessor cursors through
// this tail rather than pre-slicing an exact range (spec §4.C: "exactly
// one contiguous read through the mapped region").
func (s *Store) tail(off uint64) ([]byte, bool) {
	if s.data == nil || off > uint64(len(s.data)) {
		return nil, false
	}
	return s.data[off:], true
}
