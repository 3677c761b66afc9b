package artistpath

import (
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/malbiruk/artistpath/normalize"
)

// Artist is an immutable record from the unified metadata file's artist
// table (spec §3).
type Artist struct {
	Name string
	URL  string
}

// ArtistTable maps artist UUID to (name, url) and assigns each artist a
// dense ordinal in on-disk order. The ordinal lets pathfind use compact
// roaring-bitmap visited/queued sets instead of UUID-keyed hash sets
// (SPEC_FULL.md §3).
type ArtistTable struct {
	byID    map[uuid.UUID]Artist
	ordinal map[uuid.UUID]uint32
	byOrd   []uuid.UUID
}

// Get returns the artist record for id, if present.
func (t *ArtistTable) Get(id uuid.UUID) (Artist, bool) {
	a, ok := t.byID[id]
	return a, ok
}

// Contains reports whether id appears in the artist table.
func (t *ArtistTable) Contains(id uuid.UUID) bool {
	_, ok := t.byID[id]
	return ok
}

// Ordinal returns the dense integer assigned to id, if present.
func (t *ArtistTable) Ordinal(id uuid.UUID) (uint32, bool) {
	o, ok := t.ordinal[id]
	return o, ok
}

// Len returns the number of artists in the table.
func (t *ArtistTable) Len() int {
	return len(t.byID)
}

// UUID is the inverse of Ordinal: it returns the artist ID assigned to a
// dense ordinal, if in range. Used to translate a roaring-bitmap member or
// a parent-map key back into an artist ID during path reconstruction.
func (t *ArtistTable) UUID(ordinal uint32) (uuid.UUID, bool) {
	if int(ordinal) >= len(t.byOrd) {
		return uuid.UUID{}, false
	}
	return t.byOrd[ordinal], true
}

// GraphIndex maps artist UUID to its byte offset in a forward or reverse
// graph file.
type GraphIndex map[uuid.UUID]uint64

// NameLookup maps a normalized name to the artist IDs it resolves to, in
// on-disk order (spec §3: "first entry is the disambiguation default").
type NameLookup map[string][]uuid.UUID

// Metadata is the fully parsed contents of metadata.bin.
type Metadata struct {
	Lookup  NameLookup
	Artists *ArtistTable
	Forward GraphIndex
	Reverse GraphIndex
}

// Load reads and validates metadata.bin (spec §4.B). Any I/O error or
// invariant violation (bad header offset, truncated record, invalid
// UTF-8) is returned wrapped with context; the caller treats this as
// fatal to process startup (spec §7 "Load-time invariant violation").
func Load(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "artistpath: reading metadata file %q", path)
	}
	if len(data) < tocHeaderSize {
		return nil, errors.Wrapf(errTruncated, "artistpath: metadata file %q shorter than header", path)
	}

	toc, err := readSectionOffsets(data)
	if err != nil {
		return nil, errors.Wrapf(err, "artistpath: reading metadata header in %q", path)
	}

	lookup, err := parseNameLookup(data, toc.lookup)
	if err != nil {
		return nil, errors.Wrapf(err, "artistpath: parsing name lookup section in %q", path)
	}
	artists, err := parseArtistTable(data, toc.artistTable)
	if err != nil {
		return nil, errors.Wrapf(err, "artistpath: parsing artist table section in %q", path)
	}
	forward, err := parseGraphIndex(data, toc.forwardIndex)
	if err != nil {
		return nil, errors.Wrapf(err, "artistpath: parsing forward index section in %q", path)
	}
	reverse, err := parseGraphIndex(data, toc.reverseIndex)
	if err != nil {
		return nil, errors.Wrapf(err, "artistpath: parsing reverse index section in %q", path)
	}

	return &Metadata{Lookup: lookup, Artists: artists, Forward: forward, Reverse: reverse}, nil
}

func parseNameLookup(data []byte, offset uint32) (NameLookup, error) {
	if int(offset) > len(data) {
		return nil, errTruncated
	}
	c := newCursor(data[offset:])
	count, err := c.u32()
	if err != nil {
		return nil, err
	}
	lookup := make(NameLookup, count)
	for i := uint32(0); i < count; i++ {
		name, err := c.str()
		if err != nil {
			return nil, err
		}
		idCount, err := c.u16()
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, idCount)
		for j := range ids {
			id, err := c.uuid()
			if err != nil {
				return nil, err
			}
			ids[j] = id
		}
		lookup[name] = ids
	}
	return lookup, nil
}

func parseArtistTable(data []byte, offset uint32) (*ArtistTable, error) {
	if int(offset) > len(data) {
		return nil, errTruncated
	}
	c := newCursor(data[offset:])
	count, err := c.u32()
	if err != nil {
		return nil, err
	}
	t := &ArtistTable{
		byID:    make(map[uuid.UUID]Artist, count),
		ordinal: make(map[uuid.UUID]uint32, count),
		byOrd:   make([]uuid.UUID, 0, count),
	}
	for i := uint32(0); i < count; i++ {
		id, err := c.uuid()
		if err != nil {
			return nil, err
		}
		name, err := c.str()
		if err != nil {
			return nil, err
		}
		url, err := c.str()
		if err != nil {
			return nil, err
		}
		t.byID[id] = Artist{Name: name, URL: url}
		t.ordinal[id] = i
		t.byOrd = append(t.byOrd, id)
	}
	return t, nil
}

func parseGraphIndex(data []byte, offset uint32) (GraphIndex, error) {
	if int(offset) > len(data) {
		return nil, errTruncated
	}
	c := newCursor(data[offset:])
	count, err := c.u32()
	if err != nil {
		return nil, err
	}
	idx := make(GraphIndex, count)
	for i := uint32(0); i < count; i++ {
		id, err := c.uuid()
		if err != nil {
			return nil, err
		}
		pos, err := c.u64()
		if err != nil {
			return nil, err
		}
		idx[id] = pos
	}
	return idx, nil
}

// Resolve looks up an artist by display name, applying the same
// normalization used when the lookup table was built (spec §4.B).
//
// Steps: normalize, look up the key, and disambiguate among homonyms by
// preferring the stored display name whose lowercased form matches the
// original query; otherwise fall back to the first (on-disk) entry.
func (m *Metadata) Resolve(query string) (uuid.UUID, bool) {
	key := normalize.Name(query)
	ids, ok := m.Lookup[key]
	if !ok || len(ids) == 0 {
		return uuid.UUID{}, false
	}
	if len(ids) == 1 {
		return ids[0], true
	}

	want := strings.ToLower(query)
	for _, id := range ids {
		if artist, ok := m.Artists.Get(id); ok && strings.ToLower(artist.Name) == want {
			return id, true
		}
	}
	return ids[0], true
}
