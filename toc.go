package artistpath

// sectionOffsets is the 16-byte header at the start of metadata.bin: four
// u32le byte offsets into the rest of the file, in the fixed order spec
// §6.1 names (lookup, artist_table, forward_index, reverse_index).
// Mirrors the role of zoekt's indexTOC (toc.go), but the on-disk shape
// here is a fixed 4-offset header rather than a self-describing section
// table keyed by a section count: spec §6.1 pins the order exactly, so
// there is nothing to discover at read time the way zoekt's readTOC walks
// a variable section count.
type sectionOffsets struct {
	lookup       uint32
	artistTable  uint32
	forwardIndex uint32
	reverseIndex uint32
}

const tocHeaderSize = 16

func readSectionOffsets(data []byte) (sectionOffsets, error) {
	c := newCursor(data)
	var t sectionOffsets
	var err error
	if t.lookup, err = c.u32(); err != nil {
		return t, errTruncated
	}
	if t.artistTable, err = c.u32(); err != nil {
		return t, errTruncated
	}
	if t.forwardIndex, err = c.u32(); err != nil {
		return t, errTruncated
	}
	if t.reverseIndex, err = c.u32(); err != nil {
		return t, errTruncated
	}
	return t, nil
}
