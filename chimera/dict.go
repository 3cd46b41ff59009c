package chimera

import "fmt"

// dictPageSize is the growth page size for both the entry table and its
// rank queue.
const dictPageSize = 1024

// dictEntry records a previously emitted string available for reference:
// the byte offset into the reconstructable output history and its length.
// Hit counts live in the codec's shared rankQueue rather than being
// duplicated per entry.
type dictEntry struct {
	offset int
	length byte
}

// dictCodec maintains a table of previously emitted strings and an
// adaptive rank-based prefix code over entry ids.
type dictCodec struct {
	entries []dictEntry
	pq      *rankQueue
}

func newDictCodec() *dictCodec {
	return &dictCodec{pq: newRankQueue(0)}
}

// DictBits is ceil(log2(entries)), minimum 1.
func (d *dictCodec) DictBits() uint {
	n := ceilLog2(len(d.entries))
	if n < 1 {
		n = 1
	}
	return n
}

func ceilLog2(n int) uint {
	if n <= 1 {
		return 0
	}
	var bits uint
	for v := 1; v < n; v <<= 1 {
		bits++
	}
	return bits
}

// Add registers a newly emitted span as a dictionary entry and returns its
// id.
func (d *dictCodec) Add(offset int, length byte) int {
	id := len(d.entries)
	d.entries = append(d.entries, dictEntry{offset: offset, length: length})
	for d.pq.Len() <= id {
		d.pq.Grow(dictPageSize)
	}
	return id
}

// Entry returns the offset/length of id.
func (d *dictCodec) Entry(id int) (offset int, length byte) {
	e := d.entries[id]
	return e.offset, e.length
}

// FindLongestMatch linear-scans entries whose first byte matches chunk[0]
// and whose length fits within len(chunk), verifies the full byte-for-byte
// match against history, and returns the id/length of the longest hit,
// ties broken by earliest id.
func (d *dictCodec) FindLongestMatch(chunk, history []byte) (id int, length int) {
	id, length = -1, 0
	if len(chunk) == 0 {
		return id, length
	}
	for i, e := range d.entries {
		if int(e.length) == 0 || int(e.length) > len(chunk) {
			continue
		}
		if e.offset < 0 || e.offset+int(e.length) > len(history) {
			continue
		}
		if history[e.offset] != chunk[0] {
			continue
		}
		match := true
		for j := 0; j < int(e.length); j++ {
			if history[e.offset+j] != chunk[j] {
				match = false
				break
			}
		}
		if match && int(e.length) > length {
			id, length = i, int(e.length)
		}
	}
	return id, length
}

// EncodeRank writes id's rank under the current DictBits-sized encoding
// scheme, then bubbles id's hit count.
func (d *dictCodec) EncodeRank(bs *MSBBitStream, id int) {
	bits := d.DictBits()
	rank := uint32(d.pq.RankOf(id))
	if bits < 11 {
		bs.Write(rank, bits)
	} else if rank < 512 {
		bs.Write(0, 1)
		bs.Write(rank, 9)
	} else {
		bs.Write(1, 1)
		bs.Write(rank, bits)
	}
	d.pq.Hit(id)
}

// DebugString renders the entry count and rank queue order.
func (d *dictCodec) DebugString() string {
	return fmt.Sprintf("dictCodec{entries: %d, %s}", len(d.entries), d.pq.DebugString())
}

// DecodeRank reads a rank under the current DictBits-sized encoding scheme
// and returns the entry id it names.
func (d *dictCodec) DecodeRank(bs *MSBBitStream) int {
	bits := d.DictBits()
	var rank int
	if bits < 11 {
		rank = int(bs.Next(bits))
	} else if bs.Next(1) == 0 {
		rank = int(bs.Next(9))
	} else {
		rank = int(bs.Next(bits))
	}
	id := d.pq.IDAtRank(rank)
	d.pq.Hit(id)
	return id
}
