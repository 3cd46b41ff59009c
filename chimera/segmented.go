package chimera

// SegmentedStream is a ByteStream variant whose stored layout is a chain of
// at-most-255-byte segments, each prefixed by a length byte, terminated by
// a zero-length segment: [len0][bytes0...][len1][bytes1...]...[0]
//
// Advance, Retreat and Peek are not supported by this variant (they are
// no-ops / return 0), since the segment boundaries make random access
// meaningless without re-deriving them.
type SegmentedStream struct {
	raw *ByteStream

	// read side
	rdSegLeft int  // bytes remaining in the segment currently being read
	rdEOS     bool // latched once a zero-length segment is consumed

	// write side
	wrOpen   bool // a write segment is currently open
	wrSegLen byte // bytes written into the open segment so far
	wrLenPos int  // index into raw.Bytes() of the open segment's length byte
}

// NewSegmentedStream wraps raw (which must be empty or positioned at a
// segment boundary) as a SegmentedStream.
func NewSegmentedStream(raw *ByteStream) *SegmentedStream {
	return &SegmentedStream{raw: raw}
}

// Next returns the next data byte, transparently consuming length-prefix
// bytes as segments are exhausted. A zero-length segment latches eos.
func (s *SegmentedStream) Next() byte {
	if s.rdEOS {
		return 0
	}
	for s.rdSegLeft == 0 {
		l := s.raw.Next()
		if s.raw.EOS() {
			s.rdEOS = true
			return 0
		}
		if l == 0 {
			s.rdEOS = true
			return 0
		}
		s.rdSegLeft = int(l)
	}
	b := s.raw.Next()
	s.rdSegLeft--
	return b
}

// Write appends a data byte, opening a new segment as needed and
// auto-closing the current one once it reaches 255 bytes.
func (s *SegmentedStream) Write(b byte) {
	if !s.wrOpen {
		s.wrLenPos = s.raw.Len()
		s.raw.Write(0) // placeholder, patched on close
		s.wrOpen = true
		s.wrSegLen = 0
	}
	s.raw.Write(b)
	s.wrSegLen++
	if s.wrSegLen == 255 {
		s.patchLen(255)
		s.wrOpen = false
	}
}

func (s *SegmentedStream) patchLen(n byte) {
	buf := s.raw.buf
	if s.wrLenPos < len(buf) {
		buf[s.wrLenPos] = n
	}
}

// Flush patches the last open segment's length byte with the actual count
// and appends the terminating zero-length segment marker.
func (s *SegmentedStream) Flush() {
	if s.wrOpen {
		s.patchLen(s.wrSegLen)
		s.wrOpen = false
	}
	s.raw.Write(0)
	s.raw.Flush()
}

// Advance is unsupported for SegmentedStream; it is a no-op.
func (s *SegmentedStream) Advance(n int) {}

// Retreat is unsupported for SegmentedStream; it is a no-op.
func (s *SegmentedStream) Retreat(n int) {}

// Peek is unsupported for SegmentedStream; it always returns 0.
func (s *SegmentedStream) Peek(offset int) byte { return 0 }

// EOS reports whether the segmented read side has latched end-of-stream
// (consumed a zero-length segment, or run out of backing bytes).
func (s *SegmentedStream) EOS() bool { return s.rdEOS || s.raw.EOS() }

// Bytes returns the encoded (segment-framed) buffer.
func (s *SegmentedStream) Bytes() []byte { return s.raw.Bytes() }

// BytesRead returns the number of framed bytes consumed from the backing
// stream (including length-prefix bytes).
func (s *SegmentedStream) BytesRead() int { return s.raw.BytesRead() }

// BytesWritten returns the number of framed bytes appended to the backing
// stream (including length-prefix bytes).
func (s *SegmentedStream) BytesWritten() int { return s.raw.BytesWritten() }
