package chimera

// ByteStream virtualises an in-memory buffer as a forward, rewindable
// 8-bit stream. It tracks the number of bytes read and written and extends
// the backing buffer on demand when it is growable.
//
// All operations are total: errors surface only as the eos flag and
// best-effort truncation, never as a Go error value, matching the source
// toolkit's "no exceptions" policy.
//
// A ByteStream is not safe for concurrent use.
type ByteStream struct {
	buf    []byte
	owned  bool // true if this stream must release buf
	grow   int  // growth increment; 0 means non-extensible
	rd, wr int  // read and write cursors
	eos    bool
}

// NewByteStream returns an empty, self-owned, growable ByteStream. Its
// buffer grows by grow bytes whenever a write would otherwise overflow it;
// grow <= 0 selects a sane default.
func NewByteStream(grow int) *ByteStream {
	if grow <= 0 {
		grow = 4096
	}
	return &ByteStream{owned: true, grow: grow}
}

// NewByteStreamForRead wraps buf as a read-only, borrowed, non-extensible
// stream. The caller retains ownership of buf.
func NewByteStreamForRead(buf []byte) *ByteStream {
	return &ByteStream{buf: buf, wr: len(buf)}
}

// NewByteStreamForWrite returns a self-owned stream sized for writing. If
// grow is 0, the stream is fixed at the given capacity; otherwise it grows
// by grow bytes per expansion.
func NewByteStreamForWrite(capacity, grow int) *ByteStream {
	return &ByteStream{buf: make([]byte, capacity), owned: true, grow: grow}
}

// Len returns the number of bytes currently stored in the stream.
func (s *ByteStream) Len() int { return s.wr }

// BytesRead reports the number of bytes consumed by Next/advance so far.
func (s *ByteStream) BytesRead() int { return s.rd }

// BytesWritten reports the number of bytes appended by Write so far.
func (s *ByteStream) BytesWritten() int { return s.wr }

// EOS reports whether the end-of-stream flag is latched.
func (s *ByteStream) EOS() bool { return s.eos }

// Bytes returns the live (written) portion of the backing buffer. The
// slice aliases the stream's storage and must not be retained across a
// subsequent Write that may reallocate it.
func (s *ByteStream) Bytes() []byte { return s.buf[:s.wr] }

// Next returns the next byte and advances the read cursor. It returns 0
// and latches eos once the read cursor reaches the end of the written
// region.
func (s *ByteStream) Next() byte {
	if s.rd >= s.wr {
		s.eos = true
		return 0
	}
	b := s.buf[s.rd]
	s.rd++
	return b
}

// Write appends b to the stream. If the buffer is full and growable, it
// grows by the configured increment; if full and non-growable, eos is
// latched and the byte is dropped.
func (s *ByteStream) Write(b byte) {
	if s.wr >= len(s.buf) {
		if s.grow <= 0 {
			s.eos = true
			return
		}
		ns := make([]byte, len(s.buf)+s.grow)
		copy(ns, s.buf)
		s.buf = ns
		s.owned = true
	}
	s.buf[s.wr] = b
	s.wr++
}

// Advance relocates the read cursor forward by n bytes, latching eos if it
// reaches or passes the end of the written region.
func (s *ByteStream) Advance(n int) {
	s.rd += n
	if s.rd >= s.wr {
		s.rd = s.wr
		s.eos = true
	}
}

// Retreat relocates the read cursor back by n bytes and clears eos.
func (s *ByteStream) Retreat(n int) {
	s.rd -= n
	if s.rd < 0 {
		s.rd = 0
	}
	s.eos = false
}

// Peek returns the byte at read+offset without moving the cursor, or 0 if
// that position is past the written region.
func (s *ByteStream) Peek(offset int) byte {
	i := s.rd + offset
	if i < 0 || i >= s.wr {
		return 0
	}
	return s.buf[i]
}

// Flush is a default no-op, overridden by stream variants that need to
// finalize pending state.
func (s *ByteStream) Flush() {}

// AcquireBuffer transfers buffer ownership out of the stream and disables
// its own release of that buffer. It returns the live (written) slice.
func (s *ByteStream) AcquireBuffer() []byte {
	s.owned = false
	return s.buf[:s.wr]
}

// PreReadWindow returns the already-consumed window starting desired bytes
// back from the read cursor, clamped to the buffer start. This is the
// window LZ77 search uses to look for back-references.
func (s *ByteStream) PreReadWindow(desired int) []byte {
	start := s.rd - desired
	if start < 0 {
		start = 0
	}
	return s.buf[start:s.rd]
}

// Release drops the stream's reference to its buffer if the stream owns
// it. It is not required (Go's GC reclaims memory regardless) but mirrors
// the source toolkit's exactly-once ownership release for readers
// translating the design by hand.
func (s *ByteStream) Release() {
	if s.owned {
		s.buf = nil
	}
}
