package chimera

// StuffedStream is a ByteStream variant that honours a byte-stuffing rule:
// a 0xFF byte in the encoded stream is followed by a 0x00 stuffer byte; any
// 0xFF not followed by 0x00 signals end-of-stream.
//
// It additionally recognises and skips a two-byte restart marker sequence,
// 0xFF followed by a byte whose top five bits are 11010 (i.e.
// (b & 0xF8) == 0xD0), rather than treating it as end-of-stream.
type StuffedStream struct {
	raw *ByteStream
	eos bool
}

// NewStuffedStream wraps raw as a StuffedStream.
func NewStuffedStream(raw *ByteStream) *StuffedStream {
	return &StuffedStream{raw: raw}
}

const (
	stuffByte   = 0xFF
	restartMask = 0xF8
	restartTag  = 0xD0
)

// Next returns the next de-stuffed byte. A 0xFF followed by anything other
// than a 0x00 stuffer or a restart-marker tag byte latches eos.
func (s *StuffedStream) Next() byte {
	if s.eos {
		return 0
	}
	b := s.raw.Next()
	if s.raw.EOS() {
		s.eos = true
		return 0
	}
	if b != stuffByte {
		return b
	}
	n := s.raw.Peek(0)
	switch {
	case n == 0x00:
		s.raw.Next() // consume the stuffer without latching eos early
		return stuffByte
	case n&restartMask == restartTag:
		s.raw.Advance(1)
		return s.Next() // restart marker consumed; continue transparently
	default:
		s.eos = true
		return 0
	}
}

// Write appends b, emitting an implicit 0x00 stuffer byte whenever b is
// 0xFF.
func (s *StuffedStream) Write(b byte) {
	s.raw.Write(b)
	if b == stuffByte {
		s.raw.Write(0x00)
	}
}

// Advance, Retreat and Peek operate on the raw (stuffed) byte positions;
// StuffedStream has no additional bookkeeping beyond the backing stream.
func (s *StuffedStream) Advance(n int)        { s.raw.Advance(n) }
func (s *StuffedStream) Retreat(n int)        { s.raw.Retreat(n); s.eos = false }
func (s *StuffedStream) Peek(offset int) byte { return s.raw.Peek(offset) }

// Flush forwards to the backing stream.
func (s *StuffedStream) Flush() { s.raw.Flush() }

// EOS reports whether the stuffed read side has latched end-of-stream.
func (s *StuffedStream) EOS() bool { return s.eos || s.raw.EOS() }

// Bytes returns the encoded (stuffed) buffer.
func (s *StuffedStream) Bytes() []byte { return s.raw.Bytes() }

// BytesRead returns the number of stuffed bytes consumed from the backing
// stream.
func (s *StuffedStream) BytesRead() int { return s.raw.BytesRead() }

// BytesWritten returns the number of stuffed bytes appended to the backing
// stream.
func (s *StuffedStream) BytesWritten() int { return s.raw.BytesWritten() }
