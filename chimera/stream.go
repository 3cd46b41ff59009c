package chimera

import "io"

// byteStreamer is the common contract shared by ByteStream and its two
// variants (SegmentedStream, StuffedStream). BitStream is built on top of
// this interface so it can be composed with whichever stream flavor a
// caller chooses.
type byteStreamer interface {
	Next() byte
	Write(b byte)
	Advance(n int)
	Retreat(n int)
	Peek(offset int) byte
	Flush()
	EOS() bool
	Bytes() []byte
	BytesRead() int
	BytesWritten() int
}

var (
	_ byteStreamer = (*ByteStream)(nil)
	_ byteStreamer = (*SegmentedStream)(nil)
	_ byteStreamer = (*StuffedStream)(nil)
)

// byteReaderAdapter and byteWriterAdapter bridge a byteStreamer's total
// (never-erroring) Next/Write contract to the conventional io.Reader/
// io.Writer contract, for callers that want to compose a ByteStream family
// member with bufio or other stdlib io plumbing.
type byteReaderAdapter struct{ s byteStreamer }

// AsByteReader returns an io.Reader that pulls single bytes from s via
// Next, reporting io.EOF once s.EOS() latches.
func AsByteReader(s byteStreamer) io.Reader { return byteReaderAdapter{s} }

func (a byteReaderAdapter) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if a.s.EOS() {
		return 0, io.EOF
	}
	n := 0
	for n < len(p) && !a.s.EOS() {
		p[n] = a.s.Next()
		if a.s.EOS() {
			break
		}
		n++
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

type byteWriterAdapter struct{ s byteStreamer }

// AsByteWriter returns an io.Writer that appends to s one byte at a time
// via Write.
func AsByteWriter(s byteStreamer) io.Writer { return byteWriterAdapter{s} }

func (a byteWriterAdapter) Write(p []byte) (int, error) {
	for _, b := range p {
		a.s.Write(b)
	}
	return len(p), nil
}
