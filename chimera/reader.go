package chimera

import (
	"fmt"
	"io"
)

// ReaderConfig mirrors WriterConfig; both sides of a stream must agree on
// every field.
type ReaderConfig struct {
	WindowSize  int
	Options     OptionMask
	TraceWindow *[2]int64
	Sink        TextSink

	_ struct{} // Blank field to prevent unkeyed struct literals
}

// Reader is the Chimera decompressor. Like Writer, it operates over a
// whole in-memory buffer rather than incrementally: the format is not
// self-synchronising beyond stream start, so the first Read call slurps
// the entire underlying io.Reader and decodes it in one pass.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	r       io.Reader
	conf    ReaderConfig
	out     []byte
	outPos  int
	decoded bool
	err     error
	stats   CStats
}

// NewReader returns a Reader with every option enabled and the default
// window size, matching NewWriter.
func NewReader(r io.Reader) *Reader {
	return NewReaderConfig(r, ReaderConfig{WindowSize: DefaultWindowSize, Options: OptAll})
}

// NewReaderConfig returns a Reader configured per conf. conf must match
// the WriterConfig used to produce the stream.
func NewReaderConfig(r io.Reader, conf ReaderConfig) *Reader {
	if conf.WindowSize <= 0 {
		conf.WindowSize = DefaultWindowSize
	}
	return &Reader{r: r, conf: conf}
}

// Stats returns a copy of the running decompression statistics.
func (zr *Reader) Stats() CStats { return zr.stats }

// Reset discards any decoded output and reconfigures zr to read from r.
func (zr *Reader) Reset(r io.Reader) {
	*zr = Reader{r: r, conf: zr.conf}
}

func (zr *Reader) Read(p []byte) (int, error) {
	if !zr.decoded {
		zr.decoded = true
		zr.decodeAll()
	}
	if zr.outPos >= len(zr.out) {
		if zr.err != nil {
			return 0, zr.err
		}
		return 0, io.EOF
	}
	n := copy(p, zr.out[zr.outPos:])
	zr.outPos += n
	return n, nil
}

// decodeAll reads every remaining byte of zr.r and runs the full token
// dispatch loop, leaving either a complete output buffer and zr.err == nil,
// or a partial output buffer and zr.err == ErrCorrupt on premature end of
// stream or an invalid token. If reading zr.r itself fails, zr.err is that
// read error and no output is produced.
func (zr *Reader) decodeAll() {
	raw, ioErr := io.ReadAll(zr.r)
	if ioErr != nil {
		zr.err = ioErr
		return
	}

	in := NewByteStreamForRead(raw)
	bs := NewMSBBitStream(in)

	encTree := newAdaptiveTree(zr.conf.WindowSize)
	excTree := newAdaptiveTree(zr.conf.WindowSize)
	off := newOffsetCodec()
	dict := newDictCodec()

	opt := zr.conf.Options
	encTree.InsertSymbol(symNEWSYMBOL, 1)
	if opt.has(OptRLE) {
		encTree.InsertSymbol(symRLE, 1)
	}
	if opt.has(OptLZ) {
		encTree.InsertSymbol(symREPEATSTRING, 1)
	}
	if opt.has(OptDIC) {
		encTree.InsertSymbol(symDICTENTRY, 1)
	}
	if opt.has(OptXS) {
		encTree.InsertSymbol(symXSYMBOL, 1)
	}
	if opt.has(OptMS) {
		encTree.InsertSymbol(symREPEAT, 1)
	}
	encTree.InsertSymbol(symEOS, 1)

	var out []byte
	lastMarker := int32(-1)
	prevCode := int32(-1)

	truncated := func() {
		zr.out = out
		zr.err = ErrCorrupt
		if zr.conf.Sink != nil {
			zr.conf.Sink.WriteString(fmt.Sprintf("chimera: truncated stream; last token read was %d\n", prevCode))
		}
	}

	for {
		code := encTree.NextToken(bs)
		if code == tokenTruncated {
			truncated()
			return
		}

		if opt.has(OptMS) && code == symREPEAT {
			if lastMarker == -1 {
				zr.out, zr.err = out, ErrCorrupt
				return
			}
			code = uint32(lastMarker)
		} else if isClassMarker(code) {
			lastMarker = int32(code)
		}

		if tw := zr.conf.TraceWindow; tw != nil && zr.conf.Sink != nil {
			n := int64(len(out))
			if n >= tw[0] && n < tw[1] {
				zr.conf.Sink.WriteString(fmt.Sprintf("chimera: outpos=%d code=%d %s %s %s\n",
					n, code, encTree.DebugString(), dict.DebugString(), off.DebugString()))
			}
		}

		switch code {
		case symEOS:
			zr.out = out
			zr.stats.BytesOut = int64(len(out))
			return

		case symNEWSYMBOL:
			size := bs.Next(2)
			switch size {
			case 1:
				b := byte(bs.Next(8))
				out = append(out, b)
				encTree.InsertSymbol(uint32(b), 1)
			case 2:
				b0, b1 := byte(bs.Next(8)), byte(bs.Next(8))
				out = append(out, b0, b1)
				excTree.InsertSymbol(extCode2(b0, b1), 1)
			case 3:
				b0, b1, b2 := byte(bs.Next(8)), byte(bs.Next(8)), byte(bs.Next(8))
				out = append(out, b0, b1, b2)
				excTree.InsertSymbol(extCode3(b0, b1, b2), 1)
			default:
				zr.out, zr.err = out, ErrCorrupt
				return
			}

		case symDICTENTRY:
			id := dict.DecodeRank(bs)
			if id < 0 || id >= len(dict.entries) {
				zr.out, zr.err = out, ErrCorrupt
				return
			}
			offset, length := dict.Entry(id)
			if offset < 0 || offset+int(length) > len(out) {
				zr.out, zr.err = out, ErrCorrupt
				return
			}
			out = append(out, out[offset:offset+int(length)]...)

		case symREPEATSTRING:
			offset := off.Decode(bs)
			v := bs.Next(5)
			var l uint32
			if v < 16 {
				l = v
			} else {
				extra := bs.Next(4)
				l = (v<<4 | extra) - 256
			}
			length := int(l) + 3
			start := len(out) - int(offset)
			if start < 0 {
				zr.out, zr.err = out, ErrCorrupt
				return
			}
			spanStart := len(out)
			for i := 0; i < length; i++ {
				out = append(out, out[start+i])
			}
			if opt.has(OptDIC) {
				entryLen := length
				if entryLen > 255 {
					entryLen = 255
				}
				dict.Add(spanStart, byte(entryLen))
			}

		case symRLE:
			sel := bs.Next(2)
			var unit int
			switch sel {
			case 0:
				unit = 1
			case 1:
				unit = 2
			case 3:
				unit = 4
			default:
				zr.out, zr.err = out, ErrCorrupt
				return
			}
			repeats := bs.Next(8)
			unitBytes := make([]byte, unit)
			for i := 0; i < unit; i++ {
				unitBytes[i] = byte(bs.Next(8))
			}
			var length int
			switch unit {
			case 1:
				length = int(repeats) + 1
			case 2:
				length = 2 + 2*int(repeats)
			case 4:
				length = 4 + 4*int(repeats)
			}
			for i := 0; i < length; i++ {
				out = append(out, unitBytes[i%unit])
			}

		case symXSYMBOL:
			xcode := excTree.NextToken(bs)
			if xcode == tokenTruncated {
				truncated()
				return
			}
			bts := extBytes(xcode)
			if bts == nil {
				zr.out, zr.err = out, ErrCorrupt
				return
			}
			out = append(out, bts...)
			for _, b := range bts {
				encTree.BumpHits(uint32(b))
			}

		default:
			if code > 255 {
				zr.out, zr.err = out, ErrCorrupt
				return
			}
			out = append(out, byte(code))
		}

		prevCode = int32(code)
	}
}
