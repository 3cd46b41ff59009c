package chimera

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xymorg/codecs/internal/testutil"
)

func roundTrip(t *testing.T, conf WriterConfig, want []byte) ([]byte, CStats, CStats) {
	t.Helper()
	var buf bytes.Buffer
	zw := NewWriterConfig(&buf, conf)
	if _, err := zw.Write(want); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	rconf := ReaderConfig{WindowSize: conf.WindowSize, Options: conf.Options, TraceWindow: conf.TraceWindow, Sink: conf.Sink}
	zr := NewReaderConfig(&buf, rconf)
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	return got, zw.Stats(), zr.Stats()
}

func defaultConf() WriterConfig {
	return WriterConfig{WindowSize: DefaultWindowSize, Options: OptAll}
}

func TestRoundTripEmpty(t *testing.T) {
	roundTrip(t, defaultConf(), nil)
}

func TestRoundTripSingleByte(t *testing.T) {
	roundTrip(t, defaultConf(), []byte{0x41})
}

func TestRoundTripRepeatedByte(t *testing.T) {
	roundTrip(t, defaultConf(), bytes.Repeat([]byte{0xAA}, 8))
}

func TestRoundTripLongRun(t *testing.T) {
	roundTrip(t, defaultConf(), bytes.Repeat([]byte{0x5A}, 4000))
}

func TestRoundTripRepeatedSubstring(t *testing.T) {
	roundTrip(t, defaultConf(), []byte("HelloHello"))
}

func TestRoundTripModalLiterals(t *testing.T) {
	roundTrip(t, defaultConf(), []byte("AAAA"))
}

func TestRoundTripGreedyDefeatPathological(t *testing.T) {
	roundTrip(t, defaultConf(), []byte("ABCDAB"))
}

func TestRoundTripMixedContent(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 50; i++ {
		buf.WriteString("the quick brown fox jumps over the lazy dog ")
		buf.WriteByte(byte(i))
	}
	buf.Write(bytes.Repeat([]byte{0x00}, 300))
	roundTrip(t, defaultConf(), buf.Bytes())
}

func TestRoundTripHexLiteral(t *testing.T) {
	data := testutil.MustDecodeHex("00ff10203040ff00aabbccddeeff0001020304050607")
	roundTrip(t, defaultConf(), data)
}

func TestRoundTripBinaryNoise(t *testing.T) {
	data := testutil.NewRand(1).Bytes(2000)
	roundTrip(t, defaultConf(), data)
}

func TestRoundTripEachOptionIndividually(t *testing.T) {
	data := []byte("mississippi mississippi banana banananana")
	opts := []OptionMask{0, OptLZ, OptDIC, OptRLE, OptXS, OptMS, OptLZ | OptDIC, OptLZ | OptRLE | OptXS}
	for _, opt := range opts {
		opt := opt
		t.Run("", func(t *testing.T) {
			roundTrip(t, WriterConfig{WindowSize: DefaultWindowSize, Options: opt}, data)
		})
	}
}

func TestRoundTripSmallWindow(t *testing.T) {
	roundTrip(t, WriterConfig{WindowSize: 8, Options: OptAll}, []byte("abcdefghijklmnopqrstuvwxyz"))
}

func TestStatsConsistency(t *testing.T) {
	data := []byte("HelloHelloHelloWorldWorldWorld")
	_, wstats, rstats := roundTrip(t, defaultConf(), data)

	if wstats.BytesIn != int64(len(data)) {
		t.Errorf("Writer Stats().BytesIn = %d, want %d", wstats.BytesIn, len(data))
	}
	var sumBytes int64
	for _, c := range wstats.Categories {
		sumBytes += c.Bytes
	}
	if sumBytes != int64(len(data)) {
		t.Errorf("sum of Writer category Bytes = %d, want %d", sumBytes, len(data))
	}
	if rstats.BytesOut != int64(len(data)) {
		t.Errorf("Reader Stats().BytesOut = %d, want %d", rstats.BytesOut, len(data))
	}
}

func TestWriterDoubleCloseFails(t *testing.T) {
	var buf bytes.Buffer
	zw := NewWriter(&buf)
	if err := zw.Close(); err != nil {
		t.Fatalf("first Close() error: %v", err)
	}
	if err := zw.Close(); err != ErrClosed {
		t.Errorf("second Close() = %v, want ErrClosed", err)
	}
}

func TestWriterWriteAfterCloseFails(t *testing.T) {
	var buf bytes.Buffer
	zw := NewWriter(&buf)
	zw.Close()
	if _, err := zw.Write([]byte("x")); err != ErrClosed {
		t.Errorf("Write() after Close() = %v, want ErrClosed", err)
	}
}

func TestWriterResetClearsState(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	zw := NewWriter(&buf1)
	zw.Write([]byte("first"))
	zw.Close()

	zw.Reset(&buf2)
	zw.Write([]byte("second"))
	if err := zw.Close(); err != nil {
		t.Fatalf("Close() after Reset() error: %v", err)
	}

	zr := NewReader(&buf2)
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("round trip after Reset() = %q, want %q", got, "second")
	}
}

func TestReaderCorruptStreamReportsError(t *testing.T) {
	// Compress a non-trivial payload, then feed the Reader only its first
	// byte. The stream's second token cannot possibly finish decoding in
	// the 0-7 bits left over, so this deterministically exercises the
	// premature end-of-stream path regardless of the adaptive tree's exact
	// shape (unlike a hand-picked bit pattern, which could coincidentally
	// decode straight to EOS).
	var buf bytes.Buffer
	zw := NewWriter(&buf)
	zw.Write(bytes.Repeat([]byte("the quick brown fox "), 20))
	if err := zw.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	zr := NewReader(bytes.NewReader(buf.Bytes()[:1]))
	_, err := io.ReadAll(zr)
	if err != ErrCorrupt {
		t.Errorf("ReadAll() on truncated input = %v, want ErrCorrupt", err)
	}
}

func TestTraceWindowEmitsDiagnostics(t *testing.T) {
	var sink strings.Builder
	conf := WriterConfig{
		WindowSize:  DefaultWindowSize,
		Options:     OptAll,
		TraceWindow: &[2]int64{0, 5},
		Sink:        &sink,
	}
	roundTrip(t, conf, []byte("HelloHelloHello"))
	if sink.String() == "" {
		t.Errorf("TraceWindow configured but no diagnostic lines were written")
	}
}

func TestStatsStringNonEmpty(t *testing.T) {
	data := []byte("HelloHelloHello")
	_, wstats, _ := roundTrip(t, defaultConf(), data)
	s := wstats.String()
	if s == "" {
		t.Errorf("CStats.String() = empty, want a rendered table")
	}
	if !strings.Contains(s, "existing-singlet") && !strings.Contains(s, "string") {
		t.Errorf("CStats.String() = %q, missing expected category names", s)
	}
}
