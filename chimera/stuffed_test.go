package chimera

import (
	"bytes"
	"testing"
)

func TestStuffedStreamRoundTrip(t *testing.T) {
	tests := [][]byte{
		nil,
		{0x01, 0x02, 0x03},
		{0xFF, 0x00, 0xFF}, // exercised post-stuffing: FF must survive as data
		bytes.Repeat([]byte{0xFF}, 10),
	}
	for _, want := range tests {
		raw := NewByteStreamForWrite(0, 64)
		ws := NewStuffedStream(raw)
		for _, b := range want {
			ws.Write(b)
		}
		ws.Flush()

		rs := NewStuffedStream(NewByteStreamForRead(raw.Bytes()))
		var got []byte
		for !rs.EOS() {
			b := rs.Next()
			if rs.EOS() {
				break
			}
			got = append(got, b)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("round trip of %x: got %x, want %x", want, got, want)
		}
	}
}

func TestStuffedStreamLayout(t *testing.T) {
	raw := NewByteStreamForWrite(0, 64)
	ws := NewStuffedStream(raw)
	ws.Write(0xFF)
	ws.Write(0x01)
	ws.Flush()

	buf := raw.Bytes()
	for i, b := range buf {
		if b == stuffByte && (i+1 >= len(buf) || buf[i+1] != 0x00) {
			t.Errorf("0xFF at %d not followed by a 0x00 stuffer: %x", i, buf)
		}
	}
}

func TestStuffedStreamMarkerLatchesEOS(t *testing.T) {
	// 0xFF followed by a non-stuffer, non-restart byte is an end marker.
	raw := NewByteStreamForRead([]byte{0x01, 0xFF, 0x42})
	rs := NewStuffedStream(raw)
	if got := rs.Next(); got != 0x01 {
		t.Fatalf("Next() = %x, want 0x01", got)
	}
	if rs.EOS() {
		t.Fatalf("EOS() = true before the marker is reached")
	}
	if got := rs.Next(); got != 0 {
		t.Fatalf("Next() at marker = %x, want 0", got)
	}
	if !rs.EOS() {
		t.Fatalf("EOS() = false after reading an end marker")
	}
}
