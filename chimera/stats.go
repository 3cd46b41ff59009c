package chimera

import (
	"fmt"
	"strings"
)

// Category indexes CStats.Categories.
type Category int

const (
	CatNewSinglet Category = iota
	CatNewDoublet
	CatNewTriplet
	CatExistingSinglet
	CatDictionary
	CatString
	CatRLE8
	CatRLE16
	CatRLE32

	numCategories
)

var categoryNames = [numCategories]string{
	CatNewSinglet:      "new-singlet",
	CatNewDoublet:      "new-doublet",
	CatNewTriplet:      "new-triplet",
	CatExistingSinglet: "existing-singlet",
	CatDictionary:      "dictionary",
	CatString:          "string",
	CatRLE8:            "rle8",
	CatRLE16:           "rle16",
	CatRLE32:           "rle32",
}

// CategoryStats accumulates per-category token counts.
type CategoryStats struct {
	Tokens int64
	Bytes  int64
	Bits   int64
}

// CStats is the running statistics snapshot exposed by Writer.Stats and
// Reader.Stats: reportable on demand without disturbing an in-progress
// compress/decompress call.
type CStats struct {
	BytesIn     int64
	BytesOut    int64
	Tokens      int64
	ReuseTokens int64
	ModalTokens int64

	Categories [numCategories]CategoryStats
}

// observe records a single token's cost in category c.
func (s *CStats) observe(c Category, bytesIn int64, bits int64) {
	s.Tokens++
	s.Categories[c].Tokens++
	s.Categories[c].Bytes += bytesIn
	s.Categories[c].Bits += bits
}

// observeModal records a modal (class-marker-elided) repeat of the
// previous token's category.
func (s *CStats) observeModal(c Category, bytesIn int64, bits int64) {
	s.ModalTokens++
	s.observe(c, bytesIn, bits)
}

// observeReuse records a token that referenced previously emitted data
// (a dictionary entry, an LZ77 string, or an already-registered Excoder
// doublet/triplet) rather than fresh literal bits.
func (s *CStats) observeReuse(c Category, bytesIn int64, bits int64) {
	s.ReuseTokens++
	s.observe(c, bytesIn, bits)
}

// String renders a fixed-width table, one row per category, the same
// padded-column style as the corpus's prefix-code dumpers
// (_examples/dsnet-compress/internal/prefix/debug.go).
func (s CStats) String() string {
	var maxTok, maxByte, maxBit int64
	for _, c := range s.Categories {
		if c.Tokens > maxTok {
			maxTok = c.Tokens
		}
		if c.Bytes > maxByte {
			maxByte = c.Bytes
		}
		if c.Bits > maxBit {
			maxBit = c.Bits
		}
	}
	tokW := len(fmt.Sprintf("%d", maxTok))
	byteW := len(fmt.Sprintf("%d", maxByte))
	bitW := len(fmt.Sprintf("%d", maxBit))

	var ss []string
	ss = append(ss, fmt.Sprintf("CStats{bytesIn: %d, bytesOut: %d, tokens: %d, reuse: %d, modal: %d}",
		s.BytesIn, s.BytesOut, s.Tokens, s.ReuseTokens, s.ModalTokens))
	ss = append(ss, "categories: {")
	for i, c := range s.Categories {
		ss = append(ss, fmt.Sprintf("\t%-17s {tokens: %*d, bytes: %*d, bits: %*d},",
			categoryNames[i]+":", tokW, c.Tokens, byteW, c.Bytes, bitW, c.Bits))
	}
	ss = append(ss, "}")
	return strings.Join(ss, "\n")
}
