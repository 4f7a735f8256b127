// Package lz77 implements the dictionary-match stage of lpz compression.
//
// The token stream uses the LZ4 block layout. Each token byte holds the
// literal count in its high nibble and the match length minus 4 in its low
// nibble. A nibble value of 15 means the count continues in the following
// bytes (255 at a time, then the remainder). The token is followed by the
// literal bytes, a 2-byte little-endian distance, and the match-length
// continuation. The stream always ends with a token that has literals only
// and no distance.
package lz77

import (
	"encoding/binary"

	"github.com/andybalholm/lpz"
)

// An Encoder implements the lpz.Encoder interface, writing the lz77 token
// format.
type Encoder struct{}

func (Encoder) Header(dst []byte) []byte {
	return dst
}

func (Encoder) Reset() {}

// Encode appends the token stream for src to dst. Any bytes of src not
// covered by matches are written as trailing literals.
func (Encoder) Encode(dst []byte, src []byte, matches []lpz.Match) []byte {
	pos := 0
	literals := 0
	for _, m := range matches {
		pos += m.Unmatched
		if m.Length == 0 {
			continue
		}
		dst = appendSequence(dst, src[literals:pos], m.Length, m.Distance)
		pos += m.Length
		literals = pos
	}

	// Write the final, literals-only sequence.
	lit := src[literals:]
	token := byte(0)
	if len(lit) > 14 {
		token |= 0xf0
	} else {
		token |= byte(len(lit) << 4)
	}
	dst = append(dst, token)
	if len(lit) > 14 {
		dst = appendInt(dst, len(lit)-15)
	}
	return append(dst, lit...)
}

func appendSequence(dst []byte, lit []byte, length, distance int) []byte {
	token := byte(0)
	if len(lit) > 14 {
		token |= 0xf0
	} else {
		token |= byte(len(lit) << 4)
	}
	if length > 18 {
		token |= 0x0f
	} else {
		token |= byte(length - lpz.MinMatch)
	}
	dst = append(dst, token)

	if len(lit) > 14 {
		dst = appendInt(dst, len(lit)-15)
	}
	dst = append(dst, lit...)

	dst = binary.LittleEndian.AppendUint16(dst, uint16(distance))
	if length > 18 {
		dst = appendInt(dst, length-19)
	}
	return dst
}

// appendInt appends n to dst in LZ4's variable-length integer format.
func appendInt(dst []byte, n int) []byte {
	for n >= 255 {
		dst = append(dst, 255)
		n -= 255
	}
	dst = append(dst, byte(n))
	return dst
}

const maxSegment = 1 << 30

// Encode compresses src with a default HashChain match finder.
func Encode(src []byte) ([]byte, error) {
	return AppendEncode(nil, src, nil)
}

// AppendEncode compresses src with mf, appends the token stream to dst, and
// returns dst. If mf is nil, a HashChain with default settings is used.
func AppendEncode(dst, src []byte, mf lpz.MatchFinder) ([]byte, error) {
	if len(src) == 0 {
		return dst, errEmpty
	}
	if lpz.TooLarge(len(src)) {
		return dst, lpz.Errorf(lpz.InputError, "lz77: input too large (%d bytes)", len(src))
	}
	if mf == nil {
		mf = &lpz.HashChain{}
	}

	// Match finders index positions with 32-bit integers, so very large
	// inputs are searched in segments. Matches never cross a segment
	// boundary.
	var matches []lpz.Match
	for start, end := 0, 0; start < len(src); start = end {
		end = len(src)
		if end-start > maxSegment {
			end = start + maxSegment
		}
		matches = mf.FindMatches(matches, src[start:end])
	}
	return Encoder{}.Encode(dst, src, matches), nil
}
