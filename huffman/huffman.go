// Package huffman implements the entropy stage of lpz compression: a
// length-limited canonical Huffman code over byte values.
//
// An encoded stream starts with a HeaderSize-byte header: the code length
// of each of the 256 byte values (0 for values that do not occur), followed
// by the uncompressed size as a 32-bit little-endian integer. The rest of
// the stream is the codes, packed least significant bit first.
package huffman

import (
	"encoding/binary"

	"github.com/andybalholm/lpz"
)

const (
	// MaxCodeLength is the longest code the encoder produces or the
	// decoder accepts.
	MaxCodeLength = 14

	// HeaderSize is the size of the code length table plus the size field.
	HeaderSize = 256 + 4

	tableSize = 1 << MaxCodeLength
	tableMask = tableSize - 1
)

var (
	errEmpty      = lpz.Errorf(lpz.InputError, "huffman: empty input")
	errShort      = lpz.Errorf(lpz.InputError, "huffman: input shorter than header")
	errBadSize    = lpz.Errorf(lpz.InputError, "huffman: invalid uncompressed size")
	errInvalid    = lpz.Errorf(lpz.InputError, "huffman: corrupted data: invalid code")
	errUnexpected = lpz.Errorf(lpz.InputError, "huffman: unexpected EOF")
)

// A Header is the decoded form of a stream header.
type Header struct {
	Lengths [256]uint8
	Size    uint32
}

// Symbols returns the number of byte values with a code.
func (h *Header) Symbols() int {
	n := 0
	for _, l := range h.Lengths {
		if l != 0 {
			n++
		}
	}
	return n
}

// ReadHeader parses and validates the header at the start of src.
func ReadHeader(src []byte) (Header, error) {
	var h Header
	if len(src) < HeaderSize {
		return h, errShort
	}
	copy(h.Lengths[:], src)
	h.Size = binary.LittleEndian.Uint32(src[256:])
	if h.Size == 0 || uint64(h.Size) >= lpz.MaxInputSize {
		return h, errBadSize
	}
	if _, err := canonicalCodes(&h.Lengths); err != nil {
		return h, err
	}
	return h, nil
}

// encodedBits returns the number of bits needed for the codes of the symbols
// in hist.
func encodedBits(hist *[256]uint32, lengths *[256]uint8) uint64 {
	var n uint64
	for sym, count := range hist {
		n += uint64(count) * uint64(lengths[sym])
	}
	return n
}

// Encode compresses src.
func Encode(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, errEmpty
	}
	if lpz.TooLarge(len(src)) {
		return nil, lpz.Errorf(lpz.InputError, "huffman: input too large (%d bytes)", len(src))
	}

	hist := histogram(src)
	lengths := codeLengths(hist, MaxCodeLength)
	codes, err := canonicalCodes(&lengths)
	if err != nil {
		return nil, err
	}

	size := HeaderSize + int((encodedBits(hist, &lengths)+7)/8)
	dst := make([]byte, HeaderSize, size)
	copy(dst, lengths[:])
	binary.LittleEndian.PutUint32(dst[256:], uint32(len(src)))

	w := bitWriter{dst: dst}
	for _, c := range src {
		w.writeBits(uint32(codes[c]), uint(lengths[c]))
	}
	return w.flush(), nil
}

// A tableEntry is one slot of the decoding table. A length of 0 marks a
// bit pattern that is not the prefix of any code.
type tableEntry struct {
	symbol byte
	length uint8
}

// buildTable fills a direct-lookup table indexed by the next MaxCodeLength
// bits of input. Each code fills every slot whose low bits equal it.
func buildTable(lengths *[256]uint8, codes *[256]uint16) []tableEntry {
	table := make([]tableEntry, tableSize)
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		for i := int(codes[sym]); i < tableSize; i += 1 << l {
			table[i] = tableEntry{symbol: byte(sym), length: l}
		}
	}
	return table
}

// Decode decompresses data produced by Encode.
func Decode(src []byte) ([]byte, error) {
	h, err := ReadHeader(src)
	if err != nil {
		return nil, err
	}
	codes, err := canonicalCodes(&h.Lengths)
	if err != nil {
		return nil, err
	}

	payload := src[HeaderSize:]
	// Every code is at least one bit long.
	if uint64(h.Size) > uint64(len(payload))*8 {
		return nil, errUnexpected
	}

	table := buildTable(&h.Lengths, &codes)
	dst := make([]byte, h.Size)
	r := bitReader{src: payload}
	for i := range dst {
		if r.nbits < MaxCodeLength {
			r.refill()
		}
		e := table[r.peek(MaxCodeLength)&tableMask]
		if e.length == 0 {
			return nil, errInvalid
		}
		if uint(e.length) > r.nbits {
			return nil, errUnexpected
		}
		dst[i] = e.symbol
		r.consume(uint(e.length))
	}
	return dst, nil
}

// EstimateRatio returns the size that Encode would produce for src, divided
// by len(src). It returns 0 for empty input.
func EstimateRatio(src []byte) float64 {
	if len(src) == 0 {
		return 0
	}
	hist := histogram(src)
	lengths := codeLengths(hist, MaxCodeLength)
	bits := encodedBits(hist, &lengths) + 256*8 + 32 + 7
	return float64(bits/8) / float64(len(src))
}
