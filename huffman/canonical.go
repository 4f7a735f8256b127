package huffman

import (
	"math/bits"

	"github.com/andybalholm/lpz"
)

// canonicalCodes assigns canonical Huffman codes to the symbols with nonzero
// lengths. Codes are assigned in order of (length, symbol), and each code is
// bit-reversed so that the decoder can look at the low bits of its buffer
// first.
//
// It returns an InputError if a length is longer than MaxCodeLength, if the
// lengths are over-subscribed, or if all of them are zero.
func canonicalCodes(lengths *[256]uint8) (codes [256]uint16, err error) {
	var count [MaxCodeLength + 1]int
	for _, l := range lengths {
		if l > MaxCodeLength {
			return codes, lpz.Errorf(lpz.InputError, "huffman: code length %d exceeds %d", l, MaxCodeLength)
		}
		count[l]++
	}
	count[0] = 0

	kraft := 0
	for l := 1; l <= MaxCodeLength; l++ {
		kraft += count[l] << (MaxCodeLength - l)
	}
	switch {
	case kraft == 0:
		return codes, lpz.Errorf(lpz.InputError, "huffman: no symbols in code length table")
	case kraft > 1<<MaxCodeLength:
		return codes, lpz.Errorf(lpz.InputError, "huffman: over-subscribed code lengths")
	}

	var nextCode [MaxCodeLength + 1]int
	code := 0
	for l := 1; l <= MaxCodeLength; l++ {
		code = (code + count[l-1]) << 1
		nextCode[l] = code
	}

	for sym, l := range lengths {
		if l != 0 {
			codes[sym] = reverseBits(uint16(nextCode[l]), l)
			nextCode[l]++
		}
	}
	return codes, nil
}

// reverseBits reverses the low n bits of code.
func reverseBits(code uint16, n uint8) uint16 {
	return bits.Reverse16(code) >> (16 - n)
}
