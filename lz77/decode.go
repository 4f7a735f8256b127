package lz77

import (
	"encoding/binary"
	"math"

	"github.com/andybalholm/lpz"
)

var (
	errEmpty        = lpz.Errorf(lpz.InputError, "lz77: empty input")
	errTruncated    = lpz.Errorf(lpz.InputError, "lz77: truncated input")
	errBadDistance  = lpz.Errorf(lpz.InputError, "lz77: invalid match distance")
	errLimit        = lpz.Errorf(lpz.InputError, "lz77: decoded size exceeds limit")
	errLengthExcess = lpz.Errorf(lpz.InputError, "lz77: length too large")
)

// Decode decompresses a token stream produced by Encode.
func Decode(src []byte) ([]byte, error) {
	return DecodeLimit(src, -1)
}

// DecodeLimit is like Decode, but it fails with an InputError as soon as the
// output would grow past limit bytes. A negative limit means no limit.
func DecodeLimit(src []byte, limit int) ([]byte, error) {
	if len(src) == 0 {
		return nil, errEmpty
	}
	if lpz.TooLarge(len(src)) {
		return nil, lpz.Errorf(lpz.InputError, "lz77: input too large (%d bytes)", len(src))
	}

	sizeHint := len(src) * 4
	if limit >= 0 && sizeHint > limit {
		sizeHint = limit
	}
	dst := make([]byte, 0, sizeHint)

	si := 0
	for {
		if si >= len(src) {
			// The stream must end with a literals-only token.
			return nil, errTruncated
		}
		token := src[si]
		si++

		litLen := int(token >> 4)
		if litLen == 15 {
			n, next, err := readInt(src, si)
			if err != nil {
				return nil, err
			}
			litLen += n
			si = next
		}
		if litLen > len(src)-si {
			return nil, errTruncated
		}
		if limit >= 0 && litLen > limit-len(dst) {
			return nil, errLimit
		}
		dst = append(dst, src[si:si+litLen]...)
		si += litLen

		if si == len(src) {
			return dst, nil
		}

		if len(src)-si < 2 {
			return nil, errTruncated
		}
		distance := int(binary.LittleEndian.Uint16(src[si:]))
		si += 2

		length := int(token&0x0f) + lpz.MinMatch
		if token&0x0f == 15 {
			n, next, err := readInt(src, si)
			if err != nil {
				return nil, err
			}
			length += n
			si = next
		}

		if distance == 0 || distance > len(dst) {
			return nil, errBadDistance
		}
		if limit >= 0 && length > limit-len(dst) {
			return nil, errLimit
		}

		// Copy one byte at a time, so that a match can overlap
		// the bytes it is producing.
		start := len(dst) - distance
		for i := 0; i < length; i++ {
			dst = append(dst, dst[start+i])
		}
	}
}

// readInt reads a variable-length integer starting at src[si], and returns
// it along with the index of the byte following it.
func readInt(src []byte, si int) (n, next int, err error) {
	for {
		if si >= len(src) {
			return 0, 0, errTruncated
		}
		b := src[si]
		si++
		n += int(b)
		if b != 255 {
			return n, si, nil
		}
		if n > math.MaxInt32 {
			return 0, 0, errLengthExcess
		}
	}
}
