// Package lpz is a block compressor built from two stages: an LZ77 match
// finder that replaces repeated byte sequences with back-references, and a
// length-limited canonical Huffman coder that packs the result.
//
// The root package holds the vocabulary shared by the stages: the Match
// representation of LZ77 output, the interfaces for finding and encoding
// matches, the HashChain match finder, and the error types. The stages
// themselves live in the lz77 and huffman packages, and the block package
// chains them together and frames the output.
package lpz

import "math"

// A Match is the basic unit of LZ77 compression.
type Match struct {
	Unmatched int // the number of unmatched bytes since the previous match
	Length    int // the number of bytes in the matched string; it may be 0 at the end of the input
	Distance  int // how far back in the stream to copy from
}

// A MatchFinder performs the LZ77 stage of compression, looking for matches.
type MatchFinder interface {
	// FindMatches looks for matches in src, appends them to dst, and returns dst.
	FindMatches(dst []Match, src []byte) []Match

	// Reset clears any internal state, preparing the MatchFinder to be used with
	// a new stream.
	Reset()
}

// An Encoder encodes the data in its final format.
type Encoder interface {
	// Header appends the appropriate stream header to dst.
	Header(dst []byte) []byte

	// Encode appends the encoded format of src to dst, using the match
	// information from matches.
	Encode(dst []byte, src []byte, matches []Match) []byte

	// Reset clears any internal state, preparing the Encoder to be used with
	// a new stream.
	Reset()
}

const (
	// MinMatch is the shortest match the match finders emit. The lz77 token
	// format stores match lengths relative to it.
	MinMatch = 4

	// MaxDistance is the farthest back a match can reach; distances are
	// stored in two bytes.
	MaxDistance = 65535

	// MaxInputSize is the exclusive upper bound on the length of any buffer
	// passed to an encoder or decoder. Sizes are stored as 32-bit values.
	MaxInputSize = math.MaxUint32
)

// TooLarge reports whether a buffer of n bytes is too large for the 32-bit
// size fields used by the stream formats.
func TooLarge(n int) bool {
	return uint64(n) >= MaxInputSize
}
