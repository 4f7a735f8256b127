package lpz

import (
	"encoding/binary"
	"math/bits"
	"runtime"
)

// HashChain is an implementation of the MatchFinder interface that
// uses hash chaining to find the longest match at each position.
//
// The index is rebuilt from scratch on every call to FindMatches, so matches
// never refer to data from a previous call, and a HashChain can be used
// from several goroutines at once.
type HashChain struct {
	// SearchLen is how many entries to examine on the hash chain.
	// The default is 32.
	SearchLen int

	// MaxDistance is the maximum distance (in bytes) to look back for
	// a match. The default (and maximum) is 65535.
	MaxDistance int

	// MaxLength is the longest match that will be returned.
	// The default is 65535.
	MaxLength int

	// Parser chooses which matches to use. The default is GreedyParser.
	Parser Parser
}

const (
	defaultSearchLen = 32
	defaultMaxLength = 65535

	headBits = 15
	headSize = 1 << headBits
	// headMask is redundant, but helps the compiler eliminate bounds
	// checks.
	headMask = headSize - 1
	shift    = 32 - headBits

	// noPosition marks the end of a hash chain.
	noPosition = -1
)

func (q *HashChain) Reset() {}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (q *HashChain) FindMatches(dst []Match, src []byte) []Match {
	if len(src) == 0 {
		return dst
	}

	idx := &chainIndex{
		src:         src,
		searchLen:   q.SearchLen,
		maxDistance: q.MaxDistance,
		maxLength:   q.MaxLength,
	}
	if idx.searchLen <= 0 {
		idx.searchLen = defaultSearchLen
	}
	if idx.maxDistance <= 0 || idx.maxDistance > MaxDistance {
		idx.maxDistance = MaxDistance
	}
	if idx.maxLength < MinMatch {
		idx.maxLength = defaultMaxLength
	}
	idx.build()

	parser := q.Parser
	if parser == nil {
		parser = GreedyParser{}
	}
	return parser.Parse(dst, idx, 0, len(src))
}

// A chainIndex is the hash-chain index of a single block.
// head holds the most recent position for each hash value, and chain links
// each position to the previous one with the same hash.
type chainIndex struct {
	src   []byte
	head  [headSize]int32
	chain []int32

	searchLen   int
	maxDistance int
	maxLength   int
}

func (c *chainIndex) build() {
	for i := range c.head {
		c.head[i] = noPosition
	}
	c.chain = make([]int32, len(c.src))
	for i := range c.chain {
		c.chain[i] = noPosition
	}

	src := c.src
	for i := 0; i+MinMatch <= len(src); i++ {
		h := hash4(binary.LittleEndian.Uint32(src[i:])) & headMask
		c.chain[i] = c.head[h]
		c.head[h] = int32(i)
	}
}

const hashMul32 = 0x1e35a7bd

func hash4(u uint32) uint32 {
	return (u * hashMul32) >> shift
}

// Search walks the chain for pos, nearest candidate first, and appends each
// candidate that is longer than all the previous ones.
func (c *chainIndex) Search(dst []AbsoluteMatch, pos, min, max int) []AbsoluteMatch {
	src := c.src
	if pos < min || pos+MinMatch > max || max > len(src) {
		return dst
	}
	limit := max
	if pos+c.maxLength < limit {
		limit = pos + c.maxLength
	}
	searchSeq := binary.LittleEndian.Uint32(src[pos:])

	var length int

	candidate := pos
	for i := 0; i < c.searchLen; i++ {
		candidate = int(c.chain[candidate])
		if candidate == noPosition || pos-candidate > c.maxDistance {
			break
		}
		if binary.LittleEndian.Uint32(src[candidate:]) != searchSeq {
			// hash collision
			continue
		}

		newEnd := extendMatch(src[:limit], candidate+MinMatch, pos+MinMatch)
		if newEnd-pos > length {
			dst = append(dst, AbsoluteMatch{
				Start: pos,
				End:   newEnd,
				Match: candidate,
			})
			length = newEnd - pos
			if newEnd == limit {
				break
			}
		}
	}

	return dst
}

// extendMatch returns the largest k such that k <= len(src) and that
// src[i:i+k-j] and src[j:k] have the same contents.
//
// It assumes that:
//
//	0 <= i && i < j && j <= len(src)
func extendMatch(src []byte, i, j int) int {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		// As long as we are 8 or more bytes before the end of src, we can load and
		// compare 8 bytes at a time. If those 8 bytes are equal, repeat.
		for j+8 < len(src) {
			iBytes := binary.LittleEndian.Uint64(src[i:])
			jBytes := binary.LittleEndian.Uint64(src[j:])
			if iBytes != jBytes {
				// The index of the first byte that differs is the number of
				// trailing zero bits in the XOR, divided by 8.
				return j + bits.TrailingZeros64(iBytes^jBytes)>>3
			}
			i, j = i+8, j+8
		}
	case "386":
		// On a 32-bit CPU, we do it 4 bytes at a time.
		for j+4 < len(src) {
			iBytes := binary.LittleEndian.Uint32(src[i:])
			jBytes := binary.LittleEndian.Uint32(src[j:])
			if iBytes != jBytes {
				return j + bits.TrailingZeros32(iBytes^jBytes)>>3
			}
			i, j = i+4, j+4
		}
	}
	for ; j < len(src) && src[i] == src[j]; i, j = i+1, j+1 {
	}
	return j
}
