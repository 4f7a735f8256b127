package lpz

import "encoding/binary"

// QuickMatchFinder is an implementation of the MatchFinder interface based
// on the algorithm used by snappy. It checks a single candidate at each
// position (the most recent one with the same hash), and looks at fewer
// positions the longer it goes without finding a match.
//
// It is faster than HashChain, but finds shorter matches.
type QuickMatchFinder struct {
	// MaxDistance is the maximum distance (in bytes) to look back for
	// a match. The default (and maximum) is 65535.
	MaxDistance int

	// MaxLength is the longest match that will be returned.
	// The default is 65535.
	MaxLength int
}

func (q *QuickMatchFinder) Reset() {}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (q *QuickMatchFinder) FindMatches(dst []Match, src []byte) []Match {
	maxDistance := q.MaxDistance
	if maxDistance <= 0 || maxDistance > MaxDistance {
		maxDistance = MaxDistance
	}
	maxLength := q.MaxLength
	if maxLength < MinMatch {
		maxLength = defaultMaxLength
	}

	var table [headSize]int32
	for i := range table {
		table[i] = noPosition
	}

	// nextEmit is where the next run of literals starts.
	nextEmit := 0

	// Heuristic match skipping: If 32 bytes are scanned with no matches
	// found, start looking only at every other byte. If 32 more bytes are
	// scanned (or skipped), look at every third byte, etc.. When a match
	// is found, immediately go back to looking at every byte.
	skip := 32

	s := 0
	for s+MinMatch <= len(src) {
		seq := binary.LittleEndian.Uint32(src[s:])
		h := hash4(seq) & headMask
		candidate := int(table[h])
		table[h] = int32(s)

		if candidate == noPosition || s-candidate > maxDistance || binary.LittleEndian.Uint32(src[candidate:]) != seq {
			step := skip >> 5
			s += step
			skip += step
			continue
		}

		end := extendMatch(src[:min(len(src), s+maxLength)], candidate+MinMatch, s+MinMatch)
		dst = append(dst, Match{
			Unmatched: s - nextEmit,
			Length:    end - s,
			Distance:  s - candidate,
		})
		s = end
		nextEmit = s
		skip = 32

		// Index the position before the end of the match, so that
		// a repeat of the same data can be found right away.
		if s-1+MinMatch <= len(src) {
			table[hash4(binary.LittleEndian.Uint32(src[s-1:]))&headMask] = int32(s - 1)
		}
	}

	if nextEmit < len(src) {
		dst = append(dst, Match{
			Unmatched: len(src) - nextEmit,
		})
	}
	return dst
}
