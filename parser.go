package lpz

// An AbsoluteMatch is like a Match, but it stores indexes into the byte
// stream instead of lengths.
type AbsoluteMatch struct {
	// Start is the index of the first byte.
	Start int

	// End is the index of the byte after the last byte
	// (so that End - Start = Length).
	End int

	// Match is the index of the previous data that matches
	// (Start - Match = Distance).
	Match int
}

func (m AbsoluteMatch) length() int {
	return m.End - m.Start
}

// A Searcher is the source of matches for a Parser. It is a lower-level
// interface than MatchFinder, only looking for matches at one position at a
// time.
type Searcher interface {
	// Search looks for matches at pos and appends them to dst.
	// In each match, Start and End must fall within the interval [min,max),
	// and Match < Start < End. Matches are appended in the order they were
	// found, each one longer than the one before.
	Search(dst []AbsoluteMatch, pos, min, max int) []AbsoluteMatch
}

// A Parser chooses which matches to use to compress the data.
type Parser interface {
	// Parse gets matches from src, chooses which ones to use, and appends
	// them to dst. The matches cover the range of bytes from start to end.
	Parse(dst []Match, src Searcher, start, end int) []Match
}

// A GreedyParser implements the greedy matching strategy: It goes from start
// to end, choosing the longest match at each position. Bytes where no match
// of at least MinMatch bytes is found are left as literals.
type GreedyParser struct{}

func (GreedyParser) Parse(dst []Match, src Searcher, start, end int) []Match {
	var matches []AbsoluteMatch
	s := start
	nextEmit := start

	for s < end {
		matches = src.Search(matches[:0], s, nextEmit, end)
		m := longestMatch(matches)
		if m.length() < MinMatch {
			s++
			continue
		}

		dst = append(dst, Match{
			Unmatched: m.Start - nextEmit,
			Length:    m.length(),
			Distance:  m.Start - m.Match,
		})
		s = m.End
		nextEmit = s
	}

	if nextEmit < end {
		dst = append(dst, Match{
			Unmatched: end - nextEmit,
		})
	}
	return dst
}

// A LazyParser is like GreedyParser, but before committing to a match it
// checks whether starting one byte later gives a longer one. If it does, the
// current byte is emitted as a literal and the check repeats from the new
// position.
type LazyParser struct{}

func (LazyParser) Parse(dst []Match, src Searcher, start, end int) []Match {
	var matches []AbsoluteMatch
	s := start
	nextEmit := start

	for s < end {
		matches = src.Search(matches[:0], s, nextEmit, end)
		m := longestMatch(matches)
		if m.length() < MinMatch {
			s++
			continue
		}

		for m.Start+1 < end {
			matches = src.Search(matches[:0], m.Start+1, nextEmit, end)
			next := longestMatch(matches)
			if next.length() <= m.length() {
				break
			}
			m = next
		}

		dst = append(dst, Match{
			Unmatched: m.Start - nextEmit,
			Length:    m.length(),
			Distance:  m.Start - m.Match,
		})
		s = m.End
		nextEmit = s
	}

	if nextEmit < end {
		dst = append(dst, Match{
			Unmatched: end - nextEmit,
		})
	}
	return dst
}

// longestMatch returns the longest of matches. When several have the same
// length, the first one wins.
func longestMatch(matches []AbsoluteMatch) AbsoluteMatch {
	var longest AbsoluteMatch

	for _, m := range matches {
		if m.length() > longest.length() {
			longest = m
		}
	}

	return longest
}
