package huffman

import "golang.org/x/exp/slices"

// A node is an item in one level of the package-merge construction: either
// a leaf for one symbol, or a package of two items from the level below.
type node struct {
	weight uint64
	symbol int // -1 for a package
}

// histogram counts the occurrences of each byte value in src.
func histogram(src []byte) *[256]uint32 {
	var h [256]uint32
	for _, c := range src {
		h[c]++
	}
	return &h
}

// codeLengths computes optimal code lengths, no longer than maxBits, for the
// symbols counted in hist, using the package-merge algorithm.
func codeLengths(hist *[256]uint32, maxBits int) (lengths [256]uint8) {
	var leaves []node
	for sym, count := range hist {
		if count > 0 {
			leaves = append(leaves, node{weight: uint64(count), symbol: sym})
		}
	}

	switch len(leaves) {
	case 0:
		return lengths
	case 1:
		lengths[leaves[0].symbol] = 1
		return lengths
	}

	// The leaves are already in symbol order, so a stable sort by weight
	// orders them by (weight, symbol).
	slices.SortStableFunc(leaves, func(a, b node) bool {
		return a.weight < b.weight
	})

	levels := make([][]node, maxBits)
	levels[0] = leaves
	for i := 1; i < maxBits; i++ {
		prev := levels[i-1]
		level := make([]node, 0, len(leaves)+len(prev)/2)
		li := 0
		for p := 0; p+1 < len(prev); p += 2 {
			pkg := node{
				weight: prev[p].weight + prev[p+1].weight,
				symbol: -1,
			}
			// Leaves go ahead of a package with the same weight.
			for li < len(leaves) && leaves[li].weight <= pkg.weight {
				level = append(level, leaves[li])
				li++
			}
			level = append(level, pkg)
		}
		level = append(level, leaves[li:]...)
		levels[i] = level
	}

	need := 2*len(leaves) - 2
	for i := maxBits - 1; i >= 0; i-- {
		packages := 0
		for _, n := range levels[i][:need] {
			if n.symbol < 0 {
				packages++
			} else {
				lengths[n.symbol]++
			}
		}
		need = 2 * packages
	}

	return lengths
}
