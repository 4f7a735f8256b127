// Package block chains the lz77 and huffman stages into a block codec, and
// frames a sequence of compressed blocks into an lpz stream.
//
// A stream is a sequence of frames, one per block, in input order. Each
// frame is the compressed size of the block as a 32-bit little-endian
// integer, followed by the compressed block.
package block

import (
	"github.com/andybalholm/lpz"
	"github.com/andybalholm/lpz/huffman"
	"github.com/andybalholm/lpz/lz77"
)

// MaxBlockSize is the largest block CompressBlock accepts, and the largest
// block DecompressBlock produces.
const MaxBlockSize = 128 << 10

var (
	errEmptyBlock = lpz.Errorf(lpz.InputError, "block: empty block")
	errEmpty      = lpz.Errorf(lpz.InputError, "block: empty input")
)

// CompressBlock compresses a single block with a default HashChain match
// finder.
func CompressBlock(src []byte) ([]byte, error) {
	return compressBlock(src, nil)
}

func compressBlock(src []byte, mf lpz.MatchFinder) ([]byte, error) {
	if len(src) == 0 {
		return nil, errEmptyBlock
	}
	if len(src) > MaxBlockSize {
		return nil, lpz.Errorf(lpz.InputError, "block: block size %d exceeds %d", len(src), MaxBlockSize)
	}

	tokens, err := lz77.AppendEncode(nil, src, mf)
	if err != nil {
		return nil, lpz.Wrap(lpz.SystemError, err, "block: lz77 stage")
	}
	out, err := huffman.Encode(tokens)
	if err != nil {
		return nil, lpz.Wrap(lpz.SystemError, err, "block: huffman stage")
	}
	return out, nil
}

// DecompressBlock decompresses a block produced by CompressBlock.
func DecompressBlock(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, errEmptyBlock
	}

	tokens, err := huffman.Decode(src)
	if err != nil {
		return nil, lpz.Wrap(lpz.SystemError, err, "block: huffman stage")
	}
	out, err := lz77.DecodeLimit(tokens, MaxBlockSize)
	if err != nil {
		return nil, lpz.Wrap(lpz.SystemError, err, "block: lz77 stage")
	}
	return out, nil
}
