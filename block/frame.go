package block

import (
	"encoding/binary"

	"github.com/andybalholm/lpz"
)

// A Pipeline splits its input into blocks and compresses or decompresses
// them in order. The zero value is ready to use.
type Pipeline struct {
	// MatchFinder is used for the lz77 stage. The default is a HashChain
	// with default settings.
	MatchFinder lpz.MatchFinder

	// BlockSize is the size of the blocks the input is split into when
	// compressing. The default (and maximum) is MaxBlockSize.
	BlockSize int

	// Progress, if it is not nil, is called after each block with the
	// number of bytes of input consumed and output produced so far.
	Progress func(in, out int)
}

// Compress compresses data with the default Pipeline settings.
func Compress(data []byte) ([]byte, error) {
	var p Pipeline
	return p.Compress(data)
}

// Decompress decompresses a stream produced by Compress.
func Decompress(data []byte) ([]byte, error) {
	var p Pipeline
	return p.Decompress(data)
}

func (p *Pipeline) blockSize() int {
	if p.BlockSize <= 0 || p.BlockSize > MaxBlockSize {
		return MaxBlockSize
	}
	return p.BlockSize
}

// Compress splits data into blocks, compresses each one, and returns the
// framed blocks. If a block fails, no output is returned.
func (p *Pipeline) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errEmpty
	}
	blockSize := p.blockSize()
	mf := p.MatchFinder
	if mf == nil {
		mf = &lpz.HashChain{}
	}
	mf.Reset()

	var dst []byte
	for i, start := 0, 0; start < len(data); i, start = i+1, start+blockSize {
		end := min(start+blockSize, len(data))
		compressed, err := compressBlock(data[start:end], mf)
		if err != nil {
			return nil, lpz.Wrap(lpz.SystemError, err, "block %d", i)
		}
		dst = binary.LittleEndian.AppendUint32(dst, uint32(len(compressed)))
		dst = append(dst, compressed...)
		if p.Progress != nil {
			p.Progress(end, len(dst))
		}
	}
	return dst, nil
}

// Decompress decompresses each frame of data in order, and returns the
// concatenated output. If a frame fails, no output is returned.
func (p *Pipeline) Decompress(data []byte) ([]byte, error) {
	frames, err := Frames(data)
	if err != nil {
		return nil, err
	}

	var dst []byte
	in := 0
	for i, f := range frames {
		decompressed, err := DecompressBlock(f)
		if err != nil {
			return nil, lpz.Wrap(lpz.SystemError, err, "block %d", i)
		}
		dst = append(dst, decompressed...)
		in += 4 + len(f)
		if p.Progress != nil {
			p.Progress(in, len(dst))
		}
	}
	return dst, nil
}

// Frames splits a compressed stream into its frame payloads, without
// decompressing them. The payloads share storage with data.
func Frames(data []byte) ([][]byte, error) {
	if len(data) == 0 {
		return nil, errEmpty
	}

	var frames [][]byte
	for rest := data; len(rest) > 0; {
		if len(rest) < 4 {
			return nil, lpz.Errorf(lpz.InputError, "block %d: truncated frame header", len(frames))
		}
		n := binary.LittleEndian.Uint32(rest)
		rest = rest[4:]
		if uint64(n) > uint64(len(rest)) {
			return nil, lpz.Errorf(lpz.InputError, "block %d: frame size %d exceeds remaining input (%d bytes)", len(frames), n, len(rest))
		}
		frames = append(frames, rest[:n])
		rest = rest[n:]
	}
	return frames, nil
}
