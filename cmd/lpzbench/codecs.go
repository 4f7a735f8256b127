package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/andybalholm/lpz"
	"github.com/andybalholm/lpz/block"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// A codec is one compressor under test. decompress is given the size of
// the original data, for formats that don't record it.
type codec struct {
	name       string
	compress   func(src []byte) ([]byte, error)
	decompress func(src []byte, size int) ([]byte, error)
}

// newCodec returns the codec described by c. A Level of 0 selects the
// codec's default.
func newCodec(c CodecConfig) (codec, error) {
	switch c.Name {
	case "lpz", "lpz-lazy", "lpz-fast":
		var mf lpz.MatchFinder
		switch c.Name {
		case "lpz":
			mf = &lpz.HashChain{SearchLen: c.Level}
		case "lpz-lazy":
			mf = &lpz.HashChain{SearchLen: c.Level, Parser: lpz.LazyParser{}}
		case "lpz-fast":
			mf = &lpz.QuickMatchFinder{}
		}
		p := &block.Pipeline{MatchFinder: mf}
		return codec{
			name:     c.label(),
			compress: p.Compress,
			decompress: func(src []byte, size int) ([]byte, error) {
				return p.Decompress(src)
			},
		}, nil

	case "zstd":
		level := zstd.SpeedDefault
		if c.Level != 0 {
			level = zstd.EncoderLevelFromZstd(c.Level)
		}
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level), zstd.WithEncoderConcurrency(1))
		if err != nil {
			return codec{}, err
		}
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return codec{}, err
		}
		return codec{
			name: c.label(),
			compress: func(src []byte) ([]byte, error) {
				return enc.EncodeAll(src, nil), nil
			},
			decompress: func(src []byte, size int) ([]byte, error) {
				return dec.DecodeAll(src, make([]byte, 0, size))
			},
		}, nil

	case "s2":
		encode := s2.Encode
		switch {
		case c.Level >= 3:
			encode = s2.EncodeBest
		case c.Level == 2:
			encode = s2.EncodeBetter
		}
		return codec{
			name: c.label(),
			compress: func(src []byte) ([]byte, error) {
				return encode(nil, src), nil
			},
			decompress: func(src []byte, size int) ([]byte, error) {
				return s2.Decode(make([]byte, size), src)
			},
		}, nil

	case "flate":
		level := flate.DefaultCompression
		if c.Level != 0 {
			level = c.Level
		}
		return codec{
			name: c.label(),
			compress: func(src []byte) ([]byte, error) {
				var buf bytes.Buffer
				w, err := flate.NewWriter(&buf, level)
				if err != nil {
					return nil, err
				}
				if _, err := w.Write(src); err != nil {
					return nil, err
				}
				if err := w.Close(); err != nil {
					return nil, err
				}
				return buf.Bytes(), nil
			},
			decompress: func(src []byte, size int) ([]byte, error) {
				r := flate.NewReader(bytes.NewReader(src))
				defer r.Close()
				return io.ReadAll(r)
			},
		}, nil

	case "snappy":
		return codec{
			name: c.label(),
			compress: func(src []byte) ([]byte, error) {
				return snappy.Encode(nil, src), nil
			},
			decompress: func(src []byte, size int) ([]byte, error) {
				return snappy.Decode(make([]byte, size), src)
			},
		}, nil

	case "lz4":
		var level lz4.CompressionLevel
		if c.Level > 0 {
			// lz4.Level1 through lz4.Level9
			level = lz4.CompressionLevel(1 << (7 + min(c.Level, 9)))
		}
		return codec{
			name:       c.label(),
			compress:   lz4Compress(level),
			decompress: lz4Decompress,
		}, nil

	case "brotli":
		level := brotli.DefaultCompression
		if c.Level != 0 {
			level = c.Level
		}
		return codec{
			name: c.label(),
			compress: func(src []byte) ([]byte, error) {
				var buf bytes.Buffer
				w := brotli.NewWriterLevel(&buf, level)
				if _, err := w.Write(src); err != nil {
					return nil, err
				}
				if err := w.Close(); err != nil {
					return nil, err
				}
				return buf.Bytes(), nil
			},
			decompress: func(src []byte, size int) ([]byte, error) {
				return io.ReadAll(brotli.NewReader(bytes.NewReader(src)))
			},
		}, nil
	}

	return codec{}, fmt.Errorf("unknown codec %q", c.Name)
}

// lz4Compress returns a function that compresses with the LZ4 block
// format. A level of 0 uses the fast compressor; anything else uses the
// high-compression one. Data that LZ4 can't compress is stored, with a
// leading 0 byte instead of 1.
func lz4Compress(level lz4.CompressionLevel) func([]byte) ([]byte, error) {
	return func(src []byte) ([]byte, error) {
		dst := make([]byte, 1+lz4.CompressBlockBound(len(src)))
		var n int
		var err error
		if level == 0 {
			n, err = lz4.CompressBlock(src, dst[1:], nil)
		} else {
			n, err = lz4.CompressBlockHC(src, dst[1:], level, nil, nil)
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return append([]byte{0}, src...), nil
		}
		dst[0] = 1
		return dst[:1+n], nil
	}
}

func lz4Decompress(src []byte, size int) ([]byte, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("lz4: empty input")
	}
	if src[0] == 0 {
		return append([]byte(nil), src[1:]...), nil
	}
	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(src[1:], dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}
