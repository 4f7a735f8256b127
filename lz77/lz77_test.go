package lz77

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/andybalholm/lpz"
	"github.com/pierrec/lz4/v4"
)

func testText(n int) []byte {
	words := strings.Fields("when in the course of human events it becomes necessary for one people to dissolve the political bands which have connected them with another and to assume among the powers of the earth separate and equal station")
	r := rand.New(rand.NewSource(7))
	var b strings.Builder
	for b.Len() < n {
		b.WriteString(words[r.Intn(len(words))])
		b.WriteByte(' ')
	}
	return []byte(b.String()[:n])
}

func roundTrip(t *testing.T, data []byte, mf lpz.MatchFinder) []byte {
	t.Helper()
	compressed, err := AppendEncode(nil, data, mf)
	if err != nil {
		t.Fatal(err)
	}
	decompressed, err := Decode(compressed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatal("Decompressed output does not match")
	}
	return compressed
}

func TestKnownEncoding(t *testing.T) {
	got, err := Encode([]byte("abcdabcdabcd"))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x44, 'a', 'b', 'c', 'd', 4, 0, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode = %x, want %x", got, want)
	}
}

func TestLongLiteralRun(t *testing.T) {
	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i)
	}
	got, err := Encode(data)
	if err != nil {
		t.Fatal(err)
	}
	want := append([]byte{0xf0, 5}, data...)
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode = %x, want %x", got, want)
	}
	roundTrip(t, data, nil)
}

func TestRoundTrip(t *testing.T) {
	random := make([]byte, 70000)
	rand.New(rand.NewSource(1)).Read(random)

	for _, data := range [][]byte{
		{'x'},
		[]byte("abc"),
		bytes.Repeat([]byte{0}, 1000),
		bytes.Repeat([]byte("ab"), 40000),
		random,
		testText(131072),
	} {
		roundTrip(t, data, nil)
		roundTrip(t, data, &lpz.HashChain{Parser: lpz.LazyParser{}})
	}
}

func TestLongMatch(t *testing.T) {
	data := append([]byte("header"), bytes.Repeat([]byte{'z'}, 70000)...)
	compressed := roundTrip(t, data, nil)
	if len(compressed) > 1000 {
		t.Fatalf("70000 repeated bytes compressed to %d bytes", len(compressed))
	}
}

func TestEmptyInput(t *testing.T) {
	if _, err := Encode(nil); !lpz.IsInput(err) {
		t.Fatalf("Encode(nil) returned %v, want an input error", err)
	}
	if _, err := Decode(nil); !lpz.IsInput(err) {
		t.Fatalf("Decode(nil) returned %v, want an input error", err)
	}
}

func TestCorruptInput(t *testing.T) {
	for _, c := range []struct {
		name string
		src  []byte
	}{
		{"zero distance", []byte{0x10, 'a', 0, 0, 0x00}},
		{"distance too far", []byte{0x10, 'a', 2, 0, 0x00}},
		{"missing distance", []byte{0x14, 'a', 1}},
		{"truncated literals", []byte{0x50, 'a', 'b'}},
		{"truncated literal length", []byte{0xf0, 255}},
		{"truncated match length", []byte{0x1f, 'a', 1, 0}},
		{"missing final token", []byte{0x10, 'a', 1, 0}},
	} {
		if _, err := Decode(c.src); !lpz.IsInput(err) {
			t.Errorf("%s: got %v, want an input error", c.name, err)
		}
	}
}

func TestDecodeLimit(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 100)
	compressed, err := Encode(data)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeLimit(compressed, len(data)-1); !lpz.IsInput(err) {
		t.Fatalf("DecodeLimit below the decoded size returned %v", err)
	}
	got, err := DecodeLimit(compressed, len(data))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("Decompressed output does not match")
	}
}

// lz4Compatible drops matches near the end of the block, as required by the
// LZ4 block format: the last 5 bytes must be literals, and the last match
// must start at least 12 bytes before the end.
func lz4Compatible(matches []lpz.Match) []lpz.Match {
	trailingLiterals := 0
	for len(matches) > 0 && (trailingLiterals < 5 || trailingLiterals+matches[len(matches)-1].Length < 12) {
		lastMatch := matches[len(matches)-1]
		matches = matches[:len(matches)-1]
		trailingLiterals += lastMatch.Unmatched + lastMatch.Length
	}
	return matches
}

func TestLZ4Interop(t *testing.T) {
	data := testText(100000)

	var mf lpz.HashChain
	matches := lz4Compatible(mf.FindMatches(nil, data))
	var e Encoder
	compressed := e.Encode(nil, data, matches)

	// Leave room for the decoder's wide copies near the end of the block.
	decompressed := make([]byte, len(data)+64)
	n, err := lz4.UncompressBlock(compressed, decompressed)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(data) {
		t.Fatalf("Got %d bytes, wanted %d", n, len(data))
	}
	if !bytes.Equal(decompressed[:n], data) {
		t.Fatal("Decompressed output does not match")
	}

	ours, err := Decode(compressed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ours, data) {
		t.Fatal("Decode output does not match")
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte("abcdabcdabcd"))
	f.Add(testText(1000))
	f.Fuzz(func(t *testing.T, ref []byte) {
		compressed, err := Encode(ref)
		if err != nil {
			return // empty input
		}
		decompressed, err := Decode(compressed)
		if err != nil {
			t.Fatalf("round-trip failed: %s", err)
		}
		if !bytes.Equal(ref, decompressed) {
			t.Fatal("round trip result is not equal to the input")
		}
	})
}

func FuzzDecode(f *testing.F) {
	f.Add([]byte{0x44, 'a', 'b', 'c', 'd', 4, 0, 0x00})
	f.Fuzz(func(t *testing.T, src []byte) {
		out, err := DecodeLimit(src, 1<<20)
		if err == nil && len(out) > 1<<20 {
			t.Fatalf("decoded %d bytes past the limit", len(out))
		}
	})
}

func BenchmarkEncode(b *testing.B) {
	data := testText(1 << 17)
	b.SetBytes(int64(len(data)))
	var compressed []byte
	var err error
	for i := 0; i < b.N; i++ {
		compressed, err = AppendEncode(compressed[:0], data, nil)
		if err != nil {
			b.Fatal(err)
		}
	}
	b.ReportMetric(float64(len(data))/float64(len(compressed)), "ratio")
}

func BenchmarkDecode(b *testing.B) {
	data := testText(1 << 17)
	compressed, err := Encode(data)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		if _, err := Decode(compressed); err != nil {
			b.Fatal(err)
		}
	}
}
