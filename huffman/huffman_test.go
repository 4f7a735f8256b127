package huffman

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/andybalholm/lpz"
)

func testText(n int) []byte {
	words := strings.Fields("it is a truth universally acknowledged that a single man in possession of a good fortune must be in want of a wife")
	r := rand.New(rand.NewSource(3))
	var b strings.Builder
	for b.Len() < n {
		b.WriteString(words[r.Intn(len(words))])
		b.WriteByte(' ')
	}
	return []byte(b.String()[:n])
}

func roundTrip(t *testing.T, data []byte) []byte {
	t.Helper()
	compressed, err := Encode(data)
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

func TestSingleSymbol(t *testing.T) {
	data := bytes.Repeat([]byte{42}, 9)
	compressed := roundTrip(t, data)
	if len(compressed) != HeaderSize+2 {
		t.Fatalf("compressed size is %d, want %d", len(compressed), HeaderSize+2)
	}
	if compressed[42] != 1 {
		t.Fatalf("code length for 42 is %d, want 1", compressed[42])
	}
}

func TestRoundTrip(t *testing.T) {
	random := make([]byte, 100000)
	rand.New(rand.NewSource(1)).Read(random)

	allBytes := make([]byte, 256*3)
	for i := range allBytes {
		allBytes[i] = byte(i)
	}

	for _, data := range [][]byte{
		{0},
		{255},
		[]byte("ab"),
		allBytes,
		random,
		testText(131072),
	} {
		roundTrip(t, data)
	}
}

func TestEmptyInput(t *testing.T) {
	if _, err := Encode(nil); !lpz.IsInput(err) {
		t.Fatalf("Encode(nil) returned %v, want an input error", err)
	}
	if _, err := Decode(nil); !lpz.IsInput(err) {
		t.Fatalf("Decode(nil) returned %v, want an input error", err)
	}
	if _, err := Decode(make([]byte, HeaderSize-1)); !lpz.IsInput(err) {
		t.Fatalf("Decode of a short header returned %v, want an input error", err)
	}
}

func makeHeader(lengths map[byte]uint8, size uint32) []byte {
	h := make([]byte, HeaderSize)
	for sym, l := range lengths {
		h[sym] = l
	}
	binary.LittleEndian.PutUint32(h[256:], size)
	return h
}

func TestCorruptHeader(t *testing.T) {
	for _, c := range []struct {
		name string
		src  []byte
	}{
		{"length too long", append(makeHeader(map[byte]uint8{'a': 15, 'b': 1}, 1), 0)},
		{"over-subscribed", append(makeHeader(map[byte]uint8{'a': 1, 'b': 1, 'c': 1}, 1), 0)},
		{"no symbols", append(makeHeader(nil, 1), 0)},
		{"zero size", append(makeHeader(map[byte]uint8{'a': 1}, 0), 0)},
		{"size too large", append(makeHeader(map[byte]uint8{'a': 1}, math.MaxUint32), 0)},
		{"invalid code", append(makeHeader(map[byte]uint8{'a': 1}, 1), 1)},
		{"not enough data", append(makeHeader(map[byte]uint8{'a': 1}, 9), 0)},
		{"truncated code", append(makeHeader(map[byte]uint8{'a': 1, 'b': 2, 'c': 2}, 5), 0xff)},
	} {
		if _, err := Decode(c.src); !lpz.IsInput(err) {
			t.Errorf("%s: got %v, want an input error", c.name, err)
		}
	}
}

func TestTruncatedStream(t *testing.T) {
	compressed, err := Encode(testText(10000))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(compressed[:len(compressed)-100]); !lpz.IsInput(err) {
		t.Fatalf("got %v, want an input error", err)
	}
}

func TestReadHeader(t *testing.T) {
	compressed, err := Encode([]byte("hello, world"))
	if err != nil {
		t.Fatal(err)
	}
	h, err := ReadHeader(compressed)
	if err != nil {
		t.Fatal(err)
	}
	if h.Size != 12 {
		t.Fatalf("Size = %d, want 12", h.Size)
	}
	if n := h.Symbols(); n != 9 {
		t.Fatalf("Symbols() = %d, want 9", n)
	}
}

func TestCodeLengths(t *testing.T) {
	var hist [256]uint32
	hist['a'] = 1
	hist['b'] = 1
	hist['c'] = 2
	lengths := codeLengths(&hist, MaxCodeLength)
	if lengths['a'] != 2 || lengths['b'] != 2 || lengths['c'] != 1 {
		t.Fatalf("got lengths a=%d b=%d c=%d, want 2, 2, 1", lengths['a'], lengths['b'], lengths['c'])
	}

	codes, err := canonicalCodes(&lengths)
	if err != nil {
		t.Fatal(err)
	}
	// c=0, a=10, b=11, bit-reversed.
	if codes['c'] != 0 || codes['a'] != 1 || codes['b'] != 3 {
		t.Fatalf("got codes a=%b b=%b c=%b", codes['a'], codes['b'], codes['c'])
	}
}

func kraftSum(lengths *[256]uint8) int {
	sum := 0
	for _, l := range lengths {
		if l != 0 {
			sum += 1 << (MaxCodeLength - l)
		}
	}
	return sum
}

func TestCodeLengthsLimited(t *testing.T) {
	// Fibonacci weights would give a 29-bit code without a length limit.
	var hist [256]uint32
	a, b := uint32(1), uint32(1)
	for i := 0; i < 30; i++ {
		hist[i] = a
		a, b = b, a+b
	}
	lengths := codeLengths(&hist, MaxCodeLength)
	for sym, l := range lengths {
		if l > MaxCodeLength {
			t.Fatalf("symbol %d has length %d", sym, l)
		}
		if (hist[sym] != 0) != (l != 0) {
			t.Fatalf("symbol %d has count %d and length %d", sym, hist[sym], l)
		}
	}
	if sum := kraftSum(&lengths); sum != 1<<MaxCodeLength {
		t.Fatalf("Kraft sum is %d/%d, want 1", sum, 1<<MaxCodeLength)
	}
}

func TestCodeLengthsComplete(t *testing.T) {
	lengths := codeLengths(histogram(testText(50000)), MaxCodeLength)
	if sum := kraftSum(&lengths); sum != 1<<MaxCodeLength {
		t.Fatalf("Kraft sum is %d/%d, want 1", sum, 1<<MaxCodeLength)
	}
}

func TestBitWriterReader(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	type code struct {
		value uint32
		n     uint
	}
	var codes []code
	var w bitWriter
	for i := 0; i < 1000; i++ {
		n := uint(r.Intn(MaxCodeLength) + 1)
		c := code{uint32(r.Intn(1 << n)), n}
		codes = append(codes, c)
		w.writeBits(c.value, c.n)
	}
	out := w.flush()

	br := bitReader{src: out}
	for i, c := range codes {
		if br.nbits < c.n {
			br.refill()
		}
		if got := uint32(br.peek(c.n)); got != c.value {
			t.Fatalf("code %d: got %b, want %b", i, got, c.value)
		}
		br.consume(c.n)
	}
}

func TestEstimateRatio(t *testing.T) {
	if r := EstimateRatio(nil); r != 0 {
		t.Fatalf("EstimateRatio(nil) = %v", r)
	}

	same := bytes.Repeat([]byte{'x'}, 10000)
	want := float64(HeaderSize+10000/8) / 10000
	if r := EstimateRatio(same); r != want {
		t.Fatalf("EstimateRatio on repeated bytes = %v, want %v", r, want)
	}

	random := make([]byte, 50000)
	rand.New(rand.NewSource(2)).Read(random)
	for _, data := range [][]byte{random, testText(50000)} {
		compressed, err := Encode(data)
		if err != nil {
			t.Fatal(err)
		}
		measured := float64(len(compressed)) / float64(len(data))
		if r := EstimateRatio(data); r < measured-0.001 {
			t.Fatalf("EstimateRatio = %v, measured %v", r, measured)
		}
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte{42, 42, 42})
	f.Add(testText(500))
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

func BenchmarkEncode(b *testing.B) {
	data := testText(1 << 17)
	b.SetBytes(int64(len(data)))
	var compressed []byte
	for i := 0; i < b.N; i++ {
		compressed, _ = Encode(data)
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
