package huffman

// A bitWriter packs variable-length codes into a byte slice, least
// significant bit first.
type bitWriter struct {
	dst []byte
	// bits is a buffer of unwritten bits; the next bit to be written is
	// the lowest one.
	bits  uint64
	nbits uint // always < 32 between calls to writeBits
}

// writeBits writes the low n bits of code. n must not exceed 32.
func (w *bitWriter) writeBits(code uint32, n uint) {
	w.bits |= uint64(code) << w.nbits
	w.nbits += n
	if w.nbits >= 32 {
		w.dst = append(w.dst, byte(w.bits), byte(w.bits>>8), byte(w.bits>>16), byte(w.bits>>24))
		w.bits >>= 32
		w.nbits -= 32
	}
}

// flush writes out any buffered bits, zero-padding the last byte on the
// high side, and returns the output.
func (w *bitWriter) flush() []byte {
	for w.nbits > 0 {
		w.dst = append(w.dst, byte(w.bits))
		w.bits >>= 8
		if w.nbits > 8 {
			w.nbits -= 8
		} else {
			w.nbits = 0
		}
	}
	return w.dst
}

// A bitReader reads bits from a byte slice in the order a bitWriter writes
// them.
type bitReader struct {
	src   []byte
	pos   int
	bits  uint64
	nbits uint
}

// refill loads whole bytes into the buffer until it holds more than 56 bits
// or the input is exhausted.
func (r *bitReader) refill() {
	for r.nbits <= 56 && r.pos < len(r.src) {
		r.bits |= uint64(r.src[r.pos]) << r.nbits
		r.pos++
		r.nbits += 8
	}
}

// peek returns the low n buffered bits. Bits past the end of the input
// read as zero.
func (r *bitReader) peek(n uint) uint64 {
	return r.bits & (1<<n - 1)
}

func (r *bitReader) consume(n uint) {
	r.bits >>= n
	r.nbits -= n
}
