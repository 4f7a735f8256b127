package lpz

import "strconv"

// A TextEncoder is an Encoder that produces a human-readable representation of
// the LZ77 compression. Matches are replaced with <Length,Distance> symbols.
//
// Literal bytes that would make the output ambiguous ('<' and '\\') are
// escaped with a backslash, and bytes outside printable ASCII (other than
// newline and tab) are written as \xNN.
type TextEncoder struct{}

func (t TextEncoder) Header(dst []byte) []byte {
	return dst
}

func (t TextEncoder) Reset() {}

func (t TextEncoder) Encode(dst []byte, src []byte, matches []Match) []byte {
	pos := 0
	for _, m := range matches {
		if m.Unmatched > 0 {
			dst = appendLiterals(dst, src[pos:pos+m.Unmatched])
			pos += m.Unmatched
		}
		if m.Length > 0 {
			dst = append(dst, '<')
			dst = strconv.AppendInt(dst, int64(m.Length), 10)
			dst = append(dst, ',')
			dst = strconv.AppendInt(dst, int64(m.Distance), 10)
			dst = append(dst, '>')
			pos += m.Length
		}
	}
	if pos < len(src) {
		dst = appendLiterals(dst, src[pos:])
	}
	return dst
}

const hexDigits = "0123456789abcdef"

func appendLiterals(dst, lit []byte) []byte {
	for _, c := range lit {
		switch {
		case c == '<' || c == '\\':
			dst = append(dst, '\\', c)
		case c == '\n' || c == '\t' || (c >= ' ' && c < 0x7f):
			dst = append(dst, c)
		default:
			dst = append(dst, '\\', 'x', hexDigits[c>>4], hexDigits[c&15])
		}
	}
	return dst
}
