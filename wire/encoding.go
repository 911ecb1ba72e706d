package wire

import "math"

// The encoding packs everything into a 64-character alphabet so drawings
// survive text transports: A-Z are 0-25, a-z are 26-51, 0-9 are 52-61,
// '+' is 62 and '/' is 63. Multi-character numbers are little-endian in
// 6-bit groups.

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// decodeBase64 maps one alphabet character back to its 6-bit value.
func decodeBase64(c byte) (uint8, error) {
	switch {
	case c >= 'A' && c <= 'Z':
		return c - 'A', nil
	case c >= 'a' && c <= 'z':
		return c - 'a' + 26, nil
	case c >= '0' && c <= '9':
		return c - '0' + 52, nil
	case c == '+':
		return 62, nil
	case c == '/':
		return 63, nil
	default:
		return 0, errBadNumber
	}
}

// appendU32 appends a u32 as 6 characters, least significant group first.
func appendU32(dst []byte, v uint32) []byte {
	for i := 0; i < 6; i++ {
		dst = append(dst, alphabet[v&0x3f])
		v >>= 6
	}
	return dst
}

// appendU64 appends a u64 as 11 characters, least significant group first.
func appendU64(dst []byte, v uint64) []byte {
	for i := 0; i < 11; i++ {
		dst = append(dst, alphabet[v&0x3f])
		v >>= 6
	}
	return dst
}

// appendF32 appends a f32 as its IEEE bit pattern, so values round-trip
// exactly.
func appendF32(dst []byte, v float32) []byte {
	return appendU32(dst, math.Float32bits(v))
}

// appendCompact appends a variable-length number: 5 data bits per
// character with the 0x20 bit set while more characters follow. Small IDs
// take one character.
func appendCompact(dst []byte, v uint64) []byte {
	for {
		group := byte(v & 0x1f)
		v >>= 5
		if v != 0 {
			group |= 0x20
		}
		dst = append(dst, alphabet[group])
		if v == 0 {
			return dst
		}
	}
}

// appendBytes appends a length-prefixed byte string: a compact length,
// then the bytes packed three per four characters (zero padded at the
// end).
func appendBytes(dst []byte, data []byte) []byte {
	dst = appendCompact(dst, uint64(len(data)))

	for i := 0; i < len(data); i += 3 {
		var b0, b1, b2 byte
		b0 = data[i]
		if i+1 < len(data) {
			b1 = data[i+1]
		}
		if i+2 < len(data) {
			b2 = data[i+2]
		}

		dst = append(dst,
			alphabet[b0&0x3f],
			alphabet[(b0>>6)|((b1&0x0f)<<2)],
			alphabet[(b1>>4)|((b2&0x03)<<4)],
			alphabet[b2>>2])
	}
	return dst
}

// appendString appends a length-prefixed string: a compact byte length,
// then the UTF-8 bytes verbatim.
func appendString(dst []byte, s string) []byte {
	dst = appendCompact(dst, uint64(len(s)))
	return append(dst, s...)
}

// parseU32 reads 6 characters from p.
func parseU32(p []byte) (uint32, []byte, error) {
	if len(p) < 6 {
		return 0, p, errBadNumber
	}
	var v uint32
	for i := 0; i < 6; i++ {
		g, err := decodeBase64(p[i])
		if err != nil {
			return 0, p, err
		}
		v |= uint32(g) << (6 * i)
	}
	return v, p[6:], nil
}

// parseU64 reads 11 characters from p.
func parseU64(p []byte) (uint64, []byte, error) {
	if len(p) < 11 {
		return 0, p, errBadNumber
	}
	var v uint64
	for i := 0; i < 11; i++ {
		g, err := decodeBase64(p[i])
		if err != nil {
			return 0, p, err
		}
		v |= uint64(g) << (6 * i)
	}
	return v, p[11:], nil
}

// parseF32 reads 6 characters from p as an IEEE bit pattern.
func parseF32(p []byte) (float32, []byte, error) {
	bits, rest, err := parseU32(p)
	if err != nil {
		return 0, p, err
	}
	return math.Float32frombits(bits), rest, nil
}

// tryParseF32 is parseF32 returning ok=false when p is too short.
func tryParseF32(p []byte) (float32, []byte, bool, error) {
	if len(p) < 6 {
		return 0, p, false, nil
	}
	v, rest, err := parseF32(p)
	if err != nil {
		return 0, p, false, err
	}
	return v, rest, true, nil
}

// tryParseCompact reads a variable-length number, returning ok=false when
// p ends before the number does.
func tryParseCompact(p []byte) (uint64, []byte, bool, error) {
	var v uint64
	var shift uint

	for i := 0; i < len(p); i++ {
		if shift >= 64 {
			return 0, p, false, errBadNumber
		}
		g, err := decodeBase64(p[i])
		if err != nil {
			return 0, p, false, err
		}
		v |= uint64(g&0x1f) << shift
		if g&0x20 == 0 {
			return v, p[i+1:], true, nil
		}
		shift += 5
	}
	return 0, p, false, nil
}
