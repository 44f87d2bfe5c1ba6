package protocol

const hexDigits = "0123456789ABCDEF"

// AppendHex appends the low width bytes of bits to dst as 2*width uppercase
// hex digits, most significant nibble first.
// Nibbles are taken with shifts so the result does not depend on host byte order.
func AppendHex(dst []byte, bits uint64, width int) []byte {
	for i := width*2 - 1; i >= 0; i-- {
		dst = append(dst, hexDigits[(bits>>(uint(i)*4))&0xF])
	}
	return dst
}

// EncodeHex returns the hex text for bits at the given width (2, 4 or 8 bytes)
func EncodeHex(bits uint64, width int) (string, error) {
	if !validWidth(width) {
		return "", ErrInvalidHexWidth
	}
	var buf [16]byte
	return string(AppendHex(buf[:0], bits, width)), nil
}

// EncodeValue returns the wire text of a numeric value
func EncodeValue(v Value) (string, error) {
	width := v.kind.Width()
	if width == 0 {
		return "", ErrValueKind
	}
	return EncodeHex(v.bits, width)
}

// DecodeHex parses hex digits produced by AppendHex back into a bit pattern.
// The input length must be 4, 8 or 16 characters.
func DecodeHex(s string) (uint64, error) {
	if len(s)%2 != 0 || !validWidth(len(s)/2) {
		return 0, ErrInvalidHex
	}
	var bits uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		var n byte
		switch {
		case c >= '0' && c <= '9':
			n = c - '0'
		case c >= 'A' && c <= 'F':
			n = c - 'A' + 10
		default:
			return 0, ErrInvalidHex
		}
		bits = bits<<4 | uint64(n)
	}
	return bits, nil
}

func validWidth(width int) bool {
	return width == 2 || width == 4 || width == 8
}
