package descriptor

const hexDigits = "0123456789ABCDEF"

// Text renders the bytes as space separated uppercase hex pairs, breaking
// the line with CRLF every columns bytes. columns <= 0 keeps a single line.
func (b *Buffer) Text(columns int) string {
	return string(appendHex(nil, b.data, columns))
}

func appendHex(dst, data []byte, columns int) []byte {
	for i, c := range data {
		if i > 0 {
			if columns > 0 && i%columns == 0 {
				dst = append(dst, '\r', '\n')
			} else {
				dst = append(dst, ' ')
			}
		}
		dst = appendByte(dst, c)
	}
	return dst
}

func appendByte(dst []byte, c byte) []byte {
	return append(dst, hexDigits[c>>4], hexDigits[c&15])
}

func fromHex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isPunct(c byte) bool {
	if c <= ' ' || c >= 0x7F {
		return false
	}
	_, hex := fromHex(c)
	alpha := (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
	return !hex && !alpha
}
