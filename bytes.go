package pdf

// Byte-class predicates over the PDF grammar (spec §4.1). These are the
// leaves every other component in this package is built from.

// isWhitespace reports whether b is one of PDF's six whitespace bytes.
func isWhitespace(b byte) bool {
	switch b {
	case 0x00, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

// isNewline reports whether b is one of PDF's two newline bytes.
func isNewline(b byte) bool {
	return b == '\n' || b == '\r'
}

// isDelim reports whether b is one of PDF's ten delimiter bytes.
func isDelim(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// isNumericStart reports whether b can legally begin a numeric token.
func isNumericStart(b byte) bool {
	return b == '+' || b == '-' || b == '.' || isDigit(b)
}

// isDigit reports whether b is an ASCII decimal digit.
func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// isOctalDigit reports whether b is an ASCII octal digit.
func isOctalDigit(b byte) bool {
	return '0' <= b && b <= '7'
}

// isAlpha reports whether b is an ASCII letter.
func isAlpha(b byte) bool {
	return 'A' <= b && b <= 'Z' || 'a' <= b && b <= 'z'
}

// isNameChar reports whether b may appear (unescaped) inside a name token:
// everything that is neither whitespace nor a delimiter.
func isNameChar(b byte) bool {
	return !isWhitespace(b) && !isDelim(b)
}

// peekByte returns the first byte of buf, or reports EndOfInput if buf is
// empty. It never consumes input; callers decide whether to advance.
func peekByte(buf []byte) (byte, error) {
	if len(buf) == 0 {
		return 0, errEndOfInput()
	}
	return buf[0], nil
}

func hexVal(b byte) int {
	switch {
	case '0' <= b && b <= '9':
		return int(b - '0')
	case 'a' <= b && b <= 'f':
		return int(b-'a') + 10
	case 'A' <= b && b <= 'F':
		return int(b-'A') + 10
	}
	return -1
}
