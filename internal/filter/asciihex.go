package filter

import (
	"fmt"

	"github.com/arvolab/pdfstructure/internal/types"
)

// ASCIIHexDecode decodes the ASCIIHexDecode filter (ISO 32000-1 §7.4.2):
// pairs of hex digits, whitespace ignored, terminated by '>'. An odd
// trailing digit is treated as if followed by '0'.
func ASCIIHexDecode(data []byte, _ types.Dict) ([]byte, error) {
	out := make([]byte, 0, len(data)/2)
	var hi byte
	haveHi := false

	for _, c := range data {
		if c == '>' {
			break
		}
		if isHexDecodeSpace(c) {
			continue
		}
		v, ok := hexDigit(c)
		if !ok {
			return nil, fmt.Errorf("asciihex: invalid digit %q", c)
		}
		if !haveHi {
			hi = v
			haveHi = true
			continue
		}
		out = append(out, hi<<4|v)
		haveHi = false
	}
	if haveHi {
		out = append(out, hi<<4)
	}
	return out, nil
}

func isHexDecodeSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
