package filter

import (
	"fmt"
	"log/slog"

	"github.com/arvolab/pdfstructure/internal/types"
)

// ASCII85Decode decodes the ASCII85Decode filter (ISO 32000-1 §7.4.3):
// groups of five base-85 digits packed into four bytes, the all-zero
// group abbreviated "z", and the stream terminated by the two-byte
// marker "~>". Whitespace between digits is ignored.
func ASCII85Decode(data []byte, parms types.Dict) ([]byte, error) {
	if parms != nil {
		slog.Warn("ascii85decode: unexpected DecodeParms", "parms", parms)
	}

	var out []byte
	var group [5]byte
	n := 0

	flush := func(count int) error {
		if count == 0 {
			return nil
		}
		for i := count; i < 5; i++ {
			group[i] = '!' + 84 // 'u', the maximal digit, pads short final groups
		}
		var v uint32
		for _, c := range group {
			v = v*85 + uint32(c-'!')
		}
		buf := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
		out = append(out, buf[:count-1]...)
		return nil
	}

	i := 0
	for i < len(data) {
		c := data[i]
		if c == '~' {
			break
		}
		if isHexDecodeSpace(c) {
			i++
			continue
		}
		if c == 'z' {
			if n != 0 {
				return nil, fmt.Errorf("ascii85: 'z' inside a group")
			}
			out = append(out, 0, 0, 0, 0)
			i++
			continue
		}
		if c < '!' || c > 'u' {
			return nil, fmt.Errorf("ascii85: invalid digit %q", c)
		}
		group[n] = c
		n++
		if n == 5 {
			if err := flush(5); err != nil {
				return nil, err
			}
			n = 0
		}
		i++
	}
	if n == 1 {
		return nil, fmt.Errorf("ascii85: final group has a single digit")
	}
	if err := flush(n); err != nil {
		return nil, err
	}
	return out, nil
}
