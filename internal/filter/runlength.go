package filter

import (
	"fmt"

	"github.com/arvolab/pdfstructure/internal/types"
)

// RunLengthDecode decodes the RunLengthDecode filter (ISO 32000-1 §7.4.5):
// a length byte L followed by either L+1 literal bytes (0 <= L <= 127) or
// a single byte repeated 257-L times (128 <= L <= 255); L == 128
// terminates the stream early.
func RunLengthDecode(data []byte, _ types.Dict) ([]byte, error) {
	var out []byte
	i := 0
	for i < len(data) {
		l := data[i]
		i++
		switch {
		case l == 128:
			return out, nil
		case l < 128:
			n := int(l) + 1
			if i+n > len(data) {
				return nil, fmt.Errorf("runlength: literal run past end of data")
			}
			out = append(out, data[i:i+n]...)
			i += n
		default:
			if i >= len(data) {
				return nil, fmt.Errorf("runlength: repeat run past end of data")
			}
			n := 257 - int(l)
			for j := 0; j < n; j++ {
				out = append(out, data[i])
			}
			i++
		}
	}
	return out, nil
}
