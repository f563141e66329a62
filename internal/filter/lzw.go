package filter

import (
	"bytes"
	"fmt"
	"io"

	"github.com/arvolab/pdfstructure/internal/types"
	"github.com/hhrutter/lzw"
)

// LZWDecode decodes the PDF/TIFF variant of LZW (MSB-first, variable code
// width, with the early-change-by-one convention of ISO 32000-1 Table 8).
// This is not the same bitstream as the standard library's compress/lzw,
// which is why the registry reaches for a third-party decoder rather than
// the stdlib package of the same name.
func LZWDecode(data []byte, parms types.Dict) ([]byte, error) {
	earlyChange := parmBool(parms, "EarlyChange", true)

	r := lzw.NewReader(bytes.NewReader(data), earlyChange)
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("lzw: %w", err)
	}
	if parms == nil {
		return out, nil
	}

	predictor := parmInt(parms, "Predictor", 1)
	colors := parmInt(parms, "Colors", 1)
	bpc := parmInt(parms, "BitsPerComponent", 8)
	columns := parmInt(parms, "Columns", 1)
	return applyPredictor(out, predictor, colors, bpc, columns)
}
