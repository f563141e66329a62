package filter

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/arvolab/pdfstructure/internal/types"
)

// FlateDecode performs zlib inflate (the default zlib wrapping, not raw
// DEFLATE, per spec §4.4.1) and then reverses any PNG/TIFF predictor
// named in parms. This is the one mandatory filter.
func FlateDecode(data []byte, parms types.Dict) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
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
