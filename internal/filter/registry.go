// Package filter implements the stream-filter pipeline of spec §4.4.1:
// a named decoder registry applied left-to-right over a stream's raw
// bytes. FlateDecode is mandatory; LZWDecode, ASCIIHexDecode,
// ASCII85Decode, and RunLengthDecode are wired in as extensions (spec:
// "the design is open to extension but only one is mandatory").
package filter

import (
	"fmt"

	"github.com/arvolab/pdfstructure/internal/types"
)

// DecodeFunc decodes one filter's worth of a stream's bytes, given that
// filter's entry (if any) from the stream dictionary's /DecodeParms.
type DecodeFunc func(data []byte, parms types.Dict) ([]byte, error)

// Registry maps a filter name (without leading slash) to its decoder.
// It is passed explicitly into the object parser rather than consulted
// through a package-level singleton (spec §9, "Global state": "model it
// as an explicit registry passed into the parser... to keep tests
// hermetic").
type Registry map[string]DecodeFunc

// UnknownFilterError is returned by Apply when a stream names a filter
// absent from the registry. The pdf package converts it to an
// *Error{Kind: UnknownFilter}; it is exported so callers assembling their
// own registries can recognize it too.
type UnknownFilterError struct {
	Name string
}

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("unknown filter %q", e.Name)
}

// NewDefaultRegistry returns the registry used when no Options override
// is supplied: FlateDecode (mandatory), plus LZWDecode, ASCIIHexDecode,
// ASCII85Decode, and RunLengthDecode as extensions.
func NewDefaultRegistry() Registry {
	return Registry{
		"FlateDecode":     FlateDecode,
		"LZWDecode":       LZWDecode,
		"ASCIIHexDecode":  ASCIIHexDecode,
		"ASCII85Decode":   ASCII85Decode,
		"RunLengthDecode": RunLengthDecode,
	}
}

// Apply runs data through each named filter in order, each filter's
// output feeding the next (spec §4.4.1). params, if non-nil, must have
// the same length as names; a nil entry means "no DecodeParms for this
// filter".
func (r Registry) Apply(data []byte, names []types.Name, params []types.Dict) ([]byte, error) {
	for i, name := range names {
		fn, ok := r[string(name)]
		if !ok {
			return nil, &UnknownFilterError{Name: string(name)}
		}
		var parms types.Dict
		if params != nil {
			parms = params[i]
		}
		decoded, err := fn(data, parms)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", name, err)
		}
		data = decoded
	}
	return data, nil
}

func parmInt(parms types.Dict, key string, def int) int {
	v, ok := parms[types.Name(key)]
	if !ok {
		return def
	}
	n, ok := v.(int64)
	if !ok {
		return def
	}
	return int(n)
}

func parmBool(parms types.Dict, key string, def bool) bool {
	v, ok := parms[types.Name(key)]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}
