package pdf

import (
	"errors"

	"github.com/arvolab/pdfstructure/internal/filter"
	"github.com/arvolab/pdfstructure/internal/types"
)

// decodeStream runs body through the filter chain named in the stream
// dictionary's /Filter entry (spec §4.4.1), using opts.Filters. /Filter
// may be a single Name or an Array of Names; /DecodeParms mirrors its
// shape, one Dict (or null) per filter.
func decodeStream(d types.Dict, body []byte, opts Options) ([]byte, error) {
	names, err := filterNames(d)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return body, nil
	}
	parms := decodeParms(d, len(names))

	registry := opts.Filters
	if registry == nil {
		registry = filter.NewDefaultRegistry()
	}

	decoded, err := registry.Apply(body, names, parms)
	if err != nil {
		var unknown *filter.UnknownFilterError
		if errors.As(err, &unknown) {
			return nil, errUnknownFilter(unknown.Name)
		}
		return nil, errSyntax(err.Error(), body)
	}
	return decoded, nil
}

func filterNames(d types.Dict) ([]types.Name, error) {
	v, ok := d[types.Name("Filter")]
	if !ok || v == nil {
		return nil, nil
	}
	switch f := v.(type) {
	case types.Name:
		return []types.Name{f}, nil
	case types.Array:
		names := make([]types.Name, 0, len(f))
		for _, e := range f {
			n, ok := e.(types.Name)
			if !ok {
				return nil, errTypeMismatch("Name", "other")
			}
			names = append(names, n)
		}
		return names, nil
	default:
		return nil, errTypeMismatch("Name or Array of Name", "other")
	}
}

func decodeParms(d types.Dict, n int) []types.Dict {
	v, ok := d[types.Name("DecodeParms")]
	if !ok || v == nil {
		return nil
	}
	parms := make([]types.Dict, n)
	switch p := v.(type) {
	case types.Dict:
		if n > 0 {
			parms[0] = p
		}
	case types.Array:
		for i := 0; i < n && i < len(p); i++ {
			if dp, ok := p[i].(types.Dict); ok {
				parms[i] = dp
			}
		}
	}
	return parms
}
