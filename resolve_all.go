package pdf

import (
	"golang.org/x/sync/errgroup"

	"github.com/arvolab/pdfstructure/internal/types"
)

// ResolveAll resolves a batch of indirect references concurrently, bounded
// by Options.MaxResolveConcurrency. The file's bytes are immutable once
// Open returns and the xref table is loaded once up front by ResolveAll's
// own call to LoadXrefTable, so concurrent calls into parseIndirectObject over
// disjoint byte ranges need no locking (spec §5: "independent buffers are
// trivially parallel"; here the buffer is shared but read-only, which is
// the same property).
//
// Results are returned in the same order as refs. If any reference fails,
// ResolveAll returns the first error and no results; resolutions already
// scheduled still run to completion, since the errgroup.Group carries no
// context to cancel them. This is a batching convenience
// over the existing single-reference Resolve, grounded in
// sassoftware-pdf-xtract's semaphore-bounded worker pool in processor.go,
// generalized here from a fixed page-worker pool to an errgroup sized from
// Options, since the unit of work (one reference) carries no per-item
// state to cache between calls the way cacheFonts does per page.
func (r *Reader) ResolveAll(refs []types.Objptr) ([]Value, error) {
	if err := r.LoadXrefTable(); err != nil {
		return nil, err
	}

	out := make([]Value, len(refs))
	g := new(errgroup.Group)
	g.SetLimit(r.opts.effectiveMaxResolveConcurrency())

	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			v, err := r.resolveChecked(types.Objptr{}, ref)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
