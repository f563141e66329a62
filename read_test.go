package pdf

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvolab/pdfstructure/internal/types"
)

// buildXrefPDF assembles a minimal classic-xref PDF in memory, tracking
// object offsets as it writes them so the xref table it emits is always
// consistent with the body above it.
type xrefPDFBuilder struct {
	buf     bytes.Buffer
	offsets map[int]int64
}

func newXrefPDFBuilder(version string) *xrefPDFBuilder {
	b := &xrefPDFBuilder{offsets: map[int]int64{}}
	fmt.Fprintf(&b.buf, "%%PDF-%s\n", version)
	return b
}

func (b *xrefPDFBuilder) object(id int, body string) {
	b.offsets[id] = int64(b.buf.Len())
	fmt.Fprintf(&b.buf, "%d 0 obj\n%s\nendobj\n", id, body)
}

// finish writes a single xref section covering object numbers 1..maxID
// (plus the always-free object 0), the trailer, and the startxref
// footer, then returns the completed buffer.
func (b *xrefPDFBuilder) finish(maxID int, trailerExtra string) []byte {
	xrefPos := int64(b.buf.Len())
	fmt.Fprintf(&b.buf, "xref\n0 %d\n", maxID+1)
	fmt.Fprintf(&b.buf, "%010d %05d f \n", 0, 65535)
	for id := 1; id <= maxID; id++ {
		off, ok := b.offsets[id]
		if !ok {
			fmt.Fprintf(&b.buf, "%010d %05d f \n", 0, 0)
			continue
		}
		fmt.Fprintf(&b.buf, "%010d %05d n \n", off, 0)
	}
	fmt.Fprintf(&b.buf, "trailer\n<< /Size %d %s >>\n", maxID+1, trailerExtra)
	fmt.Fprintf(&b.buf, "startxref\n%d\n%%%%EOF", xrefPos)
	return b.buf.Bytes()
}

func buildSamplePDF() []byte {
	b := newXrefPDFBuilder("1.6")
	b.object(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.object(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	b.object(3, "<< /Type /Page /Parent 2 0 R /Contents 4 0 R >>")
	b.object(4, "<< /Length 14 >>\nstream\n0.1 w\n/Art BT\nendstream")
	b.object(5, "<< /Title (Sample) >>")
	return b.finish(5, "/Root 1 0 R /Info 5 0 R")
}

func TestOpenVersion(t *testing.T) {
	r, err := Open(buildSamplePDF())
	require.NoError(t, err)
	assert.Equal(t, "1.6", r.Version())
}

func TestLoadXrefTableIsIdempotent(t *testing.T) {
	r, err := Open(buildSamplePDF())
	require.NoError(t, err)
	require.NoError(t, r.LoadXrefTable())
	require.NoError(t, r.LoadXrefTable())
}

func TestTrailerFields(t *testing.T) {
	r, err := Open(buildSamplePDF())
	require.NoError(t, err)
	trailer, err := r.Trailer()
	require.NoError(t, err)
	assert.Equal(t, DictKind, trailer.Kind())
	assert.Equal(t, int64(6), trailer.Key("Size").Int64())
	assert.Equal(t, types.Objptr{ID: 1, Gen: 0}, trailer.r.trailer[types.Name("Root")])
}

func TestResolveFullChain(t *testing.T) {
	r, err := Open(buildSamplePDF())
	require.NoError(t, err)
	trailer, err := r.Trailer()
	require.NoError(t, err)

	root := trailer.Key("Root")
	require.Equal(t, "Catalog", root.Key("Type").Name())

	pages := root.Key("Pages")
	require.Equal(t, "Pages", pages.Key("Type").Name())
	require.Equal(t, int64(1), pages.Key("Count").Int64())

	page := pages.Key("Kids").Index(0)
	require.Equal(t, "Page", page.Key("Type").Name())

	contents := page.Key("Contents")
	require.Equal(t, StreamKind, contents.Kind())
	data, ok := contents.Stream()
	require.True(t, ok)
	assert.Equal(t, "0.1 w\n/Art BT\n", string(data))
}

func TestResolveObjectNotFound(t *testing.T) {
	r, err := Open(buildSamplePDF())
	require.NoError(t, err)
	require.NoError(t, r.LoadXrefTable())

	_, err = r.Resolve(types.Objptr{ID: 0, Gen: 0})
	require.Error(t, err)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ObjectNotFound, pe.Kind)
}

func TestResolveAllOrderPreserved(t *testing.T) {
	r, err := Open(buildSamplePDF())
	require.NoError(t, err)

	vals, err := r.ResolveAll([]types.Objptr{
		{ID: 3, Gen: 0},
		{ID: 2, Gen: 0},
		{ID: 1, Gen: 0},
	})
	require.NoError(t, err)
	require.Len(t, vals, 3)
	assert.Equal(t, "Page", vals[0].Key("Type").Name())
	assert.Equal(t, "Pages", vals[1].Key("Type").Name())
	assert.Equal(t, "Catalog", vals[2].Key("Type").Name())
}

func TestMissingHeaderIsSyntaxError(t *testing.T) {
	_, err := Open([]byte("not a pdf"))
	require.Error(t, err)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, Syntax, pe.Kind)
}

func TestIndirectObjectOffsetRequiresLoad(t *testing.T) {
	r, err := Open(buildSamplePDF())
	require.NoError(t, err)

	_, err = r.IndirectObjectOffset(types.Objptr{ID: 1, Gen: 0})
	require.Error(t, err)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, NotLoaded, pe.Kind)
}

func TestIndirectObjectOffsetLookup(t *testing.T) {
	r, err := Open(buildSamplePDF())
	require.NoError(t, err)
	require.NoError(t, r.LoadXrefTable())

	off, err := r.IndirectObjectOffset(types.Objptr{ID: 1, Gen: 0})
	require.NoError(t, err)
	assert.Greater(t, off, int64(0))

	_, err = r.IndirectObjectOffset(types.Objptr{ID: 0, Gen: 0})
	require.Error(t, err)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ObjectNotFound, pe.Kind)
}

// buildMismatchedPDF writes an xref entry for object 1 that points at an
// object body declared as "2 0 obj" instead of "1 0 obj", so resolving
// object 1 hits the envelope-identity check in resolveChecked.
func buildMismatchedPDF() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-1.4\n")
	objOffset := int64(buf.Len())
	fmt.Fprintf(&buf, "2 0 obj\n<< /Type /Catalog >>\nendobj\n")
	xrefPos := int64(buf.Len())
	fmt.Fprintf(&buf, "xref\n0 2\n")
	fmt.Fprintf(&buf, "%010d %05d f \n", 0, 65535)
	fmt.Fprintf(&buf, "%010d %05d n \n", objOffset, 0)
	fmt.Fprintf(&buf, "trailer\n<< /Size 2 /Root 1 0 R >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF", xrefPos)
	return buf.Bytes()
}

func TestResolveMismatchIsSyntaxError(t *testing.T) {
	r, err := Open(buildMismatchedPDF())
	require.NoError(t, err)

	_, err = r.Resolve(types.Objptr{ID: 1, Gen: 0})
	require.Error(t, err)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, Syntax, pe.Kind)
	assert.Equal(t, "number/generation mismatch", pe.Context)
}

func TestResolveAllMismatchIsSyntaxError(t *testing.T) {
	r, err := Open(buildMismatchedPDF())
	require.NoError(t, err)

	_, err = r.ResolveAll([]types.Objptr{{ID: 1, Gen: 0}})
	require.Error(t, err)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, Syntax, pe.Kind)
}

func TestMissingEOFMarkerIsSyntaxError(t *testing.T) {
	data := buildSamplePDF()
	data = data[:len(data)-len("%%EOF")]
	r, err := Open(data)
	require.NoError(t, err)
	err = r.LoadXrefTable()
	require.Error(t, err)
}
