package pdf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvolab/pdfstructure/internal/types"
)

func TestParseValueIndirectReference(t *testing.T) {
	obj, rest, err := parseValue([]byte("12 0 R end"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, types.Objptr{ID: 12, Gen: 0}, obj)
	assert.Equal(t, " end", string(rest))
}

func TestParseValuePlainIntegerNotMistakenForReference(t *testing.T) {
	obj, rest, err := parseValue([]byte("12 34"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(12), obj)
	assert.Equal(t, " 34", string(rest))
}

func TestParseValueArrayOfMixedElements(t *testing.T) {
	obj, _, err := parseValue([]byte("[1 2.5 (hi) /Foo true null 9 0 R]"), DefaultOptions())
	require.NoError(t, err)
	want := types.Array{
		int64(1), 2.5, "hi", types.Name("Foo"), true, nil,
		types.Objptr{ID: 9, Gen: 0},
	}
	if diff := cmp.Diff(want, obj); diff != "" {
		t.Errorf("array mismatch (-want +got):\n%s", diff)
	}
}

// Adobe p. 18 dictionary example (spec §8, end-to-end scenario 3).
func TestParseValueDictionaryExample(t *testing.T) {
	src := `<< /Type /Example
  /Subtype /DictionaryExample
  /Version 0.01
  /IntegerItem 12
  /StringItem (a string)
  /Subdictionary << /Item1 0.4
                     /Item2 true
                     /LastItem (not!)
                     /VeryLastItem (OK)
                  >>
>> end`
	obj, rest, err := parseValue([]byte(src), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, " end", string(rest))

	d, ok := obj.(types.Dict)
	require.True(t, ok)
	assert.Equal(t, types.Name("Example"), d[types.Name("Type")])
	assert.Equal(t, 0.01, d[types.Name("Version")])
	assert.Equal(t, int64(12), d[types.Name("IntegerItem")])
	assert.Equal(t, "a string", d[types.Name("StringItem")])

	sub, ok := d[types.Name("Subdictionary")].(types.Dict)
	require.True(t, ok)
	assert.Equal(t, true, sub[types.Name("Item2")])
	assert.Equal(t, "OK", sub[types.Name("VeryLastItem")])
}

func TestParseValueStreamWithNoFilter(t *testing.T) {
	src := "<< >> stream\nHello, world!\nendstream end"
	obj, rest, err := parseValue([]byte(src), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, " end", string(rest))

	s, ok := obj.(types.Stream)
	require.True(t, ok)
	assert.Empty(t, s.Hdr)
	assert.Equal(t, "Hello, world!\n", string(s.Decoded))
}

func TestParseValueStreamLengthDirected(t *testing.T) {
	src := "<< /Length 5 >> stream\nHello\nendstream"
	obj, _, err := parseValue([]byte(src), DefaultOptions())
	require.NoError(t, err)
	s, ok := obj.(types.Stream)
	require.True(t, ok)
	assert.Equal(t, "Hello", string(s.Decoded))
}

func TestParseValueMismatchedBracketsIsSyntaxError(t *testing.T) {
	_, _, err := parseValue([]byte("[1 2 >>"), DefaultOptions())
	require.Error(t, err)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, Syntax, pe.Kind)
}

func TestParseValueOddDictEntriesIsSyntaxError(t *testing.T) {
	_, _, err := parseValue([]byte("<< /A 1 /B >>"), DefaultOptions())
	require.Error(t, err)
}

func TestParseValueNonNameDictKeyIsSyntaxError(t *testing.T) {
	_, _, err := parseValue([]byte("<< 1 2 >>"), DefaultOptions())
	require.Error(t, err)
}

func TestParseValueUnknownFilter(t *testing.T) {
	src := "<< /Filter /Bogus >> stream\nxy\nendstream"
	_, _, err := parseValue([]byte(src), DefaultOptions())
	require.Error(t, err)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, UnknownFilter, pe.Kind)
}

func TestParseValueNestingDepthBound(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxNesting = 2
	deep := "[[[1]]]"
	_, _, err := parseValue([]byte(deep), opts)
	require.Error(t, err)
}

func TestParseIndirectObjectEnvelope(t *testing.T) {
	def, rest, err := parseIndirectObject([]byte("5 0 obj (payload) endobj tail"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, types.Objptr{ID: 5, Gen: 0}, def.Ptr)
	assert.Equal(t, "payload", def.Obj)
	assert.Equal(t, " tail", string(rest))
}
