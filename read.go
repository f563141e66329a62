// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pdf implements structural reading of PDF files (ISO 32000-1): the
// tokenizer, object parser, and cross-reference/trailer machinery needed to
// walk a PDF's object graph. It does not interpret page content streams,
// fonts, or encryption, and it does not write PDFs.
//
// A PDF's data is exposed as a graph of Values, each with one of the
// following Kinds:
//
//	Null, Bool, Integer, Real, String, Name, Dict, Array, Stream
//
// Accessors on Value (Int64, Bool, Name, Key, Index, and so on) return a
// zero result when called against the wrong Kind, so a caller can walk a
// Dict/Array structure without per-step error checking; Open and
// Reader.LoadXrefTable are where the file's well-formedness is actually
// checked.
package pdf

import (
	"bytes"
	"sync"

	"github.com/arvolab/pdfstructure/internal/types"
)

var (
	headerPrefix = []byte("%PDF-")
	eofMarker    = []byte("%%EOF")
	startxrefKW  = []byte("startxref")
	trailerKW    = []byte("trailer")
)

// A Reader is a single PDF held in memory and open for structural reading.
// Open takes the whole file as a []byte rather than an io.ReaderAt: the
// object parser already needs random access to the bytes around any xref
// offset, and a single in-memory buffer makes that, and ResolveAll's
// concurrent reads, free of any I/O error path once Open has returned.
type Reader struct {
	data    []byte
	version string
	opts    Options

	once    sync.Once
	loadErr error
	xref    map[uint32]types.Xref
	trailer types.Dict
}

// Open validates the header of a PDF already held in memory and records
// its version. It does not look at the file's footer: the "%%EOF" marker,
// "startxref", the cross-reference table and the trailer are all read by
// LoadXrefTable. opts, if given, overrides DefaultOptions().
func Open(data []byte, opts ...Options) (*Reader, error) {
	o := DefaultOptions()
	if len(opts) > 0 {
		o = opts[0].withDefaults()
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	version, err := sniffVersion(data)
	if err != nil {
		return nil, err
	}

	return &Reader{data: data, version: version, opts: o}, nil
}

// sniffVersion validates the "%PDF-" header (spec §4.5's version()) and
// returns the bytes from just after the prefix to the first line
// terminator, e.g. "1.6".
func sniffVersion(data []byte) (string, error) {
	if !bytes.HasPrefix(data, headerPrefix) {
		return "", errSyntax("missing %PDF- header", data)
	}
	rest := data[len(headerPrefix):]
	i := 0
	for i < len(rest) && !isNewline(rest[i]) {
		i++
	}
	if i >= len(rest) {
		return "", errSyntax("missing header line terminator", rest)
	}
	return string(rest[:i]), nil
}

// checkTrailingEOF requires the buffer end with the literal "%%EOF",
// optionally followed by a single trailing LF (spec §4.5's
// last_xref_offset precondition).
func checkTrailingEOF(data []byte) error {
	end := data
	if len(end) > 0 && end[len(end)-1] == '\n' {
		end = end[:len(end)-1]
	}
	if !bytes.HasSuffix(end, eofMarker) {
		return errSyntax("missing trailing %%EOF marker", nil)
	}
	return nil
}

// Version returns the PDF version declared in the file header, e.g. "1.4".
func (r *Reader) Version() string {
	return r.version
}

// LoadXrefTable parses the cross-reference table and trailer reachable
// from the file's final "startxref" (spec §5, §6). It is idempotent: the
// first call does the work and every later call returns its cached result,
// so Reader methods that need the table can call it defensively without
// re-parsing.
//
// Only classic xref-table sections are understood, chased through any
// /Prev chain of incremental updates; cross-reference streams and
// compressed object streams are out of scope (spec §1 Non-goals).
func (r *Reader) LoadXrefTable() error {
	r.once.Do(func() {
		r.loadErr = r.loadXrefTable()
	})
	return r.loadErr
}

func (r *Reader) loadXrefTable() error {
	if err := checkTrailingEOF(r.data); err != nil {
		return err
	}
	startxrefPos, pos, err := locateStartXref(r.data)
	if err != nil {
		return err
	}

	// The trailer Reader.Trailer() reports is the one spec §4.5 describes
	// independently of the xref-subsection walk below: "locate the last
	// trailer keyword; parse one object terminated by startxref" (spec
	// §4.2's find_last component, by name, exists for exactly this
	// footer-location search, alongside its use for startxref above).
	trailer, err := locateTrailer(r.data, startxrefPos, r.opts)
	if err != nil {
		return err
	}

	table := make(map[uint32]types.Xref)
	seen := make(map[int64]bool)

	for {
		if pos < 0 || pos > int64(len(r.data)) {
			return errSyntax("xref offset out of range", nil)
		}
		if seen[pos] {
			return errSyntax("xref /Prev chain cycles", nil)
		}
		seen[pos] = true

		section, sectionTrailer, err := r.parseXrefSection(pos)
		if err != nil {
			return err
		}
		for id, x := range section {
			if _, exists := table[id]; !exists {
				table[id] = x
			}
		}

		prev, ok := sectionTrailer[types.Name("Prev")]
		if !ok {
			break
		}
		n, ok := prev.(int64)
		if !ok {
			return errSyntax("trailer /Prev is not an integer", nil)
		}
		pos = n
	}

	if size, ok := trailer[types.Name("Size")].(int64); ok {
		for id := range table {
			if int64(id) >= size {
				delete(table, id)
			}
		}
	}

	r.xref = table
	r.trailer = trailer
	return nil
}

// locateStartXref finds the final "startxref" keyword (spec §5: it must
// sit on its own line near the end of the file) via findLastLine (spec
// §4.2's find_last, backing scan for exact-match footer keywords), and
// returns both that keyword's own byte position (so callers can bound a
// further backward search to "before the footer") and the xref offset
// that follows it.
func locateStartXref(data []byte) (keywordPos, xrefOffset int64, err error) {
	i := findLastLine(data, startxrefKW)
	if i < 0 {
		return 0, 0, errSyntax("missing startxref", nil)
	}
	tok, rest, err := nextToken(data[i:])
	if err != nil || tok.Kind != TokKeyword || tok.Keyword != "startxref" {
		return 0, 0, errSyntax("malformed startxref", data[i:])
	}
	posTok, _, err := nextToken(rest)
	if err != nil || posTok.Kind != TokInteger || posTok.Int < 0 {
		return 0, 0, errSyntax("startxref not followed by an offset", rest)
	}
	return int64(i), posTok.Int, nil
}

// locateTrailer finds the last "trailer" keyword before startxrefPos (spec
// §4.2's find_last, §4.5's trailer(): "locate the last trailer keyword;
// parse one object terminated by startxref") and parses the dictionary
// that follows it. This is independent of parseXrefSection's own forward
// reading of each subsection's trailer, which still has to happen to
// chase /Prev across older sections; the two agree on the current
// section's trailer by construction, since both locate the same "trailer"
// occurrence.
func locateTrailer(data []byte, startxrefPos int64, opts Options) (types.Dict, error) {
	i := findLastLine(data[:startxrefPos], trailerKW)
	if i < 0 {
		return nil, errSyntax("missing trailer keyword", nil)
	}
	tok, rest, err := nextToken(data[i:])
	if err != nil || tok.Kind != TokKeyword || tok.Keyword != "trailer" {
		return nil, errSyntax("malformed trailer keyword", data[i:])
	}
	obj, _, err := parseValue(rest, opts)
	if err != nil {
		return nil, err
	}
	trailer, ok := obj.(types.Dict)
	if !ok {
		return nil, errSyntax("trailer keyword not followed by a dictionary", rest)
	}
	return trailer, nil
}

// parseXrefSection parses one "xref ... trailer <<...>>" section starting
// at pos (spec §6's "arbitrary sequence of first/length subsections until
// the trailer keyword", resolving Open Question 2 of spec §9).
func (r *Reader) parseXrefSection(pos int64) (map[uint32]types.Xref, types.Dict, error) {
	buf := r.data[pos:]

	tok, rest, err := nextToken(buf)
	if err != nil {
		return nil, nil, err
	}
	if tok.Kind != TokKeyword || tok.Keyword != "xref" {
		return nil, nil, errSyntax("expected 'xref' keyword", buf)
	}

	table := make(map[uint32]types.Xref)
	for {
		startTok, after, err := nextToken(rest)
		if err != nil {
			return nil, nil, err
		}
		if startTok.Kind == TokKeyword && startTok.Keyword == "trailer" {
			rest = after
			break
		}
		if startTok.Kind != TokInteger {
			return nil, nil, errSyntax("malformed xref subsection header", rest)
		}
		countTok, after2, err := nextToken(after)
		if err != nil {
			return nil, nil, err
		}
		if countTok.Kind != TokInteger {
			return nil, nil, errSyntax("malformed xref subsection header", after)
		}
		rest = after2

		start, count := startTok.Int, countTok.Int
		for i := int64(0); i < count; i++ {
			offTok, r1, err := nextToken(rest)
			if err != nil {
				return nil, nil, err
			}
			genTok, r2, err := nextToken(r1)
			if err != nil {
				return nil, nil, err
			}
			flagTok, r3, err := nextToken(r2)
			if err != nil {
				return nil, nil, err
			}
			if offTok.Kind != TokInteger || genTok.Kind != TokInteger || flagTok.Kind != TokKeyword {
				return nil, nil, errSyntax("malformed xref entry", rest)
			}
			var inUse bool
			switch flagTok.Keyword {
			case "n":
				inUse = true
			case "f":
				inUse = false
			default:
				return nil, nil, errSyntax("malformed xref entry type", rest)
			}
			id := uint32(start + i)
			if _, exists := table[id]; !exists {
				table[id] = types.Xref{
					Ptr:    types.Objptr{ID: id, Gen: uint16(genTok.Int)},
					InUse:  inUse,
					Offset: offTok.Int,
				}
			}
			rest = r3
		}
	}

	trailerObj, _, err := parseValue(rest, r.opts)
	if err != nil {
		return nil, nil, err
	}
	trailer, ok := trailerObj.(types.Dict)
	if !ok {
		return nil, nil, errSyntax("trailer keyword not followed by a dictionary", rest)
	}
	return table, trailer, nil
}

// Trailer returns the file's trailer dictionary as a Value, loading the
// xref table first if necessary.
func (r *Reader) Trailer() (Value, error) {
	if err := r.LoadXrefTable(); err != nil {
		return Value{}, err
	}
	return Value{r: r, data: r.trailer}, nil
}

// IndirectObjectOffset looks up the byte offset recorded in the xref
// table for ref (spec §4.5's indirect_object_offset), without parsing
// anything at that offset. Unlike Resolve and Value.Key/Index, it does
// not load the xref table on demand: callers that want offset lookups
// distinct from "I asked for an object and got null back" call
// LoadXrefTable themselves first, and get NotLoaded if they didn't.
func (r *Reader) IndirectObjectOffset(ref types.Objptr) (int64, error) {
	if r.xref == nil {
		return 0, errNotLoaded("xref table")
	}
	entry, ok := r.xref[ref.ID]
	if !ok || entry.Ptr != ref || !entry.InUse {
		return 0, errObjectNotFound(ref)
	}
	return entry.Offset, nil
}

// Resolve looks up an indirect reference directly, without going through
// a parent Value's Key/Index accessor. Prefer Value.Key/Value.Index in
// ordinary traversal; Resolve exists for callers (and ResolveAll) that
// hold bare Objptrs, e.g. from a content-stream-level structure this
// package otherwise treats as opaque.
func (r *Reader) Resolve(ref types.Objptr) (Value, error) {
	if err := r.LoadXrefTable(); err != nil {
		return Value{}, err
	}
	return r.resolveChecked(types.Objptr{}, ref)
}

// resolve dereferences a raw Object that may or may not be an indirect
// reference, tagging the result with parent (the enclosing object's
// identity, so the resulting Value's own Key/Index calls know which
// object they're relative to). A reference to a missing, free, or
// identity-mismatched slot resolves to a null Value rather than an
// error: Value.Key/Value.Index fail soft by design (spec §4.5), discarding
// whatever resolveChecked found wrong. Resolve and ResolveAll call
// resolveChecked directly instead, since they do need to tell "absent or
// free" apart from "present but wrong" (see resolveChecked).
func (r *Reader) resolve(parent types.Objptr, x types.Object) Value {
	v, _ := r.resolveChecked(parent, x)
	return v
}

// resolveChecked is resolve's hard-error counterpart. x that is not an
// Objptr is returned as-is. An Objptr missing from the xref table, or
// recorded as free, is ObjectNotFound. An Objptr present in the table
// whose offset parses to a different (number, generation) than requested
// is the "number/generation mismatch" Syntax error spec §4.5 requires of
// resolve ("require the returned envelope identity to equal the requested
// reference"), which spec §8.6 names as a testable property — this is
// deliberately not folded into ObjectNotFound, which means something
// different (no object was ever there to mismatch). An in-use entry whose
// offset lies outside the file is a Syntax error, and a failure to parse
// the object at the recorded offset is returned as the parser reported it.
func (r *Reader) resolveChecked(parent types.Objptr, x types.Object) (Value, error) {
	ptr, ok := x.(types.Objptr)
	if !ok {
		return Value{r: r, ptr: parent, data: x}, nil
	}

	entry, ok := r.xref[ptr.ID]
	if !ok || entry.Ptr != ptr || !entry.InUse {
		return Value{r: r, ptr: parent}, errObjectNotFound(ptr)
	}

	if entry.Offset < 0 || entry.Offset > int64(len(r.data)) {
		return Value{r: r, ptr: parent}, errSyntax("xref offset out of range", nil)
	}
	def, _, err := parseIndirectObject(r.data[entry.Offset:], r.opts)
	if err != nil {
		return Value{r: r, ptr: parent}, err
	}
	if def.Ptr != ptr {
		return Value{r: r, ptr: parent}, errSyntax("number/generation mismatch", nil)
	}

	return Value{r: r, ptr: ptr, data: def.Obj}, nil
}
