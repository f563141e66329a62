package pdf

import (
	"github.com/arvolab/pdfstructure/internal/types"
)

// parseValue parses exactly one PDF object from the front of buf and
// returns it together with the unconsumed remainder (spec §4.4). It is
// a single non-recursive loop driven by an explicit value stack plus a
// stack of open-bracket frames, rather than Go-level recursion, so
// nesting depth is bounded by Options.MaxNesting instead of the call
// stack (spec §4.4's edge case: "stack depth is bounded by input size").
//
// An integer that turns out to be the first half of "N G R" is resolved
// by a bounded 2-token lookahead at the point it is read, not by a
// later stack-rewrite: this keeps the loop a single forward pass with
// no backtracking once a frame has been pushed.
func parseValue(buf []byte, opts Options) (types.Object, []byte, error) {
	type frame struct {
		isDict bool
		start  int
	}
	var stack []types.Object
	var frames []frame

	for {
		tok, rest, err := nextToken(buf)
		if err != nil {
			return nil, nil, err
		}

		switch tok.Kind {
		case TokInteger:
			if ref, after, ok, rerr := tryParseRef(tok.Int, rest); rerr != nil {
				return nil, nil, rerr
			} else if ok {
				stack = append(stack, ref)
				buf = after
			} else {
				stack = append(stack, tok.Int)
				buf = rest
			}

		case TokReal:
			stack = append(stack, tok.Real)
			buf = rest

		case TokLiteralString, TokHexString:
			stack = append(stack, string(tok.Bytes))
			buf = rest

		case TokName:
			stack = append(stack, types.Name(tok.Bytes))
			buf = rest

		case TokBeginArray:
			if len(frames) >= opts.effectiveMaxNesting() {
				return nil, nil, errSyntax("array nesting exceeds MaxNesting", buf)
			}
			frames = append(frames, frame{isDict: false, start: len(stack)})
			buf = rest

		case TokBeginDict:
			if len(frames) >= opts.effectiveMaxNesting() {
				return nil, nil, errSyntax("dictionary nesting exceeds MaxNesting", buf)
			}
			frames = append(frames, frame{isDict: true, start: len(stack)})
			buf = rest

		case TokEndArray:
			if len(frames) == 0 || frames[len(frames)-1].isDict {
				return nil, nil, errSyntax("unmatched ']'", buf)
			}
			f := frames[len(frames)-1]
			frames = frames[:len(frames)-1]
			elems := make(types.Array, len(stack)-f.start)
			copy(elems, stack[f.start:])
			stack = append(stack[:f.start], elems)
			buf = rest

		case TokEndDict:
			if len(frames) == 0 || !frames[len(frames)-1].isDict {
				return nil, nil, errSyntax("unmatched '>>'", buf)
			}
			f := frames[len(frames)-1]
			frames = frames[:len(frames)-1]
			items := stack[f.start:]
			if len(items)%2 != 0 {
				return nil, nil, errSyntax("dictionary has an odd number of entries", buf)
			}
			d := make(types.Dict, len(items)/2)
			for i := 0; i < len(items); i += 2 {
				key, ok := items[i].(types.Name)
				if !ok {
					return nil, nil, errSyntax("dictionary key is not a name", buf)
				}
				d[key] = items[i+1]
			}
			stack = stack[:f.start]

			obj, after, serr := maybeAttachStream(d, rest, opts)
			if serr != nil {
				return nil, nil, serr
			}
			stack = append(stack, obj)
			buf = after

		case TokKeyword:
			switch tok.Keyword {
			case "true":
				stack = append(stack, true)
				buf = rest
			case "false":
				stack = append(stack, false)
				buf = rest
			case "null":
				stack = append(stack, nil)
				buf = rest
			default:
				return nil, nil, errSyntax("unexpected keyword "+tok.Keyword, buf)
			}

		default:
			return nil, nil, errSyntax("unexpected token", buf)
		}

		if len(frames) == 0 {
			switch len(stack) {
			case 1:
				return stack[0], buf, nil
			default:
				if len(stack) > 1 {
					return nil, nil, errSyntax("multiple objects without enclosing array, dictionary, or reference", buf)
				}
			}
		}
	}
}

// tryParseRef attempts to read "G R" after an integer N already
// consumed as tok.Int, collapsing the pair into an Objptr. A failed
// match (wrong token kind, or end of input while peeking) is not an
// error: it just means n was a plain integer, and rest is returned
// unconsumed for the caller to retokenize.
func tryParseRef(n int64, rest []byte) (types.Objptr, []byte, bool, error) {
	genTok, after1, err := nextToken(rest)
	if err != nil || genTok.Kind != TokInteger {
		return types.Objptr{}, nil, false, nil
	}
	kwTok, after2, err := nextToken(after1)
	if err != nil || kwTok.Kind != TokKeyword || kwTok.Keyword != "R" {
		return types.Objptr{}, nil, false, nil
	}
	if n < 0 || genTok.Int < 0 {
		return types.Objptr{}, nil, false, errSyntax("negative object number or generation in reference", rest)
	}
	return types.Objptr{ID: uint32(n), Gen: uint16(genTok.Int)}, after2, true, nil
}

// maybeAttachStream checks whether a just-closed dictionary is in fact
// a stream descriptor (spec §9: the object parser, not the tokenizer,
// decides this, by checking for a following "stream" keyword). If not,
// d is returned unchanged. If so, the raw payload is extracted and run
// through the filter pipeline named in d["Filter"], eagerly (spec §3,
// §4.4.1): the returned Object is a types.Stream whose Decoded field
// already holds the fully filtered bytes.
func maybeAttachStream(d types.Dict, buf []byte, opts Options) (types.Object, []byte, error) {
	tok, rest, err := nextToken(buf)
	if err != nil || tok.Kind != TokKeyword || tok.Keyword != "stream" {
		return d, buf, nil
	}

	afterEOL, err := consumeStreamEOL(rest)
	if err != nil {
		return nil, nil, err
	}

	var body []byte
	var afterBody []byte
	if n, ok := directLength(d); ok {
		if t, r, okLen := readStreamBodyByLength(afterEOL, n); okLen {
			body, afterBody = t.Bytes, r
		}
	}
	if afterBody == nil {
		t, r, serr := readStreamBodyBySearch(afterEOL)
		if serr != nil {
			return nil, nil, serr
		}
		body, afterBody = t.Bytes, r
	}

	decoded, ferr := decodeStream(d, body, opts)
	if ferr != nil {
		return nil, nil, ferr
	}
	return types.Stream{Hdr: d, Decoded: decoded}, afterBody, nil
}

// directLength returns d["Length"] when it is present as a direct
// (non-indirect) integer. An indirect or absent Length falls back to
// the endstream-search strategy, since the object parser has no access
// to a Reader to resolve references (spec §9, open question 3).
func directLength(d types.Dict) (int64, bool) {
	v, ok := d[types.Name("Length")]
	if !ok {
		return 0, false
	}
	n, ok := v.(int64)
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}

// parseIndirectObject parses one "N G obj ... endobj" envelope (spec
// §3, §4.5): the identity tokens are read directly, outside the value
// stack machine, since they never participate in array/dict nesting.
func parseIndirectObject(buf []byte, opts Options) (types.Objdef, []byte, error) {
	idTok, rest, err := nextToken(buf)
	if err != nil {
		return types.Objdef{}, nil, err
	}
	if idTok.Kind != TokInteger || idTok.Int < 0 {
		return types.Objdef{}, nil, errSyntax("expected object number", buf)
	}

	genTok, rest, err := nextToken(rest)
	if err != nil {
		return types.Objdef{}, nil, err
	}
	if genTok.Kind != TokInteger || genTok.Int < 0 {
		return types.Objdef{}, nil, errSyntax("expected generation number", rest)
	}

	objTok, rest, err := nextToken(rest)
	if err != nil {
		return types.Objdef{}, nil, err
	}
	if objTok.Kind != TokKeyword || objTok.Keyword != "obj" {
		return types.Objdef{}, nil, errSyntax("expected 'obj' keyword", rest)
	}

	ptr := types.Objptr{ID: uint32(idTok.Int), Gen: uint16(genTok.Int)}

	val, rest, err := parseValue(rest, opts)
	if err != nil {
		return types.Objdef{}, nil, err
	}

	endTok, rest, err := nextToken(rest)
	if err != nil {
		return types.Objdef{}, nil, err
	}
	if endTok.Kind != TokKeyword || endTok.Keyword != "endobj" {
		return types.Objdef{}, nil, errSyntax("expected 'endobj' keyword", rest)
	}

	return types.Objdef{Ptr: ptr, Obj: val}, rest, nil
}
