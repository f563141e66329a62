package pdf

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/arvolab/pdfstructure/internal/types"
)

// A Value is a single PDF object reached through a Reader, with
// indirect references transparently resolved on access (spec §4.5).
// The zero Value is a PDF null (Kind() == NullKind).
type Value struct {
	r    *Reader
	ptr  types.Objptr
	data any
}

// IsNull reports whether v is a null. Equivalent to Kind() == NullKind.
func (v Value) IsNull() bool {
	return v.data == nil
}

// ValueKind classifies the Go type underlying a Value: one kind per case
// of the internal/types Object sum type, except that Objptr and Objdef
// have no kind of their own and report NullKind.
type ValueKind int

const (
	NullKind ValueKind = iota
	BoolKind
	IntegerKind
	RealKind
	StringKind
	NameKind
	DictKind
	ArrayKind
	StreamKind
)

func (k ValueKind) String() string {
	switch k {
	case NullKind:
		return "Null"
	case BoolKind:
		return "Bool"
	case IntegerKind:
		return "Integer"
	case RealKind:
		return "Real"
	case StringKind:
		return "String"
	case NameKind:
		return "Name"
	case DictKind:
		return "Dict"
	case ArrayKind:
		return "Array"
	case StreamKind:
		return "Stream"
	default:
		return "Unknown"
	}
}

// Kind reports the kind of value underlying v.
func (v Value) Kind() ValueKind {
	switch v.data.(type) {
	default:
		return NullKind
	case bool:
		return BoolKind
	case int64:
		return IntegerKind
	case float64:
		return RealKind
	case string:
		return StringKind
	case types.Name:
		return NameKind
	case types.Dict:
		return DictKind
	case types.Array:
		return ArrayKind
	case types.Stream:
		return StreamKind
	}
}

// String returns a textual representation of v, in the same style PDF
// itself writes objects. It is a debugging aid, not the accessor for
// StringKind values; use RawString for that.
func (v Value) String() string {
	return objfmt(v.data)
}

func objfmt(x any) string {
	switch x := x.(type) {
	default:
		return fmt.Sprint(x)
	case string:
		return strconv.Quote(x)
	case types.Name:
		return "/" + string(x)
	case types.Dict:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, string(k))
		}
		sort.Strings(keys)
		var buf bytes.Buffer
		buf.WriteString("<<")
		for i, k := range keys {
			if i > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString("/")
			buf.WriteString(k)
			buf.WriteString(" ")
			buf.WriteString(objfmt(x[types.Name(k)]))
		}
		buf.WriteString(">>")
		return buf.String()

	case types.Array:
		var buf bytes.Buffer
		buf.WriteString("[")
		for i, elem := range x {
			if i > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(objfmt(elem))
		}
		buf.WriteString("]")
		return buf.String()

	case types.Stream:
		return fmt.Sprintf("%v@%d bytes", objfmt(x.Hdr), len(x.Decoded))

	case types.Objptr:
		return fmt.Sprintf("%d %d R", x.ID, x.Gen)

	case types.Objdef:
		return fmt.Sprintf("{%d %d obj}%v", x.Ptr.ID, x.Ptr.Gen, objfmt(x.Obj))
	}
}

// Bool returns v's boolean value, or false if v.Kind() != BoolKind.
func (v Value) Bool() bool {
	x, _ := v.data.(bool)
	return x
}

// Int64 returns v's integer value, or 0 if v.Kind() != IntegerKind.
func (v Value) Int64() int64 {
	x, _ := v.data.(int64)
	return x
}

// Float64 returns v's value as a float64, converting from IntegerKind
// if necessary, or 0 for any other kind.
func (v Value) Float64() float64 {
	if x, ok := v.data.(float64); ok {
		return x
	}
	if x, ok := v.data.(int64); ok {
		return float64(x)
	}
	return 0
}

// RawString returns v's undecoded byte sequence, or "" if
// v.Kind() != StringKind. Strings are never interpreted as text (spec
// §1 Non-goals: "producing UTF-8").
func (v Value) RawString() string {
	x, _ := v.data.(string)
	return x
}

// Name returns v's name value without its leading slash, or "" if
// v.Kind() != NameKind.
func (v Value) Name() string {
	x, _ := v.data.(types.Name)
	return string(x)
}

func (v Value) dict() (types.Dict, bool) {
	if d, ok := v.data.(types.Dict); ok {
		return d, true
	}
	if s, ok := v.data.(types.Stream); ok {
		return s.Hdr, true
	}
	return nil, false
}

// Key returns the value at the given key of the dictionary v, or of a
// stream's header dictionary if v.Kind() == StreamKind. Indirect
// references are resolved transparently. If v is neither, Key returns
// a null Value.
func (v Value) Key(key string) Value {
	d, ok := v.dict()
	if !ok {
		return Value{}
	}
	return v.r.resolve(v.ptr, d[types.Name(key)])
}

// Keys returns the sorted key list of the dictionary v, or of a
// stream's header dictionary. nil for any other kind.
func (v Value) Keys() []string {
	d, ok := v.dict()
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}

// Index returns the i'th element of the array v, resolved if indirect.
// A out-of-range i, or v.Kind() != ArrayKind, returns a null Value.
func (v Value) Index(i int) Value {
	x, ok := v.data.(types.Array)
	if !ok || i < 0 || i >= len(x) {
		return Value{}
	}
	return v.r.resolve(v.ptr, x[i])
}

// Len returns the length of the array v, or 0 if v.Kind() != ArrayKind.
func (v Value) Len() int {
	x, _ := v.data.(types.Array)
	return len(x)
}

// Stream returns v's decoded stream payload and whether v.Kind() ==
// StreamKind. The bytes have already passed through every filter named
// in the stream's /Filter entry (spec §4.4.1): there is no lazy,
// decode-on-read step left to perform.
func (v Value) Stream() ([]byte, bool) {
	s, ok := v.data.(types.Stream)
	if !ok {
		return nil, false
	}
	return s.Decoded, true
}

// RawElements returns the array v's elements whose kind is one of kinds,
// each unwrapped to its native Go representation. Only the scalar kinds
// (Bool, Integer, Real, String, Name) are returned; elements of any other
// kind are skipped even when that kind is listed. nil if v.Kind() !=
// ArrayKind.
func (v Value) RawElements(kinds ...ValueKind) []any {
	if v.Kind() != ArrayKind {
		return nil
	}
	want := make(map[ValueKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}

	var out []any
	for i := 0; i < v.Len(); i++ {
		e := v.Index(i)
		if !want[e.Kind()] {
			continue
		}
		switch e.Kind() {
		case BoolKind:
			out = append(out, e.Bool())
		case IntegerKind:
			out = append(out, e.Int64())
		case RealKind:
			out = append(out, e.Float64())
		case StringKind:
			out = append(out, e.RawString())
		case NameKind:
			out = append(out, e.Name())
		}
	}
	return out
}
