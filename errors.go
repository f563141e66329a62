package pdf

import (
	"fmt"

	"github.com/arvolab/pdfstructure/internal/types"
)

// ErrorKind classifies a *Error (spec §7). Every fallible operation in this
// package returns one of these kinds; none are silently recovered from.
type ErrorKind int

const (
	// EndOfInput is raised when a peek or read runs past the end of the
	// buffer during tokenization.
	EndOfInput ErrorKind = iota
	// Syntax is raised for malformed grammar at a position. TypeMismatch
	// (from Value accessors) is a Syntax subkind.
	Syntax
	// ParseInteger is raised when a numeric token's bytes fail to parse
	// as an int64.
	ParseInteger
	// ParseFloat is raised when a numeric token's bytes fail to parse as
	// a float64.
	ParseFloat
	// NotLoaded is raised when an operation requires a resource (the
	// xref table) that has not been loaded yet.
	NotLoaded
	// ObjectNotFound is raised when an xref lookup is missing or free.
	ObjectNotFound
	// UnknownFilter is raised when a stream names a filter absent from
	// the registry.
	UnknownFilter
	// IO completes the taxonomy (spec §7) for a byte source that can fail
	// independently of parsing. Open takes a []byte already held in
	// memory, so this package never constructs one itself; it is kept so
	// the ErrorKind enum matches the spec's full list and so a future
	// io.ReaderAt-backed Open has somewhere to report read failures.
	IO
)

func (k ErrorKind) String() string {
	switch k {
	case EndOfInput:
		return "EndOfInput"
	case Syntax:
		return "Syntax"
	case ParseInteger:
		return "ParseInteger"
	case ParseFloat:
		return "ParseFloat"
	case NotLoaded:
		return "NotLoaded"
	case ObjectNotFound:
		return "ObjectNotFound"
	case UnknownFilter:
		return "UnknownFilter"
	case IO:
		return "IO"
	default:
		return "Unknown"
	}
}

// Error is the single error type raised by every fallible operation in
// this package (spec §7). Context is a short static description; Snippet
// is a byte window around the failing position, included for diagnostics.
type Error struct {
	Kind    ErrorKind
	Context string
	Snippet []byte
	Ref     types.Objptr // populated for ObjectNotFound
	Err     error        // wrapped cause, for ParseInteger/ParseFloat/IO
}

func (e *Error) Error() string {
	switch e.Kind {
	case ObjectNotFound:
		return fmt.Sprintf("pdf: object not found: %d %d R", e.Ref.ID, e.Ref.Gen)
	case NotLoaded:
		return fmt.Sprintf("pdf: %s: not loaded", e.Context)
	}
	msg := fmt.Sprintf("pdf: %s: %s", e.Kind, e.Context)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if len(e.Snippet) > 0 {
		msg += fmt.Sprintf(" (near %q)", snippetWindow(e.Snippet))
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// snippetWindow trims a byte window to something printable for an error
// message; it never panics on short or binary input.
func snippetWindow(b []byte) []byte {
	const max = 32
	if len(b) > max {
		b = b[:max]
	}
	out := make([]byte, len(b))
	for i, c := range b {
		if c < 0x20 || c >= 0x7f {
			out[i] = '.'
		} else {
			out[i] = c
		}
	}
	return out
}

func errSyntax(context string, snippet []byte) *Error {
	return &Error{Kind: Syntax, Context: context, Snippet: snippet}
}

func errEndOfInput() *Error {
	return &Error{Kind: EndOfInput, Context: "unexpected end of input"}
}

func errParseInteger(s string, cause error) *Error {
	return &Error{Kind: ParseInteger, Context: fmt.Sprintf("invalid integer %q", s), Err: cause}
}

func errParseFloat(s string, cause error) *Error {
	return &Error{Kind: ParseFloat, Context: fmt.Sprintf("invalid real %q", s), Err: cause}
}

func errNotLoaded(resource string) *Error {
	return &Error{Kind: NotLoaded, Context: resource}
}

func errObjectNotFound(ref types.Objptr) *Error {
	return &Error{Kind: ObjectNotFound, Ref: ref}
}

func errUnknownFilter(name string) *Error {
	return &Error{Kind: UnknownFilter, Context: name}
}

func errTypeMismatch(expected, observed string) *Error {
	return &Error{Kind: Syntax, Context: fmt.Sprintf("type mismatch: expected %s, got %s", expected, observed)}
}
