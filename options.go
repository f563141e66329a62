package pdf

import (
	"github.com/go-playground/validator/v10"

	"github.com/arvolab/pdfstructure/internal/filter"
)

const (
	defaultMaxNesting            = 1000
	defaultMaxResolveConcurrency = 16
)

// Options is the knob surface for Open and Reader.ResolveAll, modeled on
// sassoftware-pdf-xtract's Config/Config.Validate pair: a plain struct
// validated once, before use, via struct tags rather than ad hoc checks
// scattered through the parser.
type Options struct {
	// MaxNesting bounds array/dict nesting depth during object parsing
	// (spec §4.4: "stack depth is bounded by input size"). Zero means
	// DefaultOptions's default.
	MaxNesting int `validate:"omitempty,min=1,max=1000000"`

	// Filters is the registry consulted for stream decoding (spec §9,
	// "Global state"). Nil means filter.NewDefaultRegistry().
	Filters filter.Registry `validate:"required"`

	// MaxResolveConcurrency bounds the goroutine fan-out in
	// Reader.ResolveAll. Zero means DefaultOptions's default.
	MaxResolveConcurrency int `validate:"omitempty,min=1,max=256"`
}

// DefaultOptions returns the Options used when Open is called with none.
func DefaultOptions() Options {
	return Options{
		MaxNesting:            defaultMaxNesting,
		Filters:               filter.NewDefaultRegistry(),
		MaxResolveConcurrency: defaultMaxResolveConcurrency,
	}
}

var optionsValidator = validator.New()

// Validate checks the struct tags above. It does not touch parsing
// semantics; it only rejects a misconfigured Options before a Reader is
// built from it, exactly as sassoftware-pdf-xtract's NewProcessor
// validates its Config first.
func (o Options) Validate() error {
	if err := optionsValidator.Struct(o); err != nil {
		return errSyntax("invalid Options: "+err.Error(), nil)
	}
	return nil
}

func (o Options) effectiveMaxNesting() int {
	if o.MaxNesting <= 0 {
		return defaultMaxNesting
	}
	return o.MaxNesting
}

func (o Options) effectiveMaxResolveConcurrency() int {
	if o.MaxResolveConcurrency <= 0 {
		return defaultMaxResolveConcurrency
	}
	return o.MaxResolveConcurrency
}

func (o Options) withDefaults() Options {
	if o.Filters == nil {
		o.Filters = filter.NewDefaultRegistry()
	}
	return o
}
