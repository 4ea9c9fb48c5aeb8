package header

import (
	"strings"

	"braces.dev/errtrace"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/ghettovoice/httpheader/internal/errorutil"
	"github.com/ghettovoice/httpheader/internal/util"
)

// Multiplicity describes how repeated header lines combine.
type Multiplicity uint8

const (
	// SingleLine headers must not appear on more than one line.
	SingleLine Multiplicity = iota
	// CommaList headers combine repeated lines into one comma-separated list.
	CommaList
	// SemicolonList headers combine repeated lines into one
	// semicolon-separated list (Cookie).
	SemicolonList
)

// Descriptor binds a header name to its codec, its multiplicity and an
// optional hard default applied when the header is entirely absent.
// Descriptors are immutable and registered once at startup; they are the
// single source of truth for a header's behavior.
type Descriptor[T any] struct {
	name   Name
	mult   Multiplicity
	decode func(string) (T, error)
	encode func(T) string
	def    *T
}

// Option configures a Descriptor.
type Option[T any] func(*Descriptor[T])

// WithDefault sets the value a descriptor yields when the header is
// entirely absent. It is a policy default, never a parse fallback: a header
// that is present but invalid does not degrade to it.
func WithDefault[T any](v T) Option[T] {
	return func(d *Descriptor[T]) { d.def = &v }
}

// New creates a header descriptor from a decode and an encode function.
// It panics if name is not a valid header name.
func New[T any](
	name Name,
	mult Multiplicity,
	decode func(string) (T, error),
	encode func(T) string,
	opts ...Option[T],
) *Descriptor[T] {
	if !name.IsValid() {
		panic(errorutil.NewInvalidArgumentError("header name %q", name))
	}
	d := &Descriptor[T]{
		name:   name,
		mult:   mult,
		decode: decode,
		encode: encode,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Descriptor[T]) Name() Name { return d.name }

func (d *Descriptor[T]) Multiplicity() Multiplicity { return d.mult }

// Default returns the hard default value, if the descriptor has one.
func (d *Descriptor[T]) Default() (T, bool) {
	if d.def == nil {
		var zero T
		return zero, false
	}
	return *d.def, true
}

// Decode turns the raw header lines into the typed value.
// An empty or whitespace-only line always fails, regardless of header type.
// Repeated lines of a [SingleLine] header fail; list headers combine lines
// before decoding.
func (d *Descriptor[T]) Decode(raw []string) (T, error) {
	var zero T
	if len(raw) == 0 {
		return zero, ErrEmptyValue
	}
	for _, v := range raw {
		if util.TrimSP(v) == "" {
			return zero, ErrEmptyValue
		}
	}

	var s string
	switch d.mult {
	case SingleLine:
		if len(raw) > 1 {
			return zero, ErrRepeated
		}
		s = raw[0]
	case SemicolonList:
		s = strings.Join(raw, "; ")
	default:
		s = strings.Join(raw, ", ")
	}
	return errtrace.Wrap2(d.decode(util.TrimSP(s)))
}

// Encode turns a typed value back into raw header lines.
// For every value produced by a successful Decode, Encode is its exact
// inverse.
func (d *Descriptor[T]) Encode(v T) []string {
	return []string{d.encode(v)}
}

// DecodeRaw implements [Registered].
func (d *Descriptor[T]) DecodeRaw(raw []string) (any, error) {
	return errtrace.Wrap2(d.Decode(raw))
}

// DefaultRaw implements [Registered].
func (d *Descriptor[T]) DefaultRaw() (any, bool) {
	if d.def == nil {
		return nil, false
	}
	return *d.def, true
}

// Registered is the type-erased view of a descriptor held by the registry.
type Registered interface {
	Name() Name
	Multiplicity() Multiplicity
	DecodeRaw(raw []string) (any, error)
	DefaultRaw() (any, bool)
}

// The registry is populated from package init and read-only afterward;
// concurrent lookups from request-handling goroutines need no coordination.
var registry = xsync.NewMapOf[Name, Registered]()

// Register adds a descriptor to the process-wide registry.
// It panics when the name is already taken.
func Register(d Registered) {
	name := d.Name().ToCanonic()
	if _, loaded := registry.LoadOrStore(name, d); loaded {
		panic(errorutil.Errorf("header %q is already registered", name))
	}
}

// Lookup finds a registered descriptor by header name, case-insensitively.
func Lookup[T ~string](name T) (Registered, bool) {
	return registry.Load(CanonicName(name))
}

func register[T any](d *Descriptor[T]) *Descriptor[T] {
	Register(d)
	return d
}
