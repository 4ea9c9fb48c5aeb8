package httpheader

import (
	"log/slog"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpheader/header"
	"github.com/ghettovoice/httpheader/internal/errorutil"
	"github.com/ghettovoice/httpheader/internal/log"
)

// Mode selects what a decode failure produces at access time.
type Mode uint8

const (
	// Strict mode turns a failed decode of an accessed header into a
	// *BadRequestError.
	Strict Mode = iota
	// Lenient mode degrades a failed decode to "header absent" and retains
	// the failure for diagnostics.
	Lenient
)

func (m Mode) String() string {
	if m == Lenient {
		return "lenient"
	}
	return "strict"
}

// Diagnostic retains a lenient-mode decode failure for introspection.
type Diagnostic struct {
	Raw    []string
	Reason error
}

// Store exposes typed, memoizing, mode-aware access to one request's raw
// header table. Each header is decoded at most once per request; the
// outcome is memoized in a per-header slot.
//
// A Store belongs to a single request and is not safe for concurrent use;
// the descriptor registry it consults is process-wide and read-only.
type Store struct {
	mode  Mode
	tbl   *Table
	log   *slog.Logger
	slots map[header.Name]*slot
	diags map[header.Name]Diagnostic
}

// NewStore creates a header store over the given table.
// With [WithEagerValidation] every registered header present in the table
// is decoded immediately; in [Strict] mode the first failure is returned
// as a *BadRequestError.
func NewStore(tbl *Table, mode Mode, opts ...StoreOption) (*Store, error) {
	if tbl == nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("nil table"))
	}

	sopts := storeOptions{log: log.Def}
	for _, o := range opts {
		o.ApplyStore(&sopts)
	}

	st := &Store{
		mode:  mode,
		tbl:   tbl,
		log:   sopts.log,
		slots: make(map[header.Name]*slot),
		diags: make(map[header.Name]Diagnostic),
	}
	if sopts.eager {
		if err := st.validateAll(); err != nil {
			return nil, errtrace.Wrap(err)
		}
	}
	return st, nil
}

// Mode returns the store's validation mode.
func (st *Store) Mode() Mode { return st.mode }

// Table returns the raw header table the store owns.
func (st *Store) Table() *Table { return st.tbl }

// validateAll walks every registered header present in the table and forces
// its evaluation. Failures of different headers stay isolated; in strict
// mode the first one, in table order, aborts.
func (st *Store) validateAll() error {
	for _, name := range st.tbl.names {
		d, ok := header.Lookup(name)
		if !ok {
			continue
		}
		sl := st.slot(name)
		if sl.resolved() {
			continue
		}
		st.evaluateRaw(sl, name, d)
		if sl.failed() && st.mode == Strict {
			return errtrace.Wrap(&BadRequestError{Header: name, Raw: sl.raw, Reason: sl.err})
		}
	}
	return nil
}

func (st *Store) slot(name header.Name) *slot {
	sl := st.slots[name]
	if sl == nil {
		sl = newSlot()
		st.slots[name] = sl
	}
	return sl
}

// evaluateRaw settles a slot through the type-erased registry view.
func (st *Store) evaluateRaw(sl *slot, name header.Name, d header.Registered) {
	raw, ok := st.tbl.Values(name)
	if !ok {
		def, has := d.DefaultRaw()
		sl.settle(def, !has)
		return
	}
	sl.calls++
	v, err := d.DecodeRaw(raw)
	if err != nil {
		sl.fail(raw, err)
		st.recordFailure(name, raw, err)
		return
	}
	sl.settle(v, false)
}

func (st *Store) recordFailure(name header.Name, raw []string, err error) {
	if st.mode != Lenient {
		return
	}
	st.diags[name] = Diagnostic{Raw: raw, Reason: err}
	st.log.Warn("header decode failed",
		slog.Any("header", name),
		slog.Any("reason", err),
		slog.Any("raw", log.FmtValue(raw, false)),
	)
}

// Failures returns the lenient-mode diagnostics collected so far: for each
// header that failed to decode, its raw values and the failure reason.
// The map is metadata for observability, not control flow.
func (st *Store) Failures() map[header.Name]Diagnostic {
	diags := make(map[header.Name]Diagnostic, len(st.diags))
	for n, d := range st.diags {
		diags[n] = d
	}
	return diags
}

// DecodeCount reports how many times the header's decode function has run
// for this store. It can never exceed one.
func (st *Store) DecodeCount(name header.Name) int {
	sl := st.slots[name.ToCanonic()]
	if sl == nil {
		return 0
	}
	return sl.calls
}

// Get returns the typed value of the header described by d.
//
// The result triple is (value, ok, err): ok reports whether a value is
// present. A header that is absent yields the descriptor's hard default
// when it has one, otherwise (zero, false, nil). A header that fails to
// decode yields a *BadRequestError in [Strict] mode and (zero, false, nil)
// in [Lenient] mode, with the failure retained for [Store.Failures].
//
// The decode runs at most once per store; repeated calls return the
// memoized outcome.
func Get[T any](st *Store, d *header.Descriptor[T]) (T, bool, error) {
	var zero T
	name := d.Name().ToCanonic()
	sl := st.slot(name)

	if !sl.resolved() {
		raw, ok := st.tbl.Values(name)
		if !ok {
			def, has := d.Default()
			if has {
				sl.settle(def, false)
			} else {
				sl.settle(nil, true)
			}
		} else {
			sl.calls++
			v, err := d.Decode(raw)
			if err != nil {
				sl.fail(raw, err)
				st.recordFailure(name, raw, err)
			} else {
				sl.settle(v, false)
			}
		}
	}

	if sl.failed() {
		if st.mode == Strict {
			return zero, false, errtrace.Wrap(&BadRequestError{Header: name, Raw: sl.raw, Reason: sl.err})
		}
		return zero, false, nil
	}
	if sl.absent {
		return zero, false, nil
	}
	v, ok := sl.val.(T)
	if !ok {
		return zero, false, errtrace.Wrap(errorutil.Errorf(
			"header %q: memoized value is %T, descriptor wants %T", name, sl.val, zero))
	}
	return v, true, nil
}

// Set encodes v through d and stores the resulting raw values into the
// table, replacing previous ones. It is the encode boundary used when
// emitting response headers.
func Set[T any](tbl *Table, d *header.Descriptor[T], v T) {
	tbl.SetRaw(string(d.Name()), d.Encode(v))
}
