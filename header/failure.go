package header

import (
	"fmt"

	"github.com/ghettovoice/httpheader/internal/util"
)

// Kind classifies a decode failure.
type Kind uint8

const (
	// KindEmptyValue marks a header that is present but whose value is
	// empty or whitespace-only.
	KindEmptyValue Kind = iota + 1
	// KindGrammarViolation marks a value that does not match the header's
	// structural grammar.
	KindGrammarViolation
	// KindSemanticConflict marks a structurally valid value that violates a
	// cross-field rule.
	KindSemanticConflict
	// KindMissingRequiredField marks a structurally parseable value with a
	// mandatory sub-field absent or empty.
	KindMissingRequiredField
)

func (k Kind) String() string {
	switch k {
	case KindEmptyValue:
		return "empty value"
	case KindGrammarViolation:
		return "grammar violation"
	case KindSemanticConflict:
		return "semantic conflict"
	case KindMissingRequiredField:
		return "missing required field"
	default:
		return "unknown"
	}
}

// Failure describes why a header value failed to decode.
// It implements the error interface; decode functions return failures as
// plain values and never panic.
type Failure struct {
	kind Kind
	msg  string
}

// NewFailure creates a new decode failure of the given kind.
func NewFailure(kind Kind, msg string) *Failure {
	return &Failure{kind: kind, msg: msg}
}

func (f *Failure) Kind() Kind { return f.kind }

func (f *Failure) Error() string { return f.msg }

// Failure sentinels shared across codecs. Messages form the fixed
// user-facing vocabulary and are stable.
var (
	ErrEmptyValue       = NewFailure(KindEmptyValue, "Value cannot be empty")
	ErrRepeated         = NewFailure(KindGrammarViolation, "Header cannot be repeated")
	ErrInvalidQuality   = NewFailure(KindGrammarViolation, "Invalid quality value")
	ErrWildcardConflict = NewFailure(KindSemanticConflict, "Wildcard (*) cannot be used with other values")
	ErrInvalidETag      = NewFailure(KindGrammarViolation, "Invalid ETag format")
	ErrInvalidRange     = NewFailure(KindGrammarViolation, "Invalid range")
	ErrEmptyRangeBounds = NewFailure(KindGrammarViolation, "Both start and end cannot be empty")
)

func grammarErrf(format string, args ...any) *Failure {
	return NewFailure(KindGrammarViolation, fmt.Sprintf(format, args...))
}

func conflictErrf(format string, args ...any) *Failure {
	return NewFailure(KindSemanticConflict, fmt.Sprintf(format, args...))
}

// requiredErr reports a mandatory sub-field that is absent or empty.
func requiredErr(field string) *Failure {
	if field != "" {
		field = util.UCase(field[:1]) + field[1:]
	}
	return NewFailure(KindMissingRequiredField, field+" is required and cannot be empty")
}
