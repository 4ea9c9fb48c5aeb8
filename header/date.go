package header

import (
	"strconv"
	"time"

	"github.com/ghettovoice/httpheader/internal/grammar"
)

func decodeDate(s string) (time.Time, error) {
	t, err := grammar.ParseHTTPDate(s)
	if err != nil {
		return time.Time{}, grammarErrf("Invalid date %q", s)
	}
	return t, nil
}

func encodeDate(t time.Time) string { return grammar.FormatHTTPDate(t) }

// RetryAfterSpec is the value type of Retry-After: either an HTTP-date or a
// non-negative number of seconds.
type RetryAfterSpec struct {
	Time    *time.Time
	Seconds *int64
}

func (ra RetryAfterSpec) String() string { return encodeRetryAfter(ra) }

func decodeRetryAfter(s string) (RetryAfterSpec, error) {
	if n, ok := grammar.ParseNonNegInt(s); ok {
		return RetryAfterSpec{Seconds: &n}, nil
	}
	t, err := grammar.ParseHTTPDate(s)
	if err != nil {
		return RetryAfterSpec{}, grammarErrf("Invalid date %q", s)
	}
	return RetryAfterSpec{Time: &t}, nil
}

func encodeRetryAfter(ra RetryAfterSpec) string {
	if ra.Seconds != nil {
		return strconv.FormatInt(*ra.Seconds, 10)
	}
	if ra.Time != nil {
		return grammar.FormatHTTPDate(*ra.Time)
	}
	return ""
}

// Date-valued headers share one codec; Expires belongs here as well because
// its value is a bare HTTP-date.
var (
	Date              = register(New[time.Time]("Date", SingleLine, decodeDate, encodeDate))
	Expires           = register(New[time.Time]("Expires", SingleLine, decodeDate, encodeDate))
	IfModifiedSince   = register(New[time.Time]("If-Modified-Since", SingleLine, decodeDate, encodeDate))
	IfUnmodifiedSince = register(New[time.Time]("If-Unmodified-Since", SingleLine, decodeDate, encodeDate))
	LastModified      = register(New[time.Time]("Last-Modified", SingleLine, decodeDate, encodeDate))
	RetryAfter        = register(New[RetryAfterSpec]("Retry-After", SingleLine, decodeRetryAfter, encodeRetryAfter))
)
