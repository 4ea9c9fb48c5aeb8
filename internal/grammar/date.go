package grammar

import (
	"time"

	"braces.dev/errtrace"
)

// HTTP-date formats, RFC 7231 Section 7.1.1.1.
const (
	imfFixdate = "Mon, 02 Jan 2006 15:04:05 GMT"
	rfc850Date = "Monday, 02-Jan-06 15:04:05 GMT"
	asctime    = "Mon Jan _2 15:04:05 2006"
)

// ParseHTTPDate parses an HTTP-date in any of the three RFC 7231 formats.
// The preferred IMF-fixdate format is tried first.
func ParseHTTPDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range []string{imfFixdate, rfc850Date, asctime} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, errtrace.Wrap(lastErr)
}

// FormatHTTPDate renders t as an IMF-fixdate.
func FormatHTTPDate(t time.Time) string {
	return t.UTC().Format(imfFixdate)
}
