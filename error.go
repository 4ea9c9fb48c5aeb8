package httpheader

import (
	"fmt"
	"strings"

	"github.com/ghettovoice/httpheader/header"
	"github.com/ghettovoice/httpheader/internal/util"
)

// BadRequestError is the strict-mode outcome of accessing a header that
// failed to decode. It carries the header name, the offending raw values
// and the decode failure.
type BadRequestError struct {
	Header header.Name
	Raw    []string
	Reason error
}

func (e *BadRequestError) Error() string {
	if e == nil {
		return "<nil>"
	}
	raw := util.Ellipsis(strings.Join(e.Raw, ", "), 256)
	return fmt.Sprintf("malformed %s header %q: %s", e.Header, raw, e.Reason)
}

func (e *BadRequestError) Unwrap() error { return e.Reason }

// StatusCode returns the HTTP status the surrounding framework should
// answer with.
func (e *BadRequestError) StatusCode() int { return 400 }
