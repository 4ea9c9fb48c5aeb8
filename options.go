package httpheader

import (
	"log/slog"
)

type storeOptions struct {
	log   *slog.Logger
	eager bool
}

// StoreOption configures a [Store].
type StoreOption interface {
	ApplyStore(opts *storeOptions)
}

type withLogger struct {
	log *slog.Logger
}

func (o withLogger) ApplyStore(opts *storeOptions) {
	if o.log != nil {
		opts.log = o.log
	}
}

// WithLogger sets the logger used for lenient-mode diagnostics.
func WithLogger(log *slog.Logger) StoreOption {
	return withLogger{log}
}

type withEagerValidation struct{}

func (withEagerValidation) ApplyStore(opts *storeOptions) {
	opts.eager = true
}

// WithEagerValidation makes [NewStore] decode every registered header
// present in the table up front, so malformed headers surface when the
// request's headers are constructed instead of deep inside handler logic.
func WithEagerValidation() StoreOption {
	return withEagerValidation{}
}
