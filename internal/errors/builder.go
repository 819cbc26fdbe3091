package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrorBuilder accumulates hints and details on an error before it is marked
type ErrorBuilder struct {
	err error
}

// NewError starts a builder from a plain message
func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.New(msg)}
}

// NewErrorf starts a builder from a formatted message
func NewErrorf(format string, args ...interface{}) *ErrorBuilder {
	return &ErrorBuilder{err: errors.Newf(format, args...)}
}

// WithError starts a builder from an existing error, keeping its chain
func WithError(err error) *ErrorBuilder {
	if err == nil {
		err = errors.New("unknown error")
	}
	return &ErrorBuilder{err: err}
}

// WithMessage prefixes the error message
func (b *ErrorBuilder) WithMessage(msg string) *ErrorBuilder {
	b.err = errors.WithMessage(b.err, msg)
	return b
}

// WithHint attaches a user facing hint
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

// WithHintf attaches a formatted user facing hint
func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.err = errors.WithHint(b.err, fmt.Sprintf(format, args...))
	return b
}

// WithReportableDetails attaches structured details that are safe to return to callers
func (b *ErrorBuilder) WithReportableDetails(details map[string]interface{}) *ErrorBuilder {
	if len(details) == 0 {
		return b
	}
	b.err = &withReportableDetails{cause: b.err, details: details}
	return b
}

// Mark finalizes the error and tags it with one of the package markers
func (b *ErrorBuilder) Mark(reference error) error {
	return errors.Mark(b.err, reference)
}

// withReportableDetails carries structured details through the error chain
type withReportableDetails struct {
	cause   error
	details map[string]interface{}
}

func (w *withReportableDetails) Error() string { return w.cause.Error() }
func (w *withReportableDetails) Cause() error  { return w.cause }
func (w *withReportableDetails) Unwrap() error { return w.cause }

// GetReportableDetails merges every details map found on the chain; outer
// values win over inner ones
func GetReportableDetails(err error) map[string]interface{} {
	result := map[string]interface{}{}
	var layers []map[string]interface{}
	for e := err; e != nil; e = errors.UnwrapOnce(e) {
		if w, ok := e.(*withReportableDetails); ok {
			layers = append(layers, w.details)
		}
	}
	for i := len(layers) - 1; i >= 0; i-- {
		for k, v := range layers[i] {
			result[k] = v
		}
	}
	return result
}

// GetHint returns every hint attached to err joined by newlines
func GetHint(err error) string {
	return errors.FlattenHints(err)
}
