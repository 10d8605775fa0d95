package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/atomic"
)

// Router resolves a request to a Result.
type Router interface {
	Route(r *http.Request) Result
}

// RouterFunc adapts an ordinary function to the Router interface.
type RouterFunc func(r *http.Request) Result

// Route calls f(r).
func (f RouterFunc) Route(r *http.Request) Result {
	return f(r)
}

var (
	// ErrInvalidPrefix is returned when a delegate prefix is malformed.
	ErrInvalidPrefix = errors.New("invalid prefix")
	// ErrNilRouter is returned when a nil Router is registered.
	ErrNilRouter = errors.New("nil router")
	// ErrInvalidRoute is returned when a table route is malformed.
	ErrInvalidRoute = errors.New("invalid route")
)

// PrefixError describes a rejected delegate prefix.
type PrefixError struct {
	Prefix string
	Reason string
}

// Error implements the error interface
func (e *PrefixError) Error() string {
	return fmt.Sprintf("router: invalid prefix %q: %s", e.Prefix, e.Reason)
}

// Unwrap returns ErrInvalidPrefix
func (e *PrefixError) Unwrap() error {
	return ErrInvalidPrefix
}

type resultKey struct{}

// WithResult returns a shallow copy of r carrying res. r itself is not modified.
func WithResult(r *http.Request, res Result) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), resultKey{}, res))
}

// ResultFrom returns the Result attached to r by WithResult, if any.
func ResultFrom(r *http.Request) (Result, bool) {
	res, ok := r.Context().Value(resultKey{}).(Result)
	return res, ok
}

type traceKey struct{}

// Trace captures the Result of a request for stages that run outside the
// router stage and so never see the request carrying it, such as an access
// logger. It is safe to read while the inner chain still runs in another
// goroutine, as it does under http.TimeoutHandler.
type Trace struct {
	v atomic.Value
}

// resultBox keeps the stored type stable across Result variants.
type resultBox struct{ res Result }

// WithTrace returns a copy of r carrying a fresh Trace, and the Trace.
func WithTrace(r *http.Request) (*http.Request, *Trace) {
	t := &Trace{}
	return r.WithContext(context.WithValue(r.Context(), traceKey{}, t)), t
}

// Result returns the Result recorded by Middleware, if any.
func (t *Trace) Result() (Result, bool) {
	b, ok := t.v.Load().(resultBox)
	if !ok {
		return nil, false
	}
	return b.res, true
}

func record(r *http.Request, res Result) {
	if t, ok := r.Context().Value(traceKey{}).(*Trace); ok {
		t.v.Store(resultBox{res: res})
	}
}
