// Package kernel builds a single http.Handler from a base handler and an
// ordered stack of middleware.
//
// Stages are added inside out: each Add wraps everything added so far, so
// the last stage added is the first to see the request and the last to see
// the response.
//
//	stack := kernel.New(router.Dispatcher{}).
//		Add(routerMiddleware).              // innermost
//		Use(middleware.Logger(logger)).
//		Use(middleware.Recoverer(logger, false)) // outermost
//
// A Stack with no stages simply calls the base handler.
package kernel

import "net/http"

// Middleware processes a request and usually continues the chain by
// calling next.
type Middleware interface {
	Process(w http.ResponseWriter, r *http.Request, next http.Handler)
}

// MiddlewareFunc adapts an ordinary function to the Middleware interface.
type MiddlewareFunc func(w http.ResponseWriter, r *http.Request, next http.Handler)

// Process calls f(w, r, next).
func (f MiddlewareFunc) Process(w http.ResponseWriter, r *http.Request, next http.Handler) {
	f(w, r, next)
}

// Adapt turns a func(http.Handler) http.Handler middleware into a
// Middleware. The wrapped handler is rebuilt for every request; prefer
// Stack.Use when the function is only added to a Stack.
func Adapt(mw func(http.Handler) http.Handler) Middleware {
	if mw == nil {
		panic("kernel: nil middleware passed to Adapt")
	}
	return MiddlewareFunc(func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		mw(next).ServeHTTP(w, r)
	})
}

// Stack is a middleware stack around a base handler.
//
// Build the stack before serving; ServeHTTP is safe for concurrent use as
// long as no stages are added at the same time.
type Stack struct {
	tip   http.Handler
	depth int
}

// New creates a Stack whose innermost handler is base.
func New(base http.Handler) *Stack {
	if base == nil {
		panic("kernel: nil base handler passed to New")
	}
	return &Stack{tip: base}
}

// Add wraps the current stack with m, making m the outermost stage.
// Returns the Stack for chaining.
func (s *Stack) Add(m Middleware) *Stack {
	if m == nil {
		panic("kernel: nil middleware passed to Add")
	}
	s.tip = passthru(m, s.tip)
	s.depth++
	return s
}

// Use wraps the current stack with each mw in turn, so the last one passed
// ends up outermost. Returns the Stack for chaining.
func (s *Stack) Use(mw ...func(http.Handler) http.Handler) *Stack {
	for _, fn := range mw {
		if fn == nil {
			panic("kernel: nil middleware passed to Use")
		}
	}
	for _, fn := range mw {
		s.tip = fn(s.tip)
		s.depth++
	}
	return s
}

// Len returns the number of stages added to the stack.
func (s *Stack) Len() int {
	return s.depth
}

// ServeHTTP passes the request to the outermost stage.
func (s *Stack) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.tip.ServeHTTP(w, r)
}

// Chain wraps h with mw listed outside in: Chain(h, a, b) runs a, then b,
// then h.
func Chain(h http.Handler, mw ...Middleware) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = passthru(mw[i], h)
	}
	return h
}

func passthru(m Middleware, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.Process(w, r, next)
	})
}
