package router

import "net/http"

// Middleware runs a Router and attaches its Result to the request for later
// stages. Not-found and method-not-allowed results can optionally be
// answered directly by dedicated handlers; otherwise the request continues
// down the chain and a later stage decides what to do.
type Middleware struct {
	router           Router
	notFound         http.Handler
	methodNotAllowed http.Handler
}

// NewMiddleware returns a Middleware that routes with r.
func NewMiddleware(r Router) *Middleware {
	if r == nil {
		panic("router: nil router passed to NewMiddleware")
	}
	return &Middleware{router: r}
}

// WithNotFound sets the handler that answers NotFound results.
// Returns the Middleware for chaining.
func (m *Middleware) WithNotFound(h http.Handler) *Middleware {
	m.notFound = h
	return m
}

// WithMethodNotAllowed sets the handler that answers MethodNotAllowed results.
// Returns the Middleware for chaining.
func (m *Middleware) WithMethodNotAllowed(h http.Handler) *Middleware {
	m.methodNotAllowed = h
	return m
}

// Process routes r, attaches the result and either short-circuits to a
// dedicated handler or calls next with the augmented request.
func (m *Middleware) Process(w http.ResponseWriter, r *http.Request, next http.Handler) {
	res := m.router.Route(r)
	record(r, res)
	r = WithResult(r, res)

	switch res.(type) {
	case NotFound:
		if m.notFound != nil {
			m.notFound.ServeHTTP(w, r)
			return
		}
	case MethodNotAllowed:
		if m.methodNotAllowed != nil {
			m.methodNotAllowed.ServeHTTP(w, r)
			return
		}
	}
	next.ServeHTTP(w, r)
}

// Handler returns next wrapped by the Middleware, for use with plain
// func(http.Handler) http.Handler chains.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.Process(w, r, next)
	})
}
