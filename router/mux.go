package router

import (
	"net/http"
	"strings"
)

// MuxRouter is a leaf Router backed by an http.ServeMux, so routes under a
// prefix can use Go 1.22 patterns ("GET /users/{id}").
type MuxRouter struct {
	mux *http.ServeMux
}

// FromServeMux wraps mux as a Router.
func FromServeMux(mux *http.ServeMux) *MuxRouter {
	if mux == nil {
		panic("router: nil mux passed to FromServeMux")
	}
	return &MuxRouter{mux: mux}
}

// Route implements Router. The action of a Success is the matched pattern
// and its handler is the mux itself, so path values are populated when it
// runs.
func (m *MuxRouter) Route(r *http.Request) Result {
	h, pattern := m.mux.Handler(r)
	if pattern != "" {
		return Success{Action: pattern, Method: r.Method, Handler: m.mux}
	}

	// no pattern: the mux's own error handler tells 404 from 405
	probe := newStatusRecorder()
	h.ServeHTTP(probe, r)
	if probe.status != http.StatusMethodNotAllowed {
		return NotFound{}
	}
	return MethodNotAllowed{Allowed: splitAllow(probe.header.Get("Allow"))}
}

// ServeMux returns the underlying mux for route registration.
func (m *MuxRouter) ServeMux() *http.ServeMux {
	return m.mux
}

func splitAllow(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	allowed := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			allowed = append(allowed, p)
		}
	}
	return allowed
}
