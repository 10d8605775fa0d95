package router

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// Table is a leaf Router matching literal request paths and methods.
type Table struct {
	routes map[string]map[string]tableRoute
}

type tableRoute struct {
	action  string
	handler http.Handler
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{routes: make(map[string]map[string]tableRoute)}
}

// Handle registers h for method and the exact path. Methods are matched
// case-insensitively.
func (t *Table) Handle(method, path, action string, h http.Handler) error {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return fmt.Errorf("router: empty method for %q: %w", path, ErrInvalidRoute)
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("router: path %q must start with /: %w", path, ErrInvalidRoute)
	}

	methods, ok := t.routes[path]
	if !ok {
		methods = make(map[string]tableRoute)
		t.routes[path] = methods
	}
	methods[method] = tableRoute{action: action, handler: h}
	return nil
}

// HandleFunc registers a handler function.
func (t *Table) HandleFunc(method, path, action string, h http.HandlerFunc) error {
	return t.Handle(method, path, action, h)
}

// Route implements Router. A HEAD request is served by the GET route when
// no HEAD route is registered.
func (t *Table) Route(r *http.Request) Result {
	methods, ok := t.routes[r.URL.Path]
	if !ok {
		return NotFound{}
	}

	rt, ok := methods[r.Method]
	if !ok && r.Method == http.MethodHead {
		rt, ok = methods[http.MethodGet]
	}
	if !ok {
		allowed := make([]string, 0, len(methods))
		for m := range methods {
			allowed = append(allowed, m)
		}
		slices.Sort(allowed)
		return MethodNotAllowed{Allowed: allowed}
	}
	return Success{Action: rt.action, Method: r.Method, Handler: rt.handler}
}
