package router

import "net/http"

// Result is the outcome of a routing attempt. It is one of Success, NotFound
// or MethodNotAllowed; no other type can satisfy it.
type Result interface {
	result()
}

// Success reports that a route matched.
type Success struct {
	// Action names the matched route, e.g. "users.list" or a ServeMux pattern.
	Action string
	// Method is the HTTP method the route was matched for.
	Method string
	// Handler serves the matched route. Routers that only classify
	// requests may leave it nil.
	Handler http.Handler
}

// NotFound reports that no router recognised the path.
type NotFound struct{}

// MethodNotAllowed reports that the path is known but the method is not.
type MethodNotAllowed struct {
	Allowed []string
}

func (Success) result()          {}
func (NotFound) result()         {}
func (MethodNotAllowed) result() {}

// IsNotFound reports whether res is the NotFound variant.
func IsNotFound(res Result) bool {
	_, ok := res.(NotFound)
	return ok
}

// Outcome returns a short, log-friendly name for the variant of res.
func Outcome(res Result) string {
	switch res.(type) {
	case Success:
		return "success"
	case NotFound:
		return "not_found"
	case MethodNotAllowed:
		return "method_not_allowed"
	default:
		return "none"
	}
}
