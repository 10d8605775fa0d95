package router

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/en9inerd/httpkit/httperrors"
	"github.com/en9inerd/httpkit/respond"
)

// Dispatcher is a terminal handler that acts on the Result attached by
// Middleware: it runs the matched handler, or answers 404/405 itself.
// The zero value is ready to use.
type Dispatcher struct {
	// Logger receives misconfiguration reports. Optional.
	Logger *slog.Logger
}

// ServeHTTP implements http.Handler.
func (d Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, ok := ResultFrom(r)
	if !ok {
		respond.Error(w, r, d.Logger, http.StatusInternalServerError,
			fmt.Errorf("no route result on request for %s", r.URL.Path), "routing unavailable")
		return
	}

	switch res := res.(type) {
	case Success:
		if res.Handler == nil {
			respond.Error(w, r, d.Logger, http.StatusInternalServerError,
				fmt.Errorf("route %q has no handler", res.Action), "route has no handler")
			return
		}
		res.Handler.ServeHTTP(w, r)
	case NotFound:
		httperrors.NewError(http.StatusNotFound, "route not found").WriteJSON(w)
	case MethodNotAllowed:
		allow := respond.AllowHeader(res.Allowed)
		w.Header().Set("Allow", allow)
		httperrors.NewErrorWithDetails(http.StatusMethodNotAllowed, "method not allowed", "allowed: "+allow).WriteJSON(w)
	}
}
