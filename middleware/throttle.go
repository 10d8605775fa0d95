package middleware

import (
	"net/http"

	"go.uber.org/atomic"

	"github.com/en9inerd/httpkit/httperrors"
)

// Throttle limits the number of requests served at the same time across
// every route behind it. Requests over the limit get a JSON 429 with
// Retry-After. A limit <= 0 disables throttling.
func Throttle(limit int64) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	inFlight := atomic.NewInt64(0)

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if inFlight.Inc() > limit {
				inFlight.Dec()
				w.Header().Set("Retry-After", "1")
				httperrors.NewError(http.StatusTooManyRequests, "too many requests").WriteJSON(w)
				return
			}
			defer inFlight.Dec()
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
