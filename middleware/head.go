package middleware

import "net/http"

// EnforceHead discards the response body of HEAD requests (RFC 9110, 9.3.2),
// keeping the status and headers the handler produced.
func EnforceHead() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(headWriter{ResponseWriter: w}, r)
		}
		return http.HandlerFunc(fn)
	}
}
