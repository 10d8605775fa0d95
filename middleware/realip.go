package middleware

import (
	"net/http"

	"github.com/en9inerd/httpkit/realip"
)

// RealIP sets RemoteAddr to the client address reported in X-Forwarded-For
// or X-Real-Ip, but only when the connection comes from a proxy in trusted.
// A nil trusted set trusts private addresses only; see realip.Trusted.
// The incoming request is copied, not modified.
//
// Place it outside Logger and Recoverer so they record the client address.
func RealIP(trusted *realip.Trusted) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if remote, ok := realip.Remote(r); ok && trusted.Contains(remote) {
				if ip, err := realip.Get(r); err == nil {
					r = r.WithContext(r.Context())
					r.RemoteAddr = ip
				}
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
