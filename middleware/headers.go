package middleware

import (
	"net/http"
	"strings"
)

// Headers middleware adds "Key: Value" headers to every response.
// Malformed entries and values containing CR or LF are dropped, which
// prevents HTTP header injection through configuration.
func Headers(headers ...string) func(http.Handler) http.Handler {
	set := make(http.Header, len(headers))
	for _, h := range headers {
		key, value, ok := strings.Cut(h, ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key == "" || strings.ContainsAny(value, "\r\n") {
			continue
		}
		set.Set(key, value)
	}

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			for k, v := range set {
				w.Header()[k] = v
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

// DefaultContentType fills in the request's Content-Type and Accept headers
// when the client omitted them, so later stages can rely on both being set.
// An empty argument leaves that header alone. The incoming request is
// cloned, not modified.
func DefaultContentType(contentType, accept string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			missingType := contentType != "" && r.Header.Get("Content-Type") == ""
			missingAccept := accept != "" && r.Header.Get("Accept") == ""
			if missingType || missingAccept {
				r = r.Clone(r.Context())
				if missingType {
					r.Header.Set("Content-Type", contentType)
				}
				if missingAccept {
					r.Header.Set("Accept", accept)
				}
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
