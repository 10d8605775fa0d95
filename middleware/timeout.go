package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/en9inerd/httpkit/httperrors"
)

// Timeout answers with a JSON 503 when next does not finish within d.
// A d <= 0 disables the timeout. Headers set on the response before Timeout
// runs are kept on the 503.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	if d <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	body, _ := json.Marshal(httperrors.NewError(http.StatusServiceUnavailable, "request timeout"))

	return func(next http.Handler) http.Handler {
		th := http.TimeoutHandler(next, d, string(body))
		fn := func(w http.ResponseWriter, r *http.Request) {
			tw := &timeoutWriter{ResponseWriter: w, body: body}
			th.ServeHTTP(tw, r)
			tw.flush()
		}
		return http.HandlerFunc(fn)
	}
}

// timeoutWriter holds back a bare 503 until the first body write shows
// whether it is the timeout message, which then gets a JSON content type.
type timeoutWriter struct {
	http.ResponseWriter
	body    []byte
	pending int
}

func (tw *timeoutWriter) WriteHeader(code int) {
	if code == http.StatusServiceUnavailable && tw.Header().Get("Content-Type") == "" {
		tw.pending = code
		return
	}
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	if tw.pending != 0 && bytes.Equal(b, tw.body) {
		tw.Header().Set("Content-Type", "application/json; charset=utf-8")
		tw.Header().Set("X-Content-Type-Options", "nosniff")
	}
	tw.flush()
	return tw.ResponseWriter.Write(b)
}

func (tw *timeoutWriter) flush() {
	if tw.pending != 0 {
		tw.ResponseWriter.WriteHeader(tw.pending)
		tw.pending = 0
	}
}

func (tw *timeoutWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}

// MaxBodySize rejects requests whose declared body is larger than size with
// a JSON 413 and caps reading of undeclared bodies at size bytes.
// A size <= 0 disables the limit.
func MaxBodySize(size int64) func(http.Handler) http.Handler {
	if size <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > size {
				httperrors.NewError(http.StatusRequestEntityTooLarge, "request too large").WriteJSON(w)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
