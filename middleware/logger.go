package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"go.uber.org/atomic"

	"github.com/en9inerd/httpkit/router"
)

// Logger middleware using slog. It logs one record per request after the
// response is written. The record carries the route outcome and action when
// a router stage ran, whether Logger sits inside it (the request carries
// the result) or outside it (the result arrives through a router.Trace).
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	seq := atomic.NewUint64(0)

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := seq.Inc()
			sw := &statusWriter{ResponseWriter: w}
			traced, trace := router.WithTrace(r)

			next.ServeHTTP(sw, traced)

			attrs := []any{
				slog.Uint64("seq", id),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.Status()),
				slog.Int("size", sw.size),
				slog.String("remote", r.RemoteAddr),
				slog.Duration("duration", time.Since(start)),
			}
			res, ok := router.ResultFrom(r)
			if !ok {
				res, ok = trace.Result()
			}
			if ok {
				attrs = append(attrs, slog.String("route", router.Outcome(res)))
				if s, ok := res.(router.Success); ok {
					attrs = append(attrs, slog.String("action", s.Action))
				}
			}
			logger.Info("request", attrs...)
		}
		return http.HandlerFunc(fn)
	}
}
