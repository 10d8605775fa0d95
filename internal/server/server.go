// Package server assembles the prefixd handler and runs the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/en9inerd/httpkit/internal/config"
	"github.com/en9inerd/httpkit/kernel"
	"github.com/en9inerd/httpkit/middleware"
	"github.com/en9inerd/httpkit/realip"
	"github.com/en9inerd/httpkit/respond"
	"github.com/en9inerd/httpkit/router"
)

// NewRouter builds a Delegating router from the configured routes: one
// Table per prefix and a fallback Table for routes without a prefix.
func NewRouter(routes []config.Route) (*router.Delegating, error) {
	fallback := router.NewTable()
	tables := make(map[string]*router.Table)

	for i, rt := range routes {
		table := fallback
		if rt.Prefix != "" {
			t, ok := tables[rt.Prefix]
			if !ok {
				t = router.NewTable()
				tables[rt.Prefix] = t
			}
			table = t
		}
		if err := table.Handle(rt.Method, rt.Path, rt.Action, static(rt)); err != nil {
			return nil, fmt.Errorf("route[%d]: %w", i, err)
		}
	}

	d := router.NewDelegating(fallback)
	for prefix, t := range tables {
		if err := d.DelegateTo(prefix, t); err != nil {
			return nil, fmt.Errorf("delegate %q: %w", prefix, err)
		}
	}
	return d, nil
}

// NewHandler returns the full middleware stack for cfg. From the outside
// in: RealIP, Logger, Recoverer, Headers, Throttle, Timeout, MaxBodySize,
// DefaultContentType, router, EnforceHead, then the dispatcher.
//
// Logger runs outside every stage that can answer on its own (429, 503,
// 413, recovered panics) so each request gets a record; it reads the route
// outcome through a router.Trace. Limits left at zero in cfg pass requests
// through.
func NewHandler(cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	d, err := NewRouter(cfg.Routes)
	if err != nil {
		return nil, err
	}
	trusted, err := realip.ParseTrusted(cfg.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	stack := kernel.New(router.Dispatcher{Logger: logger}).
		Use(middleware.EnforceHead()).
		Add(router.NewMiddleware(d)).
		Use(
			middleware.DefaultContentType(cfg.DefaultContentType, cfg.DefaultAccept),
			middleware.MaxBodySize(cfg.MaxBodyBytes),
			middleware.Timeout(cfg.RequestTimeout.Duration),
			middleware.Throttle(cfg.MaxInFlight),
			middleware.Headers(cfg.Headers...),
			middleware.Recoverer(logger, cfg.Log.IncludeStack),
			middleware.Logger(logger),
			middleware.RealIP(trusted),
		)
	logger.Debug("handler ready", "stages", stack.Len(), "routes", len(cfg.Routes))
	return stack, nil
}

// New returns an http.Server for cfg serving h.
func New(cfg *config.Config, h http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

// Run serves on ln until ctx is cancelled, then shuts srv down gracefully
// within cfg.ShutdownTimeout.
func Run(ctx context.Context, cfg *config.Config, srv *http.Server, ln net.Listener, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func static(rt config.Route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.String(w, rt.Status, rt.Body, rt.ContentType)
	})
}
