// Command prefixd serves static routes from a TOML file through the
// prefix router and middleware kernel.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/en9inerd/httpkit/internal/config"
	"github.com/en9inerd/httpkit/internal/logging"
	"github.com/en9inerd/httpkit/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "prefixd:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "prefixd.toml", "path to the TOML configuration file")
	addr := flag.String("addr", "", "listen address, overrides the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger, _, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	handler, err := server.NewHandler(cfg, logger)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, cfg, server.New(cfg, handler, logger), ln, logger)
}
