// Package config loads the prefixd configuration file.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/en9inerd/httpkit/realip"
	"github.com/en9inerd/httpkit/router"
)

// Duration is a time.Duration decoded from strings such as "10s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config holds the server configuration.
type Config struct {
	Addr               string   `toml:"addr"`
	ReadTimeout        Duration `toml:"read_timeout"`
	WriteTimeout       Duration `toml:"write_timeout"`
	ShutdownTimeout    Duration `toml:"shutdown_timeout"`
	RequestTimeout     Duration `toml:"request_timeout"`
	MaxInFlight        int64    `toml:"max_in_flight"`
	MaxBodyBytes       int64    `toml:"max_body_bytes"`
	TrustedProxies     []string `toml:"trusted_proxies"`
	DefaultContentType string   `toml:"default_content_type"`
	DefaultAccept      string   `toml:"default_accept"`
	Headers            []string `toml:"headers"`
	Log                Log      `toml:"log"`
	Routes             []Route  `toml:"route"`
}

// Log configures the process logger.
type Log struct {
	Level        string `toml:"level"`
	Format       string `toml:"format"`
	IncludeStack bool   `toml:"include_stack"`
}

// Route is a static route served by the host. Routes sharing a prefix form
// one delegate; routes without a prefix belong to the fallback router.
type Route struct {
	Prefix      string `toml:"prefix"`
	Method      string `toml:"method"`
	Path        string `toml:"path"`
	Action      string `toml:"action"`
	Status      int    `toml:"status"`
	ContentType string `toml:"content_type"`
	Body        string `toml:"body"`
}

// Default returns a Config with every default applied and no routes.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates the TOML file at path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.finish(md); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates configuration from TOML text.
func Parse(data string) (*Config, error) {
	cfg := &Config{}
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.finish(md); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// finish rejects unknown keys, then applies defaults and validates.
func (c *Config) finish(md toml.MetaData) error {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	c.applyDefaults()
	return c.Validate()
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeout.Duration == 0 {
		c.ReadTimeout.Duration = 5 * time.Second
	}
	if c.WriteTimeout.Duration == 0 {
		c.WriteTimeout.Duration = 10 * time.Second
	}
	if c.ShutdownTimeout.Duration == 0 {
		c.ShutdownTimeout.Duration = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "auto"
	}
	for i := range c.Routes {
		rt := &c.Routes[i]
		rt.Method = strings.ToUpper(rt.Method)
		if rt.Method == "" {
			rt.Method = http.MethodGet
		}
		if rt.Status == 0 {
			rt.Status = http.StatusOK
		}
		if rt.Action == "" {
			rt.Action = rt.Method + " " + rt.Path
		}
	}
}

// Validate checks field values that defaults cannot repair.
func (c *Config) Validate() error {
	var errs []error
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if c.RequestTimeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("request_timeout: %v is negative", c.RequestTimeout.Duration))
	}
	if c.MaxInFlight < 0 {
		errs = append(errs, fmt.Errorf("max_in_flight: %d is negative", c.MaxInFlight))
	}
	if c.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("max_body_bytes: %d is negative", c.MaxBodyBytes))
	}
	if _, err := realip.ParseTrusted(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("trusted_proxies: %w", err))
	}
	for i, rt := range c.Routes {
		if !strings.HasPrefix(rt.Path, "/") {
			errs = append(errs, fmt.Errorf("route[%d].path: %q must start with /", i, rt.Path))
		}
		if rt.Prefix != "" {
			if err := router.ValidatePrefix(rt.Prefix); err != nil {
				errs = append(errs, fmt.Errorf("route[%d].prefix: %w", i, err))
			} else if !underPrefix(rt.Path, rt.Prefix) {
				errs = append(errs, fmt.Errorf("route[%d].path: %q is outside prefix %q", i, rt.Path, rt.Prefix))
			}
		}
		if rt.Status < 100 || rt.Status > 599 {
			errs = append(errs, fmt.Errorf("route[%d].status: %d out of range", i, rt.Status))
		}
	}
	return errors.Join(errs...)
}

// underPrefix reports whether the delegate for prefix is consulted for
// requests to path. The match is per path segment.
func underPrefix(path, prefix string) bool {
	if prefix == "/" {
		return true
	}
	path = strings.SplitN(path, ".", 2)[0]
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
