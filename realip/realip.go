// Package realip resolves the client address of a request that may have
// passed through reverse proxies.
package realip

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

var privateRanges = []netip.Prefix{
	// IPv4 private
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	// IPv4 link-local
	netip.MustParsePrefix("169.254.0.0/16"),
	// IPv4 shared address space (RFC 6598)
	netip.MustParsePrefix("100.64.0.0/10"),
	// IPv4 benchmarking (RFC 2544)
	netip.MustParsePrefix("198.18.0.0/15"),
	// IPv6 unique local
	netip.MustParsePrefix("fc00::/7"),
	// IPv6 link-local
	netip.MustParsePrefix("fe80::/10"),
}

// IsPrivate reports whether addr is in a private, shared, benchmarking or
// link-local range.
func IsPrivate(addr netip.Addr) bool {
	addr = normalize(addr)
	for _, p := range privateRanges {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Get returns the client IP for r. X-Forwarded-For and then X-Real-Ip are
// scanned right to left for the first public address. Failing that, the
// first valid address seen in those headers is used, then RemoteAddr.
func Get(r *http.Request) (string, error) {
	var firstValid string

	for _, name := range []string{"X-Forwarded-For", "X-Real-Ip"} {
		addrs := parseList(r.Header.Get(name))
		if firstValid == "" && len(addrs) > 0 {
			firstValid = addrs[0].String()
		}
		for i := len(addrs) - 1; i >= 0; i-- {
			if a := addrs[i]; a.IsGlobalUnicast() && !IsPrivate(a) {
				return a.String(), nil
			}
		}
	}

	if firstValid != "" {
		return firstValid, nil
	}
	if a, ok := Remote(r); ok {
		return a.String(), nil
	}
	return "", fmt.Errorf("realip: no valid address in request from %q", r.RemoteAddr)
}

// Remote parses the peer address of r, with or without a port.
func Remote(r *http.Request) (netip.Addr, bool) {
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	a, err := netip.ParseAddr(host)
	return a, err == nil
}

func parseList(v string) []netip.Addr {
	if v == "" {
		return nil
	}
	var addrs []netip.Addr
	for _, part := range strings.Split(v, ",") {
		if a, err := netip.ParseAddr(strings.TrimSpace(part)); err == nil {
			addrs = append(addrs, a)
		}
	}
	return addrs
}

// Trusted is a set of proxies allowed to report the client address in
// forwarding headers. A nil or empty Trusted trusts private addresses only,
// which is safe when the server always sits behind a reverse proxy and
// clients cannot connect directly from a private network.
type Trusted struct {
	prefixes []netip.Prefix
}

// ParseTrusted parses proxy addresses and CIDR blocks. Every malformed
// entry is reported.
func ParseTrusted(entries []string) (*Trusted, error) {
	t := &Trusted{}
	var errs []error
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if strings.Contains(e, "/") {
			p, err := netip.ParsePrefix(e)
			if err != nil {
				errs = append(errs, fmt.Errorf("realip: proxy %q: %w", e, err))
				continue
			}
			t.prefixes = append(t.prefixes, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(e)
		if err != nil {
			errs = append(errs, fmt.Errorf("realip: proxy %q: %w", e, err))
			continue
		}
		a = normalize(a)
		t.prefixes = append(t.prefixes, netip.PrefixFrom(a, a.BitLen()))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return t, nil
}

// Contains reports whether a request from addr may set forwarding headers.
func (t *Trusted) Contains(addr netip.Addr) bool {
	if t == nil || len(t.prefixes) == 0 {
		return IsPrivate(addr)
	}
	addr = normalize(addr)
	for _, p := range t.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// normalize drops the zone and unmaps IPv4-in-IPv6 so prefix checks apply.
func normalize(a netip.Addr) netip.Addr {
	return a.WithZone("").Unmap()
}
