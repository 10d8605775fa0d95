package router

import (
	"net/http"
	"strings"
)

// Delegating routes requests to sub-routers registered under literal path
// prefixes, trying the longest matching prefix first and falling back to a
// default router.
//
// Register delegates during setup; Route is safe for concurrent use once
// registration has finished.
type Delegating struct {
	delegates map[string]Router
	fallback  Router
}

// NewDelegating creates a Delegating router that falls back to fallback.
func NewDelegating(fallback Router) *Delegating {
	if fallback == nil {
		panic("router: nil fallback passed to NewDelegating")
	}
	return &Delegating{
		delegates: make(map[string]Router),
		fallback:  fallback,
	}
}

// DelegateTo registers r for the exact prefix. A later registration for the
// same prefix replaces the earlier one.
//
// The prefix must start with "/", must not end with "/" (except the root "/"),
// and must not contain "." or empty segments, since such a prefix could never
// equal a candidate produced from a request path.
func (d *Delegating) DelegateTo(prefix string, r Router) error {
	if r == nil {
		return ErrNilRouter
	}
	if err := ValidatePrefix(prefix); err != nil {
		return err
	}
	d.delegates[prefix] = r
	return nil
}

// Route tries the delegates registered for each candidate prefix of the
// request path, most specific first. The first result that is not NotFound
// wins. If every delegate along the chain reports NotFound, the fallback's
// result is returned as is.
func (d *Delegating) Route(r *http.Request) Result {
	for _, prefix := range Prefixes(r.URL.Path) {
		delegate, ok := d.delegates[prefix]
		if !ok {
			continue
		}
		if res := delegate.Route(r); !IsNotFound(res) {
			return res
		}
	}
	return d.fallback.Route(r)
}

// Prefixes returns the candidate prefixes for path, longest first and ending
// with "/". Anything from the first "." onwards is dropped before the path is
// split, so "/foo/bar.json" yields "/foo/bar", "/foo", "/".
func Prefixes(path string) []string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return []string{"/"}
	}

	parts := strings.Split(path, "/")
	prefixes := make([]string, 0, len(parts)+1)
	for i := len(parts); i > 0; i-- {
		prefixes = append(prefixes, "/"+strings.Join(parts[:i], "/"))
	}
	return append(prefixes, "/")
}

// ValidatePrefix reports whether prefix can be passed to DelegateTo. The
// returned error is a *PrefixError.
func ValidatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return &PrefixError{Prefix: prefix, Reason: "empty"}
	case prefix[0] != '/':
		return &PrefixError{Prefix: prefix, Reason: "must start with /"}
	case prefix == "/":
		return nil
	case strings.HasSuffix(prefix, "/"):
		return &PrefixError{Prefix: prefix, Reason: "trailing slash"}
	case strings.Contains(prefix, "."):
		return &PrefixError{Prefix: prefix, Reason: "contains a dot"}
	case strings.Contains(prefix, "//"):
		return &PrefixError{Prefix: prefix, Reason: "empty segment"}
	}
	return nil
}
