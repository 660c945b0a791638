// Package cors decides which CORS headers the htmlpage endpoint returns.
//
// Allowed origins are configured as a comma-separated list of glob patterns
// matched path-style: "*" stays within a "/"-separated segment, "**" spans
// segments and "?" matches a single character. There is no brace
// alternation: the list is split on "," first, so "{a,b}.example.com" becomes
// two malformed entries that never match. A pattern that carries no
// scheme ("*.example.com") is matched against the origin's host, so it
// allows the origin under any scheme.
package cors

import (
	"net/http"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	HeaderOrigin       = "Origin"
	HeaderAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAllowMethods = "Access-Control-Allow-Methods"

	// DefaultMethods is sent when Config.Methods is empty.
	DefaultMethods = "GET, POST, DELETE, PUT"
)

// Config controls header injection. The zero value disables CORS.
type Config struct {
	Enabled bool
	// Methods is the literal Access-Control-Allow-Methods value.
	Methods string
	// OriginPatterns is a comma-separated list of glob patterns.
	OriginPatterns string
}

// Policy applies a Config to responses.
type Policy struct {
	cfg Config
}

func NewPolicy(cfg Config) *Policy {
	if cfg.Methods == "" {
		cfg.Methods = DefaultMethods
	}
	return &Policy{cfg: cfg}
}

// Enabled reports whether the policy adds any header.
func (p *Policy) Enabled() bool {
	return p != nil && p.cfg.Enabled
}

// Apply sets the CORS headers for r on h. A disallowed origin still gets an
// Access-Control-Allow-Origin header, with an empty value.
func (p *Policy) Apply(h http.Header, r *http.Request) {
	if !p.Enabled() {
		return
	}
	origin := r.Header.Get(HeaderOrigin)
	allow := ""
	if IsValidOrigin(origin, p.cfg.OriginPatterns) {
		allow = origin
	}
	h.Set(HeaderAllowMethods, p.cfg.Methods)
	h.Set(HeaderAllowOrigin, allow)
	h.Add("Vary", HeaderOrigin)
}

// IsValidOrigin reports whether origin matches one of the comma-separated
// glob patterns. An empty origin or an empty pattern list is never valid.
func IsValidOrigin(origin, patterns string) bool {
	if origin == "" || patterns == "" {
		return false
	}
	for _, pattern := range strings.Split(patterns, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if matchOrigin(pattern, origin) {
			return true
		}
	}
	return false
}

func matchOrigin(pattern, origin string) bool {
	target := origin
	if !strings.Contains(pattern, "://") {
		if i := strings.Index(origin, "://"); i >= 0 {
			target = origin[i+len("://"):]
		}
	}
	ok, err := doublestar.Match(pattern, target)
	return err == nil && ok
}
