// Package urls converts between backend, public and application URLs and
// classifies request paths as content or administrative routes.
//
// Every method is total over string input: malformed values come back
// unchanged rather than as errors.
package urls

import (
	"fmt"
	"regexp"
	"strings"
)

// APISegment is inserted between the backend root and the content path
// unless legacy traversal is configured.
const APISegment = "/++api++"

// RegexpPrefix marks a non-content route entry as a regular expression.
// Entries without it are literal path suffixes.
const RegexpPrefix = "re:"

// DefaultNonContentRoutes lists the administrative views of a Plone site.
var DefaultNonContentRoutes = []string{
	`re:\?.*$`,
	`re:/add$`,
	"/contents",
	"/delete",
	"/diff",
	`re:/edit$`,
	"/history",
	"/layout",
	"/login",
	"/logout",
	"/sitemap",
	"/register",
	"/sharing",
	"/search",
	"/change-password",
	`re:/controlpanel/.*$`,
	"/controlpanel",
	"/contact-form",
	"/personal-information",
	"/personal-preferences",
	`re:/passwordreset/.*$`,
	"/passwordreset",
	"/create-translation",
	"/manage-translations",
}

// Settings is the subset of the site configuration the normalizer needs.
type Settings struct {
	APIPath          string
	InternalAPIPath  string
	PublicURL        string
	LegacyTraverse   bool
	NonContentRoutes []string
}

// Normalizer holds compiled settings. It is immutable and safe for
// concurrent use.
type Normalizer struct {
	apiPath         string
	internalAPIPath string
	publicURL       string
	legacyTraverse  bool
	routes          []*regexp.Regexp
}

// New compiles the non-content route matchers. A malformed regular
// expression is a configuration error.
func New(s Settings) (*Normalizer, error) {
	n := &Normalizer{
		apiPath:         s.APIPath,
		internalAPIPath: s.InternalAPIPath,
		publicURL:       s.PublicURL,
		legacyTraverse:  s.LegacyTraverse,
	}
	for _, route := range s.NonContentRoutes {
		re, err := compileRoute(route)
		if err != nil {
			return nil, fmt.Errorf("non content route %q: %w", route, err)
		}
		n.routes = append(n.routes, re)
	}
	return n, nil
}

func compileRoute(route string) (*regexp.Regexp, error) {
	if pattern, ok := strings.CutPrefix(route, RegexpPrefix); ok {
		return regexp.Compile(pattern)
	}
	return regexp.Compile(regexp.QuoteMeta(route) + "$")
}

// APIPath returns the public backend root.
func (n *Normalizer) APIPath() string { return n.apiPath }

// FlattenToAppURL strips the internal API, public API and public site
// origins from u, in that order, until none of them is a prefix. The
// result is a site relative path for backend URLs and u itself otherwise.
func (n *Normalizer) FlattenToAppURL(u string) string {
	for {
		flat := u
		for _, origin := range []string{n.internalAPIPath, n.apiPath, n.publicURL} {
			if origin != "" {
				flat = strings.TrimPrefix(flat, origin)
			}
		}
		if flat == u {
			return flat
		}
		u = flat
	}
}

// ToPublicURL turns a backend or app URL into an absolute public URL.
func (n *Normalizer) ToPublicURL(u string) string {
	return n.publicURL + n.FlattenToAppURL(u)
}

// IsInternalURL reports whether u points inside the site: empty, relative
// (starting with "/", "." or "#") or containing a configured origin.
func (n *Normalizer) IsInternalURL(u string) bool {
	if u == "" {
		return true
	}
	switch u[0] {
	case '/', '.', '#':
		return true
	}
	for _, origin := range []string{n.publicURL, n.internalAPIPath, n.apiPath} {
		if origin != "" && strings.Contains(u, origin) {
			return true
		}
	}
	return false
}

// IsContentRoute reports whether path renders content, that is, whether no
// non-content route matcher hits it. The query string is ignored.
func (n *Normalizer) IsContentRoute(path string) bool {
	p := StripQuerystring(path)
	for _, re := range n.routes {
		if re.MatchString(p) {
			return false
		}
	}
	return true
}

// IsCmsUI is the negation of IsContentRoute.
func (n *Normalizer) IsCmsUI(path string) bool {
	return !n.IsContentRoute(path)
}

// ExpandToBackendURL returns the backend URL serving path. Absolute URLs
// are flattened first; relative paths get a leading slash.
func (n *Normalizer) ExpandToBackendURL(path string) string {
	var adjusted string
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		adjusted = n.FlattenToAppURL(path)
	} else if !strings.HasPrefix(path, "/") {
		adjusted = "/" + path
	} else {
		adjusted = path
	}
	if n.legacyTraverse {
		return n.apiPath + adjusted
	}
	return n.apiPath + APISegment + adjusted
}

// StripQuerystring drops everything from the first "?".
func StripQuerystring(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}
