// Package i18n resolves the request locale and translates the interface
// strings of the site chrome.
package i18n

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// CookieName is the cookie remembering the visitor's locale.
const CookieName = "i18n"

// QueryParam overrides the locale for a single request.
const QueryParam = "lng"

// Locales detects request locales among a fixed set of supported
// languages.
type Locales struct {
	supported []string
	tags      []language.Tag
	matcher   language.Matcher
	fallback  string
}

// NewLocales returns the detector for supported, falling back to def. def
// must be supported.
func NewLocales(supported []string, def string) (*Locales, error) {
	if len(supported) == 0 {
		return nil, fmt.Errorf("no supported languages")
	}
	l := &Locales{fallback: def}
	found := false
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("supported language %q: %w", s, err)
		}
		l.supported = append(l.supported, s)
		l.tags = append(l.tags, tag)
		found = found || s == def
	}
	if !found {
		return nil, fmt.Errorf("default language %q is not supported", def)
	}
	// The matcher prefers its first tag on ties, so the default goes first.
	ordered := []language.Tag{language.Make(def)}
	for i, s := range l.supported {
		if s != def {
			ordered = append(ordered, l.tags[i])
		}
	}
	l.matcher = language.NewMatcher(ordered)
	return l, nil
}

// Supported returns the supported language codes in configuration order.
func (l *Locales) Supported() []string { return l.supported }

// Default returns the fallback language.
func (l *Locales) Default() string { return l.fallback }

// IsSupported reports whether lang is one of the supported codes.
func (l *Locales) IsSupported(lang string) bool {
	for _, s := range l.supported {
		if s == lang {
			return true
		}
	}
	return false
}

// Detect returns the locale of r: the first path segment when it is a
// supported language, then the lng query parameter, then the i18n cookie,
// then the best Accept-Language match, then the default.
func (l *Locales) Detect(r *http.Request) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if l.IsSupported(seg) {
		return seg
	}
	if q := r.URL.Query().Get(QueryParam); l.IsSupported(q) {
		return q
	}
	if c, err := r.Cookie(CookieName); err == nil && l.IsSupported(c.Value) {
		return c.Value
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if lang, ok := l.Match(accept); ok {
			return lang
		}
	}
	return l.fallback
}

// Match returns the supported language best matching an Accept-Language
// header value.
func (l *Locales) Match(accept string) (string, bool) {
	prefs, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(prefs) == 0 {
		return "", false
	}
	_, index, conf := l.matcher.Match(prefs...)
	if conf == language.No {
		return "", false
	}
	if index == 0 {
		return l.fallback, true
	}
	// index counts the reordered list, where the default is first.
	i := 0
	for _, s := range l.supported {
		if s == l.fallback {
			continue
		}
		i++
		if i == index {
			return s, true
		}
	}
	return "", false
}

// SetCookie remembers lang for a year.
func SetCookie(w http.ResponseWriter, lang string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    lang,
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})
}

// NativeName returns the name of lang in lang itself, as "italiano" for
// "it". Unknown codes are returned unchanged.
func NativeName(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return lang
}

// LowerNativeName is NativeName lower cased with the rules of lang.
func LowerNativeName(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return strings.ToLower(lang)
	}
	return cases.Lower(tag).String(NativeName(lang))
}

var rtlScripts = map[string]bool{"Arab": true, "Hebr": true, "Thaa": true, "Syrc": true, "Nkoo": true}

// Dir returns the text direction of lang, "rtl" or "ltr".
func Dir(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return "ltr"
	}
	script, _ := tag.Script()
	if rtlScripts[script.String()] {
		return "rtl"
	}
	return "ltr"
}
