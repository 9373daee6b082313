package render

import (
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GetTemplateFuncs returns the helpers available to every page and block
// template.
func GetTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, length int) string {
			r := []rune(s)
			if len(r) <= length {
				return s
			}
			if length <= 3 {
				return string(r[:length])
			}
			return string(r[:length-3]) + "..."
		},

		"default": func(def, val any) any {
			if val == nil {
				return def
			}
			if v, ok := val.(string); ok && v == "" {
				return def
			}
			return val
		},
		"dict": func(kv ...any) map[string]any {
			m := make(map[string]any, len(kv)/2)
			for i := 0; i+1 < len(kv); i += 2 {
				m[fmt.Sprint(kv[i])] = kv[i+1]
			}
			return m
		},
		"classes": func(names ...string) string {
			out := names[:0:0]
			for _, n := range names {
				if n = strings.TrimSpace(n); n != "" {
					out = append(out, n)
				}
			}
			return strings.Join(out, " ")
		},

		// A Caser is not safe for concurrent use.
		"title": func(s string) string {
			return cases.Title(language.Und).String(s)
		},
	}
}
