package core

import (
	"sort"
	"strings"
)

// StyleClassNames turns a block "styles" object into CSS class names.
//
//	{"color": "red", "backgroundColor": "#AABBCC"}
//	-> has--backgroundColor--AABBCC, has--color--red
//
// Nested objects add one level: {"align": {"x": "left"}} gives
// has--align--x--left. A leading "#" is dropped from every part. Keys are
// sorted so the output is stable.
func StyleClassNames(styles map[string]any) []string {
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var classes []string
	for _, k := range keys {
		nested, ok := styles[k].(map[string]any)
		if !ok {
			classes = append(classes, styleClass(k, styleValue(styles[k]), ""))
			continue
		}
		subkeys := make([]string, 0, len(nested))
		for sk := range nested {
			subkeys = append(subkeys, sk)
		}
		sort.Strings(subkeys)
		for _, sk := range subkeys {
			classes = append(classes, styleClass(k, sk, styleValue(nested[sk])))
		}
	}
	return classes
}

func styleClass(key, value, extra string) string {
	name := "has--" + stripHash(key) + "--" + stripHash(value)
	if extra = stripHash(extra); extra != "" {
		name += "--" + extra
	}
	return name
}

// styleValue formats v. Falsy values become the empty string.
func styleValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		if !t {
			return ""
		}
	case float64:
		if t == 0 {
			return ""
		}
	}
	return ToString(v)
}

func stripHash(s string) string {
	return strings.TrimPrefix(s, "#")
}
