package core

import (
	"fmt"
	"strconv"
)

// Lookup walks nested maps along keys and returns the value found, or nil
// when any step is missing or not a map.
func Lookup(m map[string]any, keys ...string) any {
	var cur any = m
	for _, k := range keys {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = mm[k]
	}
	return cur
}

// String returns the string at keys. Numbers and booleans are formatted;
// anything else yields "".
func String(m map[string]any, keys ...string) string {
	return ToString(Lookup(m, keys...))
}

// ToString formats scalar JSON values. Maps, slices and nil give "".
func ToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	}
	return ""
}

// Bool returns the boolean at keys, false when absent or not a boolean.
func Bool(m map[string]any, keys ...string) bool {
	b, _ := Lookup(m, keys...).(bool)
	return b
}

// Map returns the object at keys or nil.
func Map(m map[string]any, keys ...string) map[string]any {
	mm, _ := Lookup(m, keys...).(map[string]any)
	return mm
}

// Slice returns the array at keys or nil.
func Slice(m map[string]any, keys ...string) []any {
	s, _ := Lookup(m, keys...).([]any)
	return s
}
