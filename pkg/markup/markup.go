// Package markup builds HTML output as templ components.
//
// Block and rich text views produce trees of templ.Component values which
// compose with generated templ code and with html/template pages through
// templ.ToGoHTML.
package markup

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Attr is a single HTML attribute.
type Attr struct {
	Key   string
	Value string
	// Optional drops the attribute when Value is empty.
	Optional bool
	// URL sanitizes the value with templ.URL.
	URL bool
}

// A returns an attribute that is always rendered.
func A(key, value string) Attr { return Attr{Key: key, Value: value} }

// Opt returns an attribute that is omitted when value is empty.
func Opt(key, value string) Attr { return Attr{Key: key, Value: value, Optional: true} }

// Href returns an optional URL attribute whose value is sanitized.
func Href(key, value string) Attr {
	return Attr{Key: key, Value: value, Optional: true, URL: true}
}

// Class joins class names, skipping empty ones, into an optional class
// attribute. Arguments are anything templ.Classes accepts.
func Class(classes ...any) Attr {
	args := make([]any, 0, len(classes))
	for _, c := range classes {
		switch v := c.(type) {
		case string:
			if v = strings.TrimSpace(v); v != "" {
				args = append(args, v)
			}
		case []string:
			for _, s := range v {
				if s = strings.TrimSpace(s); s != "" {
					args = append(args, s)
				}
			}
		default:
			args = append(args, c)
		}
	}
	return Opt("class", templ.Classes(args...).String())
}

func (a Attr) skip() bool {
	return a.Key == "" || a.Optional && a.Value == ""
}

func writeAttrs(w io.Writer, attrs []Attr) error {
	for _, a := range attrs {
		if a.skip() {
			continue
		}
		v := a.Value
		if a.URL {
			v = string(templ.URL(v))
		}
		if _, err := io.WriteString(w, " "+a.Key+`="`+templ.EscapeString(v)+`"`); err != nil {
			return err
		}
	}
	return nil
}

// Element renders <tag attrs>children</tag>.
func Element(tag string, attrs []Attr, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<"+tag); err != nil {
			return err
		}
		if err := writeAttrs(w, attrs); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		for _, c := range children {
			if c == nil {
				continue
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</"+tag+">")
		return err
	})
}

// El is Element without attributes.
func El(tag string, children ...templ.Component) templ.Component {
	return Element(tag, nil, children...)
}

// Void renders an element without content or closing tag, such as <img>.
func Void(tag string, attrs []Attr) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<"+tag); err != nil {
			return err
		}
		if err := writeAttrs(w, attrs); err != nil {
			return err
		}
		_, err := io.WriteString(w, ">")
		return err
	})
}

// LineBreak renders <br>.
func LineBreak() templ.Component { return Void("br", nil) }

// Text renders s escaped.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

// Raw renders trusted HTML as is.
func Raw(html string) templ.Component { return templ.Raw(html) }

// Fragment renders children one after the other without a wrapper.
func Fragment(children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range children {
			if c == nil {
				continue
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Empty renders nothing.
func Empty() templ.Component { return templ.NopComponent }

// String renders c into a string.
func String(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MustString renders c and returns "" on error. Meant for tests.
func MustString(c templ.Component) string {
	s, _ := String(context.Background(), c)
	return s
}
