// Package render hosts the html/template side of page rendering: shared
// template helpers and a bridge exposing executed templates as templ
// components.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/a-h/templ"
)

// Template is a parsed html/template set rendered by name.
type Template struct {
	tmpl *template.Template
}

// Parse parses the files matching patterns in fsys with the shared helpers
// plus extra.
func Parse(fsys fs.FS, extra template.FuncMap, patterns ...string) (*Template, error) {
	t := template.New("").Funcs(GetTemplateFuncs())
	if extra != nil {
		t = t.Funcs(extra)
	}
	t, err := t.ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Template{tmpl: t}, nil
}

// MustParse is Parse for templates embedded in the binary.
func MustParse(fsys fs.FS, extra template.FuncMap, patterns ...string) *Template {
	t, err := Parse(fsys, extra, patterns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Component executes the named template when rendered. The output is
// buffered so a failing template writes nothing.
func (t *Template) Component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := t.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
			return fmt.Errorf("executing template %s: %w", name, err)
		}
		_, err := buf.WriteTo(w)
		return err
	})
}

// HTML renders a component for inclusion in an html/template.
func HTML(ctx context.Context, c templ.Component) (template.HTML, error) {
	return templ.ToGoHTML(ctx, c)
}
