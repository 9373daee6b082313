package view

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/nzambello/ploneview/pkg/core"
	"github.com/nzambello/ploneview/pkg/i18n"
	"github.com/nzambello/ploneview/pkg/livereload"
	"github.com/nzambello/ploneview/pkg/plone"
	"github.com/nzambello/ploneview/pkg/render"
	"github.com/nzambello/ploneview/pkg/urls"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = render.MustParse(templatesFS, nil, "templates/*.html")

// PageData is what the page layout needs around the document body.
type PageData struct {
	Lang         string
	Title        string
	SiteTitle    string
	HomeURL      string
	Path         string
	Navigation   []NavLink
	Languages    []LanguageLink
	LiveReload   bool
	Version      string
	// CanonicalURL is the public URL of the document, if any.
	CanonicalURL string

	// Content is rendered into <main>.
	Content templ.Component

	printer *i18n.Printer
}

// Dir returns the text direction of the page language.
func (d PageData) Dir() string { return i18n.Dir(d.Lang) }

// T translates an interface string into the page language.
func (d PageData) T(key string, args ...any) string {
	if d.printer == nil {
		d.printer = i18n.NewPrinter(d.Lang)
	}
	return d.printer.T(key, args...)
}

// DocumentTitle is the content of <title>.
func (d PageData) DocumentTitle() string {
	switch {
	case d.Title == "":
		return d.SiteTitle
	case d.SiteTitle == "" || d.Title == d.SiteTitle:
		return d.Title
	}
	return d.Title + " - " + d.SiteTitle
}

// LiveReloadScript returns the script reloading the page in development.
func (d PageData) LiveReloadScript() template.JS {
	return template.JS(livereload.Script)
}

// NavLink is an entry of the site navigation.
type NavLink struct {
	Title       string
	Description string
	URL         string
	Active      bool
	Items       []NavLink
}

// Navigation converts @navigation items to app links, depth levels deep.
// The entry containing path is marked active.
func Navigation(n *urls.Normalizer, items []plone.NavItem, depth int, path string) []NavLink {
	if depth <= 0 || len(items) == 0 {
		return nil
	}
	links := make([]NavLink, 0, len(items))
	for _, item := range items {
		u := item.ID
		if n != nil {
			u = n.FlattenToAppURL(u)
		}
		links = append(links, NavLink{
			Title:       item.Title,
			Description: item.Description,
			URL:         u,
			Active:      u != "" && (path == u || len(path) > len(u) && path[:len(u)] == u && path[len(u)] == '/'),
			Items:       Navigation(n, item.Items, depth-1, path),
		})
	}
	return links
}

// LanguageLink is an entry of the language selector.
type LanguageLink struct {
	Code      string
	Name      string
	AriaLabel string
	URL       string
	Selected  bool
	// PublicURL is the absolute URL of the translation, empty when the
	// document is not translated into Code.
	PublicURL string
}

// Languages builds the language selector. Languages the document is
// translated into link to the translation, the others to their root.
// Translations also get their public URL for hreflang alternates.
func Languages(n *urls.Normalizer, supported []string, current string, translations []core.Translation) []LanguageLink {
	byLang := make(map[string]string, len(translations))
	for _, t := range translations {
		byLang[t.Language] = t.ID
	}
	p := i18n.NewPrinter(current)
	links := make([]LanguageLink, 0, len(supported))
	for _, lang := range supported {
		link := LanguageLink{
			Code:      lang,
			Name:      i18n.NativeName(lang),
			AriaLabel: p.T("Switch to %s", i18n.LowerNativeName(lang)),
			URL:       "/" + lang,
			Selected:  lang == current,
		}
		if id, ok := byLang[lang]; ok && n != nil {
			link.URL = n.FlattenToAppURL(id)
			link.PublicURL = n.ToPublicURL(id)
		}
		links = append(links, link)
	}
	return links
}

type pageModel struct {
	PageData
	Body template.HTML
}

// Page renders a complete HTML page around data.Content.
func Page(data PageData) templ.Component {
	return layout("page", data)
}

// NotFound renders the 404 page for data.Path.
func NotFound(data PageData) templ.Component {
	return layout("notfound", data)
}

func layout(name string, data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data.printer = i18n.NewPrinter(data.Lang)
		var body template.HTML
		if data.Content != nil {
			var err error
			if body, err = render.HTML(ctx, data.Content); err != nil {
				return err
			}
		}
		return pages.Component(name, pageModel{PageData: data, Body: body}).Render(ctx, w)
	})
}
