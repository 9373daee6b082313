package blocks

import (
	"html/template"

	"github.com/a-h/templ"
	"github.com/nzambello/ploneview/pkg/markup"
)

// TitleView renders the document title as the page heading.
func TitleView(p Props) templ.Component {
	return views.Component("title", p.Meta().Title())
}

// DescriptionView renders the document description.
func DescriptionView(p Props) templ.Component {
	return views.Component("description", p.Meta().Description())
}

// TextView renders a rich text block. Blocks without a value render
// nothing. With override_toc every top level element becomes an anchor.
func TextView(p Props) templ.Component {
	value := p.Content.Slice("value")
	if len(value) == 0 || p.Env == nil || p.Env.Slate == nil {
		return nil
	}
	return markup.Fragment(p.Env.Slate.RenderValue(p.ID, value, p.Data.Bool("override_toc"))...)
}

// HTMLView renders the raw HTML of an html block.
func HTMLView(p Props) templ.Component {
	return views.Component("html", template.HTML(p.Env.TrustedHTML(p.Content.Str("html"))))
}
