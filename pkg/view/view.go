// Package view turns content documents into HTML: the document body, with
// blocks or with the legacy fields, and the page around it.
package view

import (
	"github.com/a-h/templ"
	"github.com/nzambello/ploneview/pkg/blocks"
	"github.com/nzambello/ploneview/pkg/core"
	"github.com/nzambello/ploneview/pkg/markup"
)

// Viewer renders documents. It holds no per-request state.
type Viewer struct {
	blocks *blocks.Renderer
}

// New returns a viewer rendering blocks with r.
func New(r *blocks.Renderer) *Viewer {
	return &Viewer{blocks: r}
}

// Blocks returns the block renderer.
func (v *Viewer) Blocks() *blocks.Renderer { return v.blocks }

// Document renders the body of doc. Documents with blocks are rendered
// block by block; others get the fixed layout of title, description, lead
// image and rich text.
func (v *Viewer) Document(doc core.Document) templ.Component {
	if doc.HasBlocks() {
		return markup.Element("div",
			[]markup.Attr{markup.A("id", "page-document"), markup.A("class", "viewwrapper blocks-view")},
			v.blocks.RenderBlocks(doc, nil)...,
		)
	}
	return markup.Element("div",
		[]markup.Attr{markup.A("id", "page-document"), markup.A("class", "view-wrapper")},
		v.legacy(doc)...,
	)
}

func (v *Viewer) legacy(doc core.Document) []templ.Component {
	var out []templ.Component
	if title := doc.Title(); title != "" {
		if sub := doc.Subtitle(); sub != "" {
			title += " - " + sub
		}
		out = append(out, markup.Element("h1", []markup.Attr{markup.A("class", "documentFirstHeading")}, markup.Text(title)))
	}
	if desc := doc.Description(); desc != "" {
		out = append(out, markup.Element("p", []markup.Attr{markup.A("class", "documentDescription")}, markup.Text(desc)))
	}
	if src := v.leadImageSrc(doc.Image()); src != "" {
		out = append(out, markup.Void("img", []markup.Attr{
			markup.A("class", "documentImage"),
			markup.A("alt", doc.Title()),
			markup.Opt("title", doc.Title()),
			markup.Href("src", src),
		}))
	}
	if text := doc.Text(); text != "" {
		out = append(out, markup.El("div", markup.Raw(v.blocks.Env().TrustedHTML(text))))
	}
	return out
}

// leadImageSrc picks the original of vector images and the mini scale of
// raster ones.
func (v *Viewer) leadImageSrc(img core.Image) string {
	if img == nil {
		return ""
	}
	src := img.Scale("mini")
	if img.IsSVG() || src == "" {
		src = img.Download()
	}
	if n := v.blocks.Env().URLs; n != nil {
		src = n.FlattenToAppURL(src)
	}
	return src
}
