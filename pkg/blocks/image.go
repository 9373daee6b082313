package blocks

import (
	"github.com/a-h/templ"
	"github.com/nzambello/ploneview/pkg/core"
	"github.com/nzambello/ploneview/pkg/markup"
	"github.com/nzambello/ploneview/pkg/urls"
)

// imageScale maps the block size field to the image scale suffix.
var imageScale = map[string]string{
	"l": "",
	"m": "/preview",
	"s": "/mini",
}

type imageLink struct {
	Href  string
	Blank bool
}

type imageData struct {
	Class    string
	ImgClass string
	Src      string
	Alt      string
	// Title is the alt text used when Alt is empty.
	Title string
	Lazy  bool
	Link  *imageLink
}

// targetBlank reports whether a block asks to open its link in a new
// window. Editors store either a boolean or a target string.
func targetBlank(b core.Block) bool {
	switch v := b.Lookup("target").(type) {
	case bool:
		return v
	case string:
		return v != "" && v != "_self"
	}
	return false
}

func newImageLink(n *urls.Normalizer, href string, blank bool) *imageLink {
	if href == "" {
		return nil
	}
	if n != nil && n.IsInternalURL(href) {
		href = n.FlattenToAppURL(href)
	}
	return &imageLink{Href: href, Blank: blank}
}

// classNames joins the classes markup.Class would render.
func classNames(classes ...any) string {
	return markup.Class(classes...).Value
}

func envURLs(p Props) *urls.Normalizer {
	if p.Env == nil {
		return nil
	}
	return p.Env.URLs
}

// ImageSrc returns the src of an image block. Internal images are served
// from the backend at the scale matching size; external URLs are used as
// is.
func ImageSrc(n *urls.Normalizer, u, size string) string {
	if n == nil || !n.IsInternalURL(u) {
		return u
	}
	return n.APIPath() + n.FlattenToAppURL(u) + "/@@images/image" + imageScale[size]
}

// ImageView renders an image block.
func ImageView(p Props) templ.Component {
	align := p.Content.Str("align")
	size := p.Content.Str("size")
	n := envURLs(p)

	data := imageData{
		Class: classNames("block image align",
			templ.KV("center", align == ""),
			templ.KV("detached", p.Data.Bool("detached")),
			align,
		),
		Alt:  p.Content.Str("alt"),
		Lazy: true,
	}
	if u := p.Content.Str("url"); u != "" {
		data.Src = ImageSrc(n, u, size)
		data.ImgClass = classNames(
			templ.KV("full-width", align == "full"),
			templ.KV("large", size == "l"),
			templ.KV("medium", size == "m"),
			templ.KV("small", size == "s"),
		)
		href := core.String(p.Data, "href")
		if href == "" {
			href = hrefRef(p.Data)
		}
		data.Link = newImageLink(n, href, targetBlank(p.Data))
	}
	return views.Component("image", data)
}

// hrefRef returns the @id of the first object browser reference in href.
func hrefRef(b core.Block) string {
	refs := b.Slice("href")
	if len(refs) == 0 {
		return ""
	}
	ref, _ := refs[0].(map[string]any)
	return core.String(ref, "@id")
}

// LeadImageView renders the lead image field of the document. The image
// caption is the alt text, falling back to the document title.
func LeadImageView(p Props) templ.Component {
	align := p.Data.Str("align")
	n := envURLs(p)

	data := imageData{
		Class: classNames("block leadimage image align", templ.KV("center", align == ""), align),
		Alt:   core.String(p.Properties, "image_caption"),
		Title: p.Properties.Title(),
	}
	if image := p.Properties.Image(); image != nil {
		data.Src = image.Download()
		if n != nil {
			data.Src = n.FlattenToAppURL(data.Src)
		}
		data.ImgClass = classNames(templ.KV("full-width", align == "full"))
		data.Link = newImageLink(n, p.Data.Str("href"), targetBlank(p.Data))
	}
	return views.Component("image", data)
}
