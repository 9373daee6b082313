package slate

import (
	"maps"
	"sort"

	"github.com/a-h/templ"
	"github.com/nzambello/ploneview/pkg/markup"
	"github.com/nzambello/ploneview/pkg/urls"
)

// DefaultElement is the registry key used for unknown element types.
const DefaultElement = "default"

// Props is what an element renderer receives.
type Props struct {
	// ID is the anchor id, empty when the element is not an anchor target.
	ID       string
	Node     Node
	Data     *ElementData
	Children []templ.Component
}

// Attrs returns the HTML attributes every block level element carries.
func (p Props) Attrs() []markup.Attr {
	return []markup.Attr{markup.Opt("id", p.ID)}
}

// ElementFunc renders one element node.
type ElementFunc func(p Props) templ.Component

// Elements maps element types to renderers. Build it once with
// NewElements and treat it as read only.
type Elements struct {
	m map[string]ElementFunc
}

// NewElements copies m into an immutable registry. A "default" entry
// rendering a paragraph is added when m lacks one.
func NewElements(m map[string]ElementFunc) Elements {
	cp := maps.Clone(m)
	if cp == nil {
		cp = map[string]ElementFunc{}
	}
	if cp[DefaultElement] == nil {
		cp[DefaultElement] = withAttrs("p")
	}
	return Elements{m: cp}
}

// Lookup returns the renderer for typ.
func (e Elements) Lookup(typ string) (ElementFunc, bool) {
	fn, ok := e.m[typ]
	return fn, ok && fn != nil
}

// Default returns the fallback renderer.
func (e Elements) Default() ElementFunc {
	if fn := e.m[DefaultElement]; fn != nil {
		return fn
	}
	return withAttrs("p")
}

// Types returns the registered element types, sorted.
func (e Elements) Types() []string {
	types := make([]string, 0, len(e.m))
	for t := range e.m {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// With returns a copy of e with fn registered for typ.
func (e Elements) With(typ string, fn ElementFunc) Elements {
	cp := maps.Clone(e.m)
	cp[typ] = fn
	return Elements{m: cp}
}

// withAttrs renders tag carrying the anchor attributes.
func withAttrs(tag string) ElementFunc {
	return func(p Props) templ.Component {
		return markup.Element(tag, p.Attrs(), p.Children...)
	}
}

// inline renders tag without attributes. Inline marks never carry anchors.
func inline(tag string) ElementFunc {
	return func(p Props) templ.Component {
		return markup.El(tag, p.Children...)
	}
}

// DefaultElements returns the standard element set. Links are resolved
// against n.
func DefaultElements(n *urls.Normalizer) Elements {
	m := map[string]ElementFunc{
		DefaultElement: withAttrs("p"),
		"p":            withAttrs("p"),
		"div":          withAttrs("div"),
		"h1":           withAttrs("h1"),
		"h2":           withAttrs("h2"),
		"h3":           withAttrs("h3"),
		"h4":           withAttrs("h4"),
		"h5":           withAttrs("h5"),
		"h6":           withAttrs("h6"),
		"li":           withAttrs("li"),
		"ol":           withAttrs("ol"),
		"ul":           withAttrs("ul"),
		"em":           inline("em"),
		"i":            inline("i"),
		"b":            inline("b"),
		"strong":       inline("strong"),
		"u":            inline("u"),
		"s":            inline("del"),
		"del":          inline("del"),
		"sub":          inline("sub"),
		"sup":          inline("sup"),
		"code":         inline("code"),
		"blockquote":   inline("blockquote"),
		"a":            LinkElement(n),
	}
	return NewElements(m)
}
