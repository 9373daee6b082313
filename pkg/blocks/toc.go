package blocks

import (
	"strconv"

	"github.com/a-h/templ"
	"github.com/nzambello/ploneview/pkg/core"
	"github.com/nzambello/ploneview/pkg/markup"
	"github.com/nzambello/ploneview/pkg/slate"
)

// TocEntry is a heading listed by the table of contents block.
type TocEntry struct {
	Level int
	Title string
	ID    string
}

// TocEntries collects the headings of the rich text blocks of properties,
// nested blocks included, in breadth first order. levels restricts the
// heading tags; empty means all.
func TocEntries(reg *Registry, sr *slate.Renderer, properties core.Document, levels []string) []TocEntry {
	if sr == nil {
		return nil
	}
	allowed := make(map[int]bool, len(levels))
	for _, l := range levels {
		if len(l) == 2 && l[0] == 'h' && l[1] >= '1' && l[1] <= '6' {
			allowed[int(l[1]-'0')] = true
		}
	}
	var entries []TocEntry
	core.VisitBlocks(properties, func(id string, b core.Block) {
		if reg.Canonical(b.Type()) != "slate" {
			return
		}
		for _, h := range sr.Headings(id, slate.Decode(b.Lookup("value"))) {
			if len(allowed) > 0 && !allowed[h.Level] {
				continue
			}
			if h.Text == "" {
				continue
			}
			entries = append(entries, TocEntry{Level: h.Level, Title: h.Text, ID: h.ID})
		}
	})
	return entries
}

func tocLevels(b core.Block) []string {
	var levels []string
	for _, v := range b.Slice("levels") {
		if s := core.ToString(v); s != "" {
			levels = append(levels, s)
		}
	}
	return levels
}

func tocItems(p Props) []TocEntry {
	var sr *slate.Renderer
	if p.Env != nil {
		sr = p.Env.Slate
	}
	return TocEntries(p.Registry, sr, p.Properties, tocLevels(p.Data))
}

func tocTitle(p Props) templ.Component {
	if p.Data.Bool("hide_title") || p.Data.Str("title") == "" {
		return nil
	}
	return markup.El("h2", markup.Text(p.Data.Str("title")))
}

// TocView lists the page headings as a nested-level flat list.
func TocView(p Props) templ.Component {
	entries := tocItems(p)
	items := make([]templ.Component, 0, len(entries))
	for _, e := range entries {
		items = append(items, markup.Element("li",
			[]markup.Attr{markup.A("class", "item headline-"+strconv.Itoa(e.Level))},
			markup.Element("a", []markup.Attr{markup.Href("href", "#"+e.ID)}, markup.Text(e.Title)),
		))
	}
	list := "ul"
	if p.Data.Bool("ordered") {
		list = "ol"
	}
	return markup.Element("nav", []markup.Attr{markup.A("class", "block table-of-contents")},
		tocTitle(p),
		markup.El(list, items...),
	)
}

// TocHorizontalView renders the headings as a horizontal menu. Only the
// top level present in the page is shown.
func TocHorizontalView(p Props) templ.Component {
	entries := tocItems(p)
	top := 7
	for _, e := range entries {
		top = min(top, e.Level)
	}
	var items []templ.Component
	for _, e := range entries {
		if e.Level != top {
			continue
		}
		items = append(items, markup.Element("a",
			[]markup.Attr{markup.A("class", "item"), markup.Href("href", "#"+e.ID)},
			markup.Text(e.Title),
		))
	}
	return markup.Element("nav", []markup.Attr{markup.A("class", "block table-of-contents horizontalMenu")},
		tocTitle(p),
		markup.Element("div", []markup.Attr{markup.A("class", "menu")}, items...),
	)
}
