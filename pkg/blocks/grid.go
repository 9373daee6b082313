package blocks

import (
	"github.com/a-h/templ"
	"github.com/nzambello/ploneview/pkg/core"
	"github.com/nzambello/ploneview/pkg/markup"
)

var columnCount = []string{"", "one", "two", "three", "four"}

// nested returns the container of a composite block, stored either on the
// block itself or under its data field.
func nested(b core.Block) (*core.Container, bool) {
	if c, ok := core.ContainerOf(b); ok {
		return c, true
	}
	return core.ContainerOf(b.Map("data"))
}

// GridView renders a grid block: each nested block becomes a column.
func GridView(p Props) templ.Component {
	c, ok := nested(p.Content)
	if !ok || p.Blocks == nil {
		return nil
	}
	pairs := c.Pairs()
	columns := make([]templ.Component, 0, len(pairs))
	for _, pair := range pairs {
		columns = append(columns, markup.Element("div",
			[]markup.Attr{markup.Class("grid-column", "grid-block-"+pair.Block.Type())},
			p.Blocks.RenderBlock(pair.ID, pair.Block, p.Properties, p.Meta()),
		))
	}

	var count string
	if len(pairs) < len(columnCount) {
		count = columnCount[len(pairs)]
	}
	class := markup.Class("block __grid", templ.KV("centered", p.Data.Str("headline") == ""), count)

	var parts []templ.Component
	if headline := p.Data.Str("headline"); headline != "" {
		parts = append(parts, markup.Element("h2", []markup.Attr{markup.A("class", "headline")}, markup.Text(headline)))
	}
	parts = append(parts, markup.Element("div", []markup.Attr{markup.A("class", "grid-row")}, columns...))
	return markup.Element("div", []markup.Attr{class}, parts...)
}
