package blocks

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/nzambello/ploneview/pkg/core"
	"github.com/nzambello/ploneview/pkg/markup"
	"github.com/nzambello/ploneview/pkg/render"
)

type tableCell struct {
	key    string
	header bool
	value  any
}

type tableRow struct {
	key   string
	cells []tableCell
}

func tableRows(table map[string]any) []tableRow {
	var rows []tableRow
	for _, raw := range core.Slice(table, "rows") {
		rm, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		row := tableRow{key: core.String(rm, "key")}
		for _, c := range core.Slice(rm, "cells") {
			cm, ok := c.(map[string]any)
			if !ok {
				continue
			}
			row.cells = append(row.cells, tableCell{
				key:    core.String(cm, "key"),
				header: core.String(cm, "type") == "header",
				value:  cm["value"],
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// all reports whether every cell satisfies header == want. Rows without
// cells satisfy both.
func (r tableRow) all(header bool) bool {
	for _, c := range r.cells {
		if c.header != header {
			return false
		}
	}
	return true
}

type tableData struct {
	Class    string
	ShowHead bool
	Head     [][]template.HTML
	Body     [][]template.HTML
}

// TableView renders table and slateTable blocks. Rows made only of header
// cells go to <thead>, rows made only of data cells to <tbody>. Mixed rows
// are not rendered.
func TableView(p Props) templ.Component {
	table := p.Content.Map("table")
	if table == nil {
		return nil
	}
	flag := func(k string) bool { return core.Bool(table, k) }
	rows := tableRows(table)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		cells := func(r tableRow) ([]template.HTML, error) {
			out := make([]template.HTML, 0, len(r.cells))
			for _, c := range r.cells {
				var content []templ.Component
				if p.Env != nil && p.Env.Slate != nil {
					content = p.Env.Slate.RenderValue(c.key, c.value, false)
				}
				h, err := render.HTML(ctx, markup.Fragment(content...))
				if err != nil {
					return nil, err
				}
				out = append(out, h)
			}
			return out, nil
		}

		data := tableData{
			Class: classNames("slate-table-block",
				templ.KV("fixed", flag("fixed")),
				templ.KV("compact", flag("compact")),
				templ.KV("basic", flag("basic")),
				templ.KV("celled", flag("celled")),
				templ.KV("inverted", flag("inverted")),
				templ.KV("striped", flag("striped")),
				templ.KV("sortable", flag("sortable")),
			),
			ShowHead: !flag("hideHeaders"),
		}
		for _, r := range rows {
			if data.ShowHead && r.all(true) {
				c, err := cells(r)
				if err != nil {
					return err
				}
				data.Head = append(data.Head, c)
			}
			if r.all(false) {
				c, err := cells(r)
				if err != nil {
					return err
				}
				data.Body = append(data.Body, c)
			}
		}
		return views.Component("table", data).Render(ctx, w)
	})
}
