package slate

import (
	"strings"

	"github.com/a-h/templ"
	"github.com/nzambello/ploneview/pkg/log"
	"github.com/nzambello/ploneview/pkg/markup"
)

// DefaultTopLevelTargets are the element types that always carry the
// owner block id as anchor.
var DefaultTopLevelTargets = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// Renderer turns rich text trees into templ components. It holds no
// per-request state.
type Renderer struct {
	elements Elements
	targets  map[string]bool
	logger   *log.Logger
}

// NewRenderer returns a renderer using elements. Element types listed in
// topLevelTargets get the owner id as anchor.
func NewRenderer(elements Elements, topLevelTargets []string) *Renderer {
	targets := make(map[string]bool, len(topLevelTargets))
	for _, t := range topLevelTargets {
		targets[t] = true
	}
	return &Renderer{
		elements: elements,
		targets:  targets,
		logger:   log.ForService("slate"),
	}
}

// IsTarget reports whether typ is an anchor target.
func (r *Renderer) IsTarget(typ string) bool { return r.targets[typ] }

// Render renders nodes belonging to block ownerID.
//
// Text leaves produce one unit per line, every line after the first
// preceded by a <br>. Elements without a type produce an empty unit.
// Unknown types are logged and rendered with the default element. An
// element carries id=ownerID when its type is a top level target or when
// forceAnchors is set; forceAnchors applies to nodes only, never to their
// children.
func (r *Renderer) Render(ownerID string, nodes []Node, forceAnchors bool) []templ.Component {
	out := make([]templ.Component, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, r.renderNode(ownerID, n, forceAnchors)...)
	}
	return out
}

// RenderValue decodes a JSON value and renders it.
func (r *Renderer) RenderValue(ownerID string, value any, forceAnchors bool) []templ.Component {
	return r.Render(ownerID, Decode(value), forceAnchors)
}

func (r *Renderer) renderNode(ownerID string, n Node, forceAnchors bool) []templ.Component {
	if n.IsText() {
		return textUnits(n.Text)
	}
	if n.Type == "" {
		return []templ.Component{markup.Empty()}
	}

	fn, ok := r.elements.Lookup(n.Type)
	if !ok {
		r.logger.Warnf("unknown slate element type %q in block %s", n.Type, ownerID)
		fn = r.elements.Default()
	}

	p := Props{
		Node:     n,
		Data:     n.Data,
		Children: r.Render(ownerID, n.Children, false),
	}
	if r.targets[n.Type] || forceAnchors {
		p.ID = ownerID
	}
	return []templ.Component{fn(p)}
}

func textUnits(text string) []templ.Component {
	lines := strings.Split(text, "\n")
	units := make([]templ.Component, 0, len(lines))
	for i, line := range lines {
		span := markup.El("span", markup.Text(line))
		if i == 0 {
			units = append(units, span)
			continue
		}
		units = append(units, markup.Fragment(markup.LineBreak(), span))
	}
	return units
}

// Heading is a heading of a rich text value.
type Heading struct {
	Level int
	Text  string
	// ID is the anchor the heading carries when rendered.
	ID string
}

// Headings lists the h1 to h6 nodes of nodes that are anchor targets, in
// document order. Headings nested in other elements are listed too, as
// Render anchors target types at any depth.
func (r *Renderer) Headings(ownerID string, nodes []Node) []Heading {
	var hs []Heading
	for _, n := range nodes {
		if n.IsText() {
			continue
		}
		if len(n.Type) != 2 || n.Type[0] != 'h' || n.Type[1] < '1' || n.Type[1] > '6' || !r.targets[n.Type] {
			hs = append(hs, r.Headings(ownerID, n.Children)...)
			continue
		}
		hs = append(hs, Heading{
			Level: int(n.Type[1] - '0'),
			Text:  strings.TrimSpace(PlainText(n.Children)),
			ID:    ownerID,
		})
	}
	return hs
}
