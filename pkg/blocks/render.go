// Package blocks renders Volto block documents: a mapping of block id to
// block data plus an ordered layout, dispatched by block type to views.
package blocks

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nzambello/ploneview/pkg/core"
	"github.com/nzambello/ploneview/pkg/log"
	"github.com/nzambello/ploneview/pkg/markup"
	"github.com/nzambello/ploneview/pkg/slate"
	"github.com/nzambello/ploneview/pkg/urls"
)

// Env holds the collaborators block views need. It is shared read only by
// all requests.
type Env struct {
	Slate *slate.Renderer
	URLs  *urls.Normalizer
	// Sanitizer, when set, is applied to the HTML of html blocks and of
	// legacy rich text fields. Without it that HTML is trusted.
	Sanitizer *bluemonday.Policy
}

// TrustedHTML prepares backend HTML for output: embedded backend URLs are
// flattened and the sanitizer, if any, is applied.
func (e *Env) TrustedHTML(s string) string {
	if e == nil {
		return s
	}
	if e.URLs != nil {
		s = e.URLs.FlattenHTMLToAppURL(s)
	}
	if e.Sanitizer != nil {
		s = e.Sanitizer.Sanitize(s)
	}
	return s
}

// Props is what a block view receives.
type Props struct {
	ID string
	// Content is the block data. Data is the same value.
	Content core.Block
	Data    core.Block
	// Metadata is set when rendering inside a form or a composite block.
	Metadata   core.Document
	Properties core.Document
	Registry   *Registry
	Env        *Env
	// Blocks renders nested containers.
	Blocks *Renderer
}

// Meta returns Metadata when set, else Properties.
func (p Props) Meta() core.Document {
	if p.Metadata != nil {
		return p.Metadata
	}
	return p.Properties
}

// Renderer walks block containers and dispatches each block to its view.
type Renderer struct {
	registry *Registry
	env      *Env
	logger   *log.Logger
}

// NewRenderer returns a renderer over registry.
func NewRenderer(registry *Registry, env *Env) *Renderer {
	if env == nil {
		env = &Env{}
	}
	return &Renderer{registry: registry, env: env, logger: log.ForService("blocks")}
}

func (r *Renderer) Registry() *Registry { return r.registry }

func (r *Renderer) Env() *Env { return r.env }

// RenderBlocks renders the blocks of properties in layout order. Documents
// without blocks, or with an empty mapping, render nothing.
func (r *Renderer) RenderBlocks(properties, metadata core.Document) []templ.Component {
	c, ok := core.ContainerOf(properties)
	if !ok || !c.HasBlocks() {
		return nil
	}
	return r.RenderContainer(c, properties, metadata)
}

// RenderContainer renders every block of c in layout order.
func (r *Renderer) RenderContainer(c *core.Container, properties, metadata core.Document) []templ.Component {
	pairs := c.Pairs()
	out := make([]templ.Component, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, r.RenderBlock(p.ID, p.Block, properties, metadata))
	}
	return out
}

// RenderBlock renders one block. Blocks of unknown or missing type render a
// placeholder naming the type. A view that panics or fails renders an error
// placeholder instead; it never aborts the page.
func (r *Renderer) RenderBlock(id string, b core.Block, properties, metadata core.Document) templ.Component {
	typ := b.Type()
	cfg, ok := r.registry.Lookup(typ)
	if !ok {
		r.logger.Debugf("no view for block %s of type %q", id, typ)
		return Unknown(typ)
	}
	props := Props{
		ID:         id,
		Content:    b,
		Data:       b,
		Metadata:   metadata,
		Properties: properties,
		Registry:   r.registry,
		Env:        r.env,
		Blocks:     r,
	}
	c := r.guard(id, typ, cfg.ViewFor(b), props)
	if classes := core.StyleClassNames(b.Map("styles")); len(classes) > 0 {
		c = markup.Element("div", []markup.Attr{markup.Class("block-style", classes)}, c)
	}
	return c
}

func (r *Renderer) guard(id, typ string, view View, props Props) (c templ.Component) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Errorf("block %s of type %q: view panicked: %v", id, typ, rec)
			c = Broken(typ)
		}
	}()
	inner := view(props)
	if inner == nil {
		return markup.Empty()
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) (err error) {
		var buf bytes.Buffer
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Errorf("block %s of type %q: render panicked: %v", id, typ, rec)
				err = Broken(typ).Render(ctx, w)
			}
		}()
		if err := inner.Render(ctx, &buf); err != nil {
			r.logger.Errorf("block %s of type %q: %v", id, typ, err)
			return Broken(typ).Render(ctx, w)
		}
		_, err = buf.WriteTo(w)
		return err
	})
}

// Unknown is the placeholder for blocks without a view.
func Unknown(typ string) templ.Component {
	if typ == "" {
		typ = "unknown"
	}
	return markup.El("div", markup.El("p", markup.Text("Unknown block type "+typ)))
}

// Broken is the placeholder for blocks whose view failed.
func Broken(typ string) templ.Component {
	return markup.Element("div", []markup.Attr{markup.A("class", "block-error")},
		markup.El("p", markup.Text(fmt.Sprintf("Error rendering block of type %s", typ))))
}
