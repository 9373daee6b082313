package blocks

import (
	"sort"

	"github.com/a-h/templ"
	"github.com/nzambello/ploneview/pkg/core"
)

// View renders one block.
type View func(p Props) templ.Component

// Variation is an alternate view of a block type, selected by the block's
// "variation" field.
type Variation struct {
	ID        string
	Title     string
	IsDefault bool
	View      View
}

// BlockConfig describes how a block type is rendered. ID is the canonical
// type; several registry keys may share it.
type BlockConfig struct {
	ID         string
	Title      string
	View       View
	Variations []Variation
}

// ViewFor picks the view for b: the variation named by b's "variation"
// field, else the default variation, else View.
func (c BlockConfig) ViewFor(b core.Block) View {
	want := b.Str("variation")
	var def View
	for _, v := range c.Variations {
		if v.View == nil {
			continue
		}
		if want != "" && v.ID == want {
			return v.View
		}
		if v.IsDefault && def == nil {
			def = v.View
		}
	}
	if def != nil {
		return def
	}
	return c.View
}

func (c BlockConfig) renderable() bool {
	if c.View != nil {
		return true
	}
	for _, v := range c.Variations {
		if v.View != nil {
			return true
		}
	}
	return false
}

// Entry registers Config under Type.
type Entry struct {
	Type   string
	Config BlockConfig
}

// Registry maps block types to their configuration. It is built once and
// never modified; derive new registries with Without.
type Registry struct {
	configs map[string]BlockConfig
}

// NewRegistry builds a registry. Later entries win on duplicate types.
// Entries without an ID get their Type as ID.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{configs: make(map[string]BlockConfig, len(entries))}
	for _, e := range entries {
		if e.Type == "" {
			continue
		}
		if e.Config.ID == "" {
			e.Config.ID = e.Type
		}
		r.configs[e.Type] = e.Config
	}
	return r
}

// Lookup returns the configuration registered for typ.
func (r *Registry) Lookup(typ string) (BlockConfig, bool) {
	if r == nil {
		return BlockConfig{}, false
	}
	c, ok := r.configs[typ]
	if !ok || !c.renderable() {
		return BlockConfig{}, false
	}
	return c, true
}

// Canonical resolves aliases: Canonical("text") is "slate". Unknown types
// are returned as is.
func (r *Registry) Canonical(typ string) string {
	if c, ok := r.Lookup(typ); ok {
		return c.ID
	}
	return typ
}

// Types returns the registered types, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.configs))
	for t := range r.configs {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Entries returns the registered entries sorted by type.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.configs))
	for _, t := range r.Types() {
		entries = append(entries, Entry{Type: t, Config: r.configs[t]})
	}
	return entries
}

// Without returns a registry lacking types.
func (r *Registry) Without(types ...string) *Registry {
	drop := make(map[string]bool, len(types))
	for _, t := range types {
		drop[t] = true
	}
	var entries []Entry
	for _, e := range r.Entries() {
		if !drop[e.Type] {
			entries = append(entries, e)
		}
	}
	return NewRegistry(entries...)
}
