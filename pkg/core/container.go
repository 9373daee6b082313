package core

import (
	"fmt"
	"sort"
	"strings"
)

const (
	blocksSuffix = "blocks"
	layoutSuffix = "blocks_layout"
	// voltoBlocks is a behavior name, not a block mapping.
	voltoBlocks = "volto.blocks"
)

// Container is the block mapping and ordered layout of a document, or of a
// composite block nesting its own blocks. The field names are discovered
// once: Plone allows prefixed names such as "columns_blocks".
type Container struct {
	BlocksField string
	LayoutField string
	Blocks      map[string]Block
	Layout      Layout
}

// Pair is a block together with its id.
type Pair struct {
	ID    string
	Block Block
}

// BlocksFieldname returns the name of the block mapping field of m: the
// exact "blocks" key when present, otherwise the smallest key ending in
// "blocks" that is not "volto.blocks".
func BlocksFieldname(m map[string]any) (string, bool) {
	return fieldname(m, blocksSuffix)
}

// BlocksLayoutFieldname is BlocksFieldname for the layout field.
func BlocksLayoutFieldname(m map[string]any) (string, bool) {
	return fieldname(m, layoutSuffix)
}

func fieldname(m map[string]any, suffix string) (string, bool) {
	if _, ok := m[suffix]; ok {
		return suffix, true
	}
	var found []string
	for k := range m {
		if k != voltoBlocks && strings.HasSuffix(k, suffix) {
			found = append(found, k)
		}
	}
	if len(found) == 0 {
		return "", false
	}
	sort.Strings(found)
	return found[0], true
}

// HasBlocksData reports whether m has a non-empty block mapping.
func HasBlocksData(m map[string]any) bool {
	name, ok := BlocksFieldname(m)
	if !ok {
		return false
	}
	blocks, _ := m[name].(map[string]any)
	return len(blocks) > 0
}

// ContainerOf resolves the block container of m. It returns false when m has
// no block mapping field. A missing layout gives an empty Layout; entries
// of the mapping that are not objects become nil blocks.
func ContainerOf(m map[string]any) (*Container, bool) {
	if m == nil {
		return nil, false
	}
	blocksField, ok := BlocksFieldname(m)
	if !ok {
		return nil, false
	}
	c := &Container{BlocksField: blocksField, Blocks: map[string]Block{}}
	if raw, ok := m[blocksField].(map[string]any); ok {
		for id, v := range raw {
			b, _ := v.(map[string]any)
			c.Blocks[id] = b
		}
	}
	if layoutField, ok := BlocksLayoutFieldname(m); ok {
		c.LayoutField = layoutField
		c.Layout = LayoutOf(Lookup(m, layoutField, "items"))
	}
	return c, true
}

// HasBlocks reports whether the mapping is non-empty.
func (c *Container) HasBlocks() bool {
	return c != nil && len(c.Blocks) > 0
}

// Pairs returns the blocks in layout order. Layout ids missing from the
// mapping yield a nil Block.
func (c *Container) Pairs() []Pair {
	if c == nil {
		return nil
	}
	pairs := make([]Pair, 0, len(c.Layout))
	for _, id := range c.Layout {
		pairs = append(pairs, Pair{ID: id, Block: c.Blocks[id]})
	}
	return pairs
}

// Layout is the ordered list of block ids. It is authoritative over the
// iteration order of the block mapping.
type Layout []string

// LayoutOf converts a decoded "items" array. Non-string ids are formatted.
func LayoutOf(v any) Layout {
	items, _ := v.([]any)
	layout := make(Layout, 0, len(items))
	for _, item := range items {
		switch id := item.(type) {
		case string:
			layout = append(layout, id)
		case nil:
			layout = append(layout, "")
		default:
			layout = append(layout, fmt.Sprint(id))
		}
	}
	return layout
}

// Index returns the position of id, or -1.
func (l Layout) Index(id string) int {
	for i, item := range l {
		if item == id {
			return i
		}
	}
	return -1
}

// Next returns the id following id. It reports false for the last id and
// for ids not in the layout.
func (l Layout) Next(id string) (string, bool) {
	i := l.Index(id)
	if i < 0 || i == len(l)-1 {
		return "", false
	}
	return l[i+1], true
}

// Previous returns the id preceding id. It reports false for the first id
// and for ids not in the layout.
func (l Layout) Previous(id string) (string, bool) {
	i := l.Index(id)
	if i <= 0 {
		return "", false
	}
	return l[i-1], true
}

// NextBlockID looks up the layout of m and returns the id after current.
func NextBlockID(m map[string]any, current string) (string, bool) {
	name, ok := BlocksLayoutFieldname(m)
	if !ok {
		return "", false
	}
	return LayoutOf(Lookup(m, name, "items")).Next(current)
}

// PreviousBlockID looks up the layout of m and returns the id before current.
func PreviousBlockID(m map[string]any, current string) (string, bool) {
	name, ok := BlocksLayoutFieldname(m)
	if !ok {
		return "", false
	}
	return LayoutOf(Lookup(m, name, "items")).Previous(current)
}
