package core

// VisitBlocks walks every block reachable from m breadth first, starting
// with the top level blocks in layout order. A block that has a "blocks"
// field, directly or inside its "data" object, has its own blocks queued
// after the current level. Nested structures must be acyclic.
func VisitBlocks(m map[string]any, visit func(id string, b Block)) {
	queue := pairsOf(m)
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		visit(p.ID, p.Block)

		if _, ok := p.Block["blocks"]; ok {
			queue = append(queue, pairsOf(p.Block)...)
		}
		if data := p.Block.Map("data"); data != nil {
			if _, ok := data["blocks"]; ok {
				queue = append(queue, pairsOf(data)...)
			}
		}
	}
}

func pairsOf(m map[string]any) []Pair {
	c, ok := ContainerOf(m)
	if !ok {
		return nil
	}
	return c.Pairs()
}
