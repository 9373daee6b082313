package blocks

// DefaultEntries returns the built-in block types. "text" is the legacy
// name of the rich text block.
func DefaultEntries() []Entry {
	slate := BlockConfig{ID: "slate", Title: "Rich text", View: TextView}
	return []Entry{
		{Type: "title", Config: BlockConfig{Title: "Title", View: TitleView}},
		{Type: "description", Config: BlockConfig{Title: "Description", View: DescriptionView}},
		{Type: "slate", Config: slate},
		{Type: "text", Config: slate},
		{Type: "html", Config: BlockConfig{Title: "HTML", View: HTMLView}},
		{Type: "table", Config: BlockConfig{Title: "Table", View: TableView}},
		{Type: "slateTable", Config: BlockConfig{Title: "Table", View: TableView}},
		{Type: "image", Config: BlockConfig{Title: "Image", View: ImageView}},
		{Type: "leadimage", Config: BlockConfig{Title: "Lead Image Field", View: LeadImageView}},
		{Type: "maps", Config: BlockConfig{Title: "Maps", View: MapsView}},
		{Type: "video", Config: BlockConfig{Title: "Video", View: VideoView}},
		{Type: "gridBlock", Config: BlockConfig{Title: "Grid", View: GridView}},
		{Type: "toc", Config: BlockConfig{
			Title: "Table of contents",
			Variations: []Variation{
				{ID: "default", Title: "Listing", IsDefault: true, View: TocView},
				{ID: "horizontalMenu", Title: "Horizontal menu", View: TocHorizontalView},
			},
		}},
	}
}

// DefaultRegistry returns a registry of the built-in block types.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultEntries()...)
}
