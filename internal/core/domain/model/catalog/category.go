package catalog

// Category groups items for display. Items keep the order of the payload.
type Category struct {
	id    string
	name  string
	rank  int
	items []Item
}

func (c Category) ID() string { return c.id }
func (c Category) Name() string { return c.name }
func (c Category) Rank() int { return c.rank }

// Items returns a copy of the category's items.
func (c Category) Items() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

func (c Category) ItemCount() int {
	return len(c.items)
}
