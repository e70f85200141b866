package catalog

import "orderhub/internal/core/domain/model/kernel"

// Item is a single orderable product. The category id is a back-reference only; the
// category owns the ordering of its items.
type Item struct {
	id         string
	categoryID string
	name       string
	price      kernel.Money
	available  bool
}

func (i Item) ID() string { return i.id }
func (i Item) CategoryID() string { return i.categoryID }
func (i Item) Name() string { return i.name }
func (i Item) Price() kernel.Money { return i.price }
func (i Item) IsAvailable() bool { return i.available }
