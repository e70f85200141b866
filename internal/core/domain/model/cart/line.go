package cart

import (
	"slices"

	"orderhub/internal/core/domain/model/kernel"
)

// Line is one item in a cart with the unit price captured at add time.
type Line struct {
	id        kernel.UUID
	itemID    string
	name      string
	quantity  int
	unitPrice kernel.Money
	modifiers []string
}

// RestoreLine rebuilds a line read from a cart store.
func RestoreLine(id kernel.UUID, itemID, name string, quantity int, unitPrice kernel.Money, modifiers []string) (Line, error) {
	if err := id.Validate(); err != nil {
		return Line{}, err
	}
	if err := validateQuantity(quantity); err != nil {
		return Line{}, err
	}
	return Line{
		id:        id,
		itemID:    itemID,
		name:      name,
		quantity:  quantity,
		unitPrice: unitPrice,
		modifiers: normalizeModifiers(modifiers),
	}, nil
}

func (l Line) ID() kernel.UUID { return l.id }
func (l Line) ItemID() string { return l.itemID }
func (l Line) Name() string { return l.name }
func (l Line) Quantity() int { return l.quantity }
func (l Line) UnitPrice() kernel.Money { return l.unitPrice }
func (l Line) Total() kernel.Money { return l.unitPrice.Times(l.quantity) }

// Modifiers returns a sorted copy of the modifier set.
func (l Line) Modifiers() []string {
	return slices.Clone(l.modifiers)
}

func (l Line) mergeableWith(itemID string, unitPrice kernel.Money, modifiers []string) bool {
	return l.itemID == itemID && l.unitPrice == unitPrice && slices.Equal(l.modifiers, modifiers)
}

// normalizeModifiers turns the modifier list into a set so that "a,b" and "b,a" merge.
func normalizeModifiers(modifiers []string) []string {
	out := make([]string, 0, len(modifiers))
	for _, m := range modifiers {
		if m != "" {
			out = append(out, m)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
