package order

import (
	"errors"
	"fmt"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
)

// MaxLineQuantity is the largest quantity a single line may carry.
const MaxLineQuantity = 999

// Line is an immutable copy of a cart line. Later catalog changes to the item's name or
// price never reach an order that has already been submitted.
type Line struct {
	itemID    string
	name      string
	quantity  int
	unitPrice kernel.Money
	modifiers []string
}

func NewLine(itemID, name string, quantity int, unitPrice kernel.Money, modifiers []string) (Line, error) {
	var problems []error
	if itemID == "" {
		problems = append(problems, errs.NewValueIsRequiredError("item_id"))
	}
	if name == "" {
		problems = append(problems, errs.NewValueIsRequiredError("name"))
	}
	if quantity <= 0 || quantity > MaxLineQuantity {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not in [1, %d]", quantity, MaxLineQuantity)))
	}
	if unitPrice < 0 || unitPrice > kernel.MaxAmount {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("unit_price", fmt.Errorf("%d is not in [0, %d]", unitPrice, kernel.MaxAmount)))
	}
	if len(problems) > 0 {
		return Line{}, errors.Join(problems...)
	}

	mods := make([]string, len(modifiers))
	copy(mods, modifiers)

	return Line{itemID: itemID, name: name, quantity: quantity, unitPrice: unitPrice, modifiers: mods}, nil
}

func (l Line) ItemID() string { return l.itemID }
func (l Line) Name() string { return l.name }
func (l Line) Quantity() int { return l.quantity }
func (l Line) UnitPrice() kernel.Money { return l.unitPrice }
func (l Line) Total() kernel.Money { return l.unitPrice.Times(l.quantity) }

// Modifiers returns a copy of the modifier set.
func (l Line) Modifiers() []string {
	mods := make([]string, len(l.modifiers))
	copy(mods, l.modifiers)
	return mods
}

// Subtotal sums quantity × unit price over lines.
func Subtotal(lines []Line) kernel.Money {
	var sum kernel.Money
	for _, l := range lines {
		sum = sum.Add(l.Total())
	}
	return sum
}
