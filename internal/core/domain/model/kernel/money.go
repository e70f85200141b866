package kernel

import (
	"fmt"

	"orderhub/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// minorUnitExponent is the number of decimal places between the minor unit stored in
// Money and the major unit shown to guests (cents -> dollars).
const minorUnitExponent = 2

// MaxAmount bounds a single price so that line and order totals stay far from int64
// overflow.
const MaxAmount Money = 10_000_000_000

// Money is an amount in integer minor currency units. Prices, line totals and order
// totals are all Money so sums never accumulate floating point drift.
type Money int64

// NewMoney validates that amount is within [0, MaxAmount].
func NewMoney(amount int64) (Money, error) {
	if amount < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is negative", amount))
	}
	if Money(amount) > MaxAmount {
		return 0, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d exceeds %d", amount, MaxAmount))
	}
	return Money(amount), nil
}

// MinorUnits returns the raw amount.
func (m Money) MinorUnits() int64 {
	return int64(m)
}

// Times multiplies a unit price by a quantity.
func (m Money) Times(quantity int) Money {
	return m * Money(quantity)
}

func (m Money) Add(other Money) Money {
	return m + other
}

// Decimal converts the amount to major units, e.g. 1250 -> 12.50.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -minorUnitExponent)
}

// String renders the amount in major units with a fixed number of decimals.
func (m Money) String() string {
	return m.Decimal().StringFixed(minorUnitExponent)
}
