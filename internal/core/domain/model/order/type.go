package order

import (
	"fmt"

	"orderhub/internal/pkg/errs"
)

// Type is how the guest receives the order.
type Type int

const (
	UnknownType Type = iota
	DineIn
	Pickup
	Delivery
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		DineIn:   "dine_in",
		Pickup:   "pickup",
		Delivery: "delivery",
	}
}

// ParseType converts the wire form ("dine_in", "pickup", "delivery") to a Type.
func ParseType(s string) (Type, error) {
	for t, str := range getTypeStrings() {
		if str == s {
			return t, nil
		}
	}
	return UnknownType, errs.NewValueIsInvalidErrorWithCause("order_type", fmt.Errorf("%q is not a valid order type", s))
}

func (t Type) Validate() error {
	if _, ok := getTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("order_type", fmt.Errorf("%d is not a valid order type", t))
	}
	return nil
}

func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}

// SuccessStatus is the terminal status an order of this type reaches when fulfilled.
func (t Type) SuccessStatus() Status {
	if t == Delivery {
		return Delivered
	}
	return Completed
}
