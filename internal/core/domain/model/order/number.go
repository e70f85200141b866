package order

import (
	"fmt"

	"orderhub/internal/pkg/errs"
)

// Number is the human-facing order number. It is allocated from a single counter shared
// by every channel, so numbers are unique and strictly increasing.
type Number int64

func NewNumber(n int64) (Number, error) {
	if n <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("order_number", fmt.Errorf("%d is not greater than 0", n))
	}
	return Number(n), nil
}

// String renders the number zero-padded to four digits, e.g. "#0042".
func (n Number) String() string {
	return fmt.Sprintf("#%04d", int64(n))
}
