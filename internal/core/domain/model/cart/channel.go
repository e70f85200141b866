package cart

import (
	"errors"
	"fmt"

	"orderhub/internal/pkg/errs"
)

// ErrChannelCannotOrder is the cause returned when a driver session tries to open a cart.
var ErrChannelCannotOrder = errors.New("channel cannot create carts")

// Channel identifies the client context a session belongs to.
type Channel string

const (
	ChannelPOS    Channel = "pos"
	ChannelWeb    Channel = "web"
	ChannelDriver Channel = "driver"
)

func ParseChannel(s string) (Channel, error) {
	c := Channel(s)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

func (c Channel) Validate() error {
	switch c {
	case ChannelPOS, ChannelWeb, ChannelDriver:
		return nil
	case "":
		return errs.NewValueIsRequiredError("channel")
	default:
		return errs.NewValueIsInvalidErrorWithCause("channel", fmt.Errorf("%q is not a valid channel", string(c)))
	}
}

// CanOrder reports whether sessions of this channel may build carts. Drivers only act on
// existing delivery orders.
func (c Channel) CanOrder() bool {
	return c == ChannelPOS || c == ChannelWeb
}

func (c Channel) String() string {
	return string(c)
}
