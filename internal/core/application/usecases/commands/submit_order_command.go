package commands

import (
	"errors"
	"fmt"
	"strings"

	"orderhub/internal/core/domain/model/cart"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

// MaxIdempotencyKeyLength bounds client-supplied idempotency keys.
const MaxIdempotencyKeyLength = 255

var ErrSubmitOrderCommandIsNotConstructed = errors.New(
	"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
)

// SubmitOrderCommand turns a finalized set of lines into a durable order.
//
// Example:
//
//	cmd, err := NewSubmitOrderCommand(order.DineIn, &table, "pos", lines, "no ice", key)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("order %s (replayed: %t)", result.Order.Number(), result.Replayed)
type SubmitOrderCommand struct { //nolint:recvcheck //using for validation
	orderType      order.Type
	tableNumber    *int
	channel        string
	lines          []order.Line
	notes          string
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewSubmitOrderCommand validates the submission. idempotencyKey is optional.
func NewSubmitOrderCommand(
	orderType order.Type,
	tableNumber *int,
	channel string,
	lines []order.Line,
	notes string,
	idempotencyKey string,
) (SubmitOrderCommand, error) {
	cmd := SubmitOrderCommand{
		notes: strings.TrimSpace(notes),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setType(orderType, tableNumber),
		cmd.setChannel(channel),
		cmd.setLines(lines),
		cmd.setIdempotencyKey(idempotencyKey),
	); err != nil {
		return SubmitOrderCommand{}, err
	}

	return cmd, nil
}

// NewSubmitOrderCommandFromSnapshot builds the command for a cart checkout.
func NewSubmitOrderCommandFromSnapshot(snapshot cart.Snapshot, idempotencyKey string) (SubmitOrderCommand, error) {
	lines, err := snapshot.OrderLines()
	if err != nil {
		return SubmitOrderCommand{}, err
	}
	return NewSubmitOrderCommand(
		snapshot.OrderType(),
		snapshot.TableNumber(),
		snapshot.Channel().String(),
		lines,
		snapshot.Notes(),
		idempotencyKey,
	)
}

func (c SubmitOrderCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderCommandIsNotConstructed)
}

func (c SubmitOrderCommand) OrderType() order.Type {
	return c.orderType
}

func (c SubmitOrderCommand) TableNumber() *int {
	if c.tableNumber == nil {
		return nil
	}
	n := *c.tableNumber
	return &n
}

func (c SubmitOrderCommand) Channel() string {
	return c.channel
}

func (c SubmitOrderCommand) Lines() []order.Line {
	lines := make([]order.Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c SubmitOrderCommand) Notes() string {
	return c.notes
}

// IdempotencyKey returns the client key, empty when the client did not send one.
func (c SubmitOrderCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

func (c *SubmitOrderCommand) setType(orderType order.Type, tableNumber *int) error {
	if err := orderType.Validate(); err != nil {
		return err
	}
	if err := order.ValidateTableNumber(orderType, tableNumber); err != nil {
		return err
	}

	c.orderType = orderType
	if tableNumber != nil {
		n := *tableNumber
		c.tableNumber = &n
	}
	return nil
}

func (c *SubmitOrderCommand) setChannel(channel string) error {
	ch, err := cart.ParseChannel(channel)
	if err != nil {
		return err
	}
	if !ch.CanOrder() {
		return errs.NewValueIsInvalidErrorWithCause("channel", fmt.Errorf("%w: %s", cart.ErrChannelCannotOrder, ch))
	}

	c.channel = channel
	return nil
}

func (c *SubmitOrderCommand) setLines(lines []order.Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("items", order.ErrNoLines)
	}

	c.lines = make([]order.Line, len(lines))
	copy(c.lines, lines)
	return nil
}

func (c *SubmitOrderCommand) setIdempotencyKey(key string) error {
	key = strings.TrimSpace(key)
	if len(key) > MaxIdempotencyKeyLength {
		return errs.NewValueIsInvalidErrorWithCause("idempotency_key",
			fmt.Errorf("longer than %d characters", MaxIdempotencyKeyLength))
	}

	c.idempotencyKey = key
	return nil
}
