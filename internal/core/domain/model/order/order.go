package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

// MaxTableNumber bounds table numbers accepted for dine_in orders.
const MaxTableNumber = 9999

var (
	// ErrOrderIsNotConstructed is returned by Validate for an Order that was not built by
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	ErrTableNumberRequired   = errors.New("table number is required for dine_in orders")
	ErrTableNumberNotAllowed = errors.New("table number only applies to dine_in orders")
	ErrNoLines               = errors.New("order must contain at least one item")
)

// Draft carries everything fixed at submission time.
type Draft struct {
	ID          kernel.UUID
	Number      Number
	Type        Type
	Channel     string
	TableNumber *int
	Lines       []Line
	Notes       string
	CreatedAt   time.Time
}

// Order is the aggregate root of the order lifecycle.
//
// Order follows these invariants:
//   - Lines, subtotal, total, type, table number and channel never change after creation
//   - Status only moves along the edges accepted by Status.ValidateTransition
//   - Every successful transition updates updatedAt and records a StatusChanged event
//
// version is the optimistic concurrency token as read from storage; repositories
// reject an update whose version no longer matches the stored one.
type Order struct {
	id          kernel.UUID
	number      Number
	orderType   Type
	channel     string
	tableNumber *int
	lines       []Line
	subtotal    kernel.Money
	total       kernel.Money
	notes       string
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
	version     int

	events []kernel.DomainEvent
	guard  guard.ConstructorGuard
}

// NewOrder creates a pending order from a draft and records a Submitted event.
//
// Example:
//
//	o, err := order.NewOrder(order.Draft{
//	    ID:          kernel.NewUUID(),
//	    Number:      42,
//	    Type:        order.DineIn,
//	    Channel:     "pos",
//	    TableNumber: &table,
//	    Lines:       lines,
//	    CreatedAt:   time.Now(),
//	})
func NewOrder(d Draft) (*Order, error) {
	o, err := build(d)
	if err != nil {
		return nil, err
	}

	o.status = Pending
	o.updatedAt = o.createdAt
	o.version = 1
	o.record(Submitted{
		OrderID: o.id,
		Number:  o.number,
		Type:    o.orderType,
		Channel: o.channel,
		Total:   o.total,
		At:      o.createdAt,
	})

	return o, nil
}

// RestoreOrder rebuilds an order read from storage. No event is recorded.
func RestoreOrder(d Draft, status Status, updatedAt time.Time, version int) (*Order, error) {
	o, err := build(d)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if version <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}

	o.status = status
	o.updatedAt = updatedAt
	o.version = version
	return o, nil
}

func build(d Draft) (*Order, error) {
	o := &Order{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		o.setID(d.ID),
		o.setNumber(d.Number),
		o.setType(d.Type, d.TableNumber),
		o.setChannel(d.Channel),
		o.setLines(d.Lines),
		o.setCreatedAt(d.CreatedAt),
	); err != nil {
		return nil, err
	}

	o.notes = strings.TrimSpace(d.Notes)
	o.subtotal = Subtotal(o.lines)
	o.total = o.subtotal
	return o, nil
}

// ValidateTableNumber enforces "table number required iff dine_in".
func ValidateTableNumber(t Type, tableNumber *int) error {
	if t != DineIn {
		if tableNumber != nil {
			return errs.NewValueIsInvalidErrorWithCause("table_number", ErrTableNumberNotAllowed)
		}
		return nil
	}

	if tableNumber == nil {
		return errs.NewValueIsRequiredErrorWithCause("table_number", ErrTableNumberRequired)
	}
	if *tableNumber < 1 || *tableNumber > MaxTableNumber {
		return errs.NewValueIsOutOfRangeError("table_number", *tableNumber, 1, MaxTableNumber)
	}
	return nil
}

// Validate ensures the Order was built by one of its constructors.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID { return o.id }
func (o *Order) Number() Number { return o.number }
func (o *Order) Type() Type { return o.orderType }
func (o *Order) Channel() string { return o.channel }
func (o *Order) Subtotal() kernel.Money { return o.subtotal }
func (o *Order) Total() kernel.Money { return o.total }
func (o *Order) Notes() string { return o.notes }
func (o *Order) Status() Status { return o.status }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }
func (o *Order) Version() int { return o.version }

// TableNumber returns a copy of the table number, nil unless the order is dine_in.
func (o *Order) TableNumber() *int {
	if o.tableNumber == nil {
		return nil
	}
	n := *o.tableNumber
	return &n
}

// Lines returns a copy of the item snapshot.
func (o *Order) Lines() []Line {
	lines := make([]Line, len(o.lines))
	copy(lines, o.lines)
	return lines
}

// Transition moves the order to status `to`.
//
// Returns:
//   - nil on success; updatedAt is set to at and a StatusChanged event is recorded
//   - a StateConflictError of kind ErrInvalidTransition when the edge is rejected;
//     the status is left unchanged
func (o *Order) Transition(to Status, policy CancellationPolicy, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	from := o.status
	if err := from.ValidateTransition(to, o.orderType, policy); err != nil {
		return err
	}

	o.status = to
	o.updatedAt = at
	o.record(StatusChanged{
		OrderID: o.id,
		Number:  o.number,
		Type:    o.orderType,
		From:    from,
		To:      to,
		At:      at,
	})
	return nil
}

// PullEvents returns the events recorded since the last call and clears the buffer.
func (o *Order) PullEvents() []kernel.DomainEvent {
	events := o.events
	o.events = nil
	return events
}

func (o *Order) record(event kernel.DomainEvent) {
	o.events = append(o.events, event)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(n Number) error {
	if n <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("order_number", fmt.Errorf("%d is not greater than 0", n))
	}
	o.number = n
	return nil
}

func (o *Order) setType(t Type, tableNumber *int) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := ValidateTableNumber(t, tableNumber); err != nil {
		return err
	}
	o.orderType = t
	if tableNumber != nil {
		n := *tableNumber
		o.tableNumber = &n
	}
	return nil
}

func (o *Order) setChannel(channel string) error {
	if channel == "" {
		return errs.NewValueIsRequiredError("channel")
	}
	o.channel = channel
	return nil
}

func (o *Order) setLines(lines []Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("items", ErrNoLines)
	}
	o.lines = make([]Line, len(lines))
	copy(o.lines, lines)
	return nil
}

func (o *Order) setCreatedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("created_at")
	}
	o.createdAt = at
	return nil
}
