package cart

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"orderhub/internal/core/domain/model/catalog"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

var (
	ErrCartIsNotConstructed = errors.New("Cart must be created via NewCart or RestoreCart")

	// ErrCartClosed is the StateConflictError kind for any mutation after checkout.
	ErrCartClosed = errors.New("cart is closed")

	ErrItemUnavailable = errors.New("item is unavailable")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and the line maximum")
	ErrEmptyCart       = errors.New("cart has no lines")
)

// Totals is always derived from the current lines. Tax is not computed, so Total equals
// Subtotal.
type Totals struct {
	Subtotal kernel.Money
	Total    kernel.Money
}

// Cart is the session-owned staging area for an order.
type Cart struct {
	id          kernel.UUID
	sessionID   string
	channel     Channel
	orderType   order.Type
	tableNumber *int
	lines       []Line
	closed      bool
	createdAt   time.Time
	updatedAt   time.Time

	guard guard.ConstructorGuard
}

// NewCart opens an empty cart for sessionID.
//
// Returns a validation error when the channel cannot order, the order type is unknown,
// or the table number does not match the order type (required iff dine_in).
func NewCart(id kernel.UUID, sessionID string, channel Channel, orderType order.Type, tableNumber *int, now time.Time) (*Cart, error) {
	var problems []error
	if err := id.Validate(); err != nil {
		problems = append(problems, err)
	}
	if strings.TrimSpace(sessionID) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("session_id"))
	}
	if err := channel.Validate(); err != nil {
		problems = append(problems, err)
	} else if !channel.CanOrder() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("channel", fmt.Errorf("%w: %s", ErrChannelCannotOrder, channel)))
	}
	if err := orderType.Validate(); err != nil {
		problems = append(problems, err)
	} else if err = order.ValidateTableNumber(orderType, tableNumber); err != nil {
		problems = append(problems, err)
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}

	c := &Cart{
		id:        id,
		sessionID: sessionID,
		channel:   channel,
		orderType: orderType,
		lines:     make([]Line, 0),
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}
	if tableNumber != nil {
		n := *tableNumber
		c.tableNumber = &n
	}
	return c, nil
}

// RestoreCart rebuilds a cart read from a cart store.
func RestoreCart(
	id kernel.UUID,
	sessionID string,
	channel Channel,
	orderType order.Type,
	tableNumber *int,
	lines []Line,
	closed bool,
	createdAt, updatedAt time.Time,
) (*Cart, error) {
	if err := errors.Join(id.Validate(), channel.Validate(), orderType.Validate()); err != nil {
		return nil, err
	}

	c := &Cart{
		id:        id,
		sessionID: sessionID,
		channel:   channel,
		orderType: orderType,
		lines:     slices.Clone(lines),
		closed:    closed,
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}
	if c.lines == nil {
		c.lines = make([]Line, 0)
	}
	if tableNumber != nil {
		n := *tableNumber
		c.tableNumber = &n
	}
	return c, nil
}

func (c *Cart) Validate() error {
	if c == nil {
		return ErrCartIsNotConstructed
	}
	return c.guard.Validate(ErrCartIsNotConstructed)
}

func (c *Cart) ID() kernel.UUID { return c.id }
func (c *Cart) SessionID() string { return c.sessionID }
func (c *Cart) Channel() Channel { return c.channel }
func (c *Cart) OrderType() order.Type { return c.orderType }
func (c *Cart) IsClosed() bool { return c.closed }
func (c *Cart) CreatedAt() time.Time { return c.createdAt }
func (c *Cart) UpdatedAt() time.Time { return c.updatedAt }

func (c *Cart) TableNumber() *int {
	if c.tableNumber == nil {
		return nil
	}
	n := *c.tableNumber
	return &n
}

func (c *Cart) Lines() []Line {
	return slices.Clone(c.lines)
}

// OwnedBy reports whether sessionID owns the cart.
func (c *Cart) OwnedBy(sessionID string) bool {
	return sessionID != "" && c.sessionID == sessionID
}

// Clone returns an independent copy, used by stores that keep carts in process memory.
func (c *Cart) Clone() *Cart {
	clone := *c
	clone.lines = slices.Clone(c.lines)
	clone.tableNumber = c.TableNumber()
	return &clone
}

// AddLine adds quantity of item, snapshotting its current name and price.
// A line with the same item, unit price and modifier set absorbs the quantity instead.
func (c *Cart) AddLine(lineID kernel.UUID, item catalog.Item, quantity int, modifiers []string, now time.Time) (Line, error) {
	if err := c.ensureOpen(); err != nil {
		return Line{}, err
	}
	if err := validateQuantity(quantity); err != nil {
		return Line{}, err
	}
	if !item.IsAvailable() {
		return Line{}, errs.NewValueIsInvalidErrorWithCause("item_id", fmt.Errorf("%w: %s", ErrItemUnavailable, item.ID()))
	}

	mods := normalizeModifiers(modifiers)
	for i, l := range c.lines {
		if l.mergeableWith(item.ID(), item.Price(), mods) {
			if err := validateQuantity(l.quantity + quantity); err != nil {
				return Line{}, err
			}
			c.lines[i].quantity += quantity
			c.updatedAt = now
			return c.lines[i], nil
		}
	}

	if err := lineID.Validate(); err != nil {
		return Line{}, err
	}
	line := Line{
		id:        lineID,
		itemID:    item.ID(),
		name:      item.Name(),
		quantity:  quantity,
		unitPrice: item.Price(),
		modifiers: mods,
	}
	c.lines = append(c.lines, line)
	c.updatedAt = now
	return line, nil
}

// UpdateQuantity replaces the quantity of an existing line.
func (c *Cart) UpdateQuantity(lineID kernel.UUID, quantity int, now time.Time) error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	i, err := c.lineIndex(lineID)
	if err != nil {
		return err
	}
	c.lines[i].quantity = quantity
	c.updatedAt = now
	return nil
}

func (c *Cart) RemoveLine(lineID kernel.UUID, now time.Time) error {
	if err := c.ensureOpen(); err != nil {
		return err
	}

	i, err := c.lineIndex(lineID)
	if err != nil {
		return err
	}
	c.lines = slices.Delete(c.lines, i, i+1)
	c.updatedAt = now
	return nil
}

// Totals recomputes subtotal and total from the current lines.
func (c *Cart) Totals() Totals {
	return computeTotals(c.lines)
}

// Freeze copies the lines into a Snapshot for submission. The cart stays open until
// Close is called, so a failed submission can be retried.
func (c *Cart) Freeze(notes string) (Snapshot, error) {
	if err := c.ensureOpen(); err != nil {
		return Snapshot{}, err
	}
	if len(c.lines) == 0 {
		return Snapshot{}, errs.NewValueIsRequiredErrorWithCause("lines", ErrEmptyCart)
	}

	return Snapshot{
		cartID:      c.id,
		sessionID:   c.sessionID,
		channel:     c.channel,
		orderType:   c.orderType,
		tableNumber: c.TableNumber(),
		lines:       slices.Clone(c.lines),
		notes:       strings.TrimSpace(notes),
	}, nil
}

// Close marks the cart as checked out.
func (c *Cart) Close(now time.Time) error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	c.closed = true
	c.updatedAt = now
	return nil
}

func (c *Cart) ensureOpen() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.closed {
		return errs.NewStateConflictErrorf(ErrCartClosed, "cart %s", c.id)
	}
	return nil
}

func (c *Cart) lineIndex(lineID kernel.UUID) (int, error) {
	i := slices.IndexFunc(c.lines, func(l Line) bool { return l.id.IsEqual(lineID) })
	if i < 0 {
		return -1, errs.NewObjectNotFoundError("cart line", lineID.String())
	}
	return i, nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 || quantity > order.MaxLineQuantity {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%w (%d): got %d", ErrInvalidQuantity, order.MaxLineQuantity, quantity))
	}
	return nil
}

func computeTotals(lines []Line) Totals {
	var subtotal kernel.Money
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
	}
	return Totals{Subtotal: subtotal, Total: subtotal}
}
