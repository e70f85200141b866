// Package cartmanager owns per-session carts: creation, line edits, totals and checkout.
package cartmanager

import (
	"context"
	"fmt"
	"time"

	"orderhub/internal/core/domain/model/cart"
	"orderhub/internal/core/domain/model/catalog"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"

	"github.com/sirupsen/logrus"
)

// ItemCatalog resolves catalog items. catalogstore.Store satisfies it.
type ItemCatalog interface {
	Item(id string) (catalog.Item, error)
}

// SubmitFunc receives the frozen cart at checkout. The cart is closed only when it
// returns nil.
type SubmitFunc func(ctx context.Context, snapshot cart.Snapshot) error

// Manager applies cart operations on behalf of an explicit session. A cart owned by a
// different session is reported as not found, so one session cannot probe another's carts.
type Manager struct {
	store   ports.CartStore
	catalog ItemCatalog
	logger  logrus.FieldLogger
	now     func() time.Time
}

func NewManager(store ports.CartStore, items ItemCatalog, logger logrus.FieldLogger) *Manager {
	return &Manager{
		store:   store,
		catalog: items,
		logger:  logger.WithField("component", "cart_manager"),
		now:     time.Now,
	}
}

// CreateCart opens an empty cart for sessionID.
func (m *Manager) CreateCart(ctx context.Context, sessionID string, channel cart.Channel, orderType order.Type, tableNumber *int) (*cart.Cart, error) {
	c, err := cart.NewCart(kernel.NewUUID(), sessionID, channel, orderType, tableNumber, m.now())
	if err != nil {
		return nil, err
	}
	if err = m.store.Save(ctx, c); err != nil {
		return nil, err
	}

	m.logger.WithFields(logrus.Fields{
		"cart_id":    c.ID().String(),
		"channel":    channel.String(),
		"order_type": orderType.String(),
	}).Debug("cart created")
	return c, nil
}

// Get returns the cart if sessionID owns it.
func (m *Manager) Get(ctx context.Context, sessionID string, cartID kernel.UUID) (*cart.Cart, error) {
	c, err := m.store.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !c.OwnedBy(sessionID) {
		return nil, errs.NewObjectNotFoundError("cart", cartID.String())
	}
	return c, nil
}

// AddLine adds quantity of itemID at the item's current catalog price.
func (m *Manager) AddLine(ctx context.Context, sessionID string, cartID kernel.UUID, itemID string, quantity int, modifiers []string) (*cart.Cart, cart.Line, error) {
	c, err := m.Get(ctx, sessionID, cartID)
	if err != nil {
		return nil, cart.Line{}, err
	}
	item, err := m.catalog.Item(itemID)
	if err != nil {
		return nil, cart.Line{}, err
	}

	line, err := c.AddLine(kernel.NewUUID(), item, quantity, modifiers, m.now())
	if err != nil {
		return nil, cart.Line{}, err
	}
	if err = m.store.Save(ctx, c); err != nil {
		return nil, cart.Line{}, err
	}
	return c, line, nil
}

func (m *Manager) UpdateQuantity(ctx context.Context, sessionID string, cartID, lineID kernel.UUID, quantity int) (*cart.Cart, error) {
	return m.mutate(ctx, sessionID, cartID, func(c *cart.Cart) error {
		return c.UpdateQuantity(lineID, quantity, m.now())
	})
}

func (m *Manager) RemoveLine(ctx context.Context, sessionID string, cartID, lineID kernel.UUID) (*cart.Cart, error) {
	return m.mutate(ctx, sessionID, cartID, func(c *cart.Cart) error {
		return c.RemoveLine(lineID, m.now())
	})
}

// Totals recomputes subtotal and total from the cart's current lines.
func (m *Manager) Totals(ctx context.Context, sessionID string, cartID kernel.UUID) (cart.Totals, error) {
	c, err := m.Get(ctx, sessionID, cartID)
	if err != nil {
		return cart.Totals{}, err
	}
	return c.Totals(), nil
}

// Checkout freezes the cart, hands the snapshot to submit and closes the cart once the
// submission succeeded. After that every mutation fails with cart.ErrCartClosed.
func (m *Manager) Checkout(ctx context.Context, sessionID string, cartID kernel.UUID, notes string, submit SubmitFunc) error {
	c, err := m.Get(ctx, sessionID, cartID)
	if err != nil {
		return err
	}

	snapshot, err := c.Freeze(notes)
	if err != nil {
		return err
	}
	if err = submit(ctx, snapshot); err != nil {
		return err
	}

	if err = c.Close(m.now()); err != nil {
		return err
	}
	if err = m.store.Save(ctx, c); err != nil {
		return fmt.Errorf("order submitted but cart %s could not be closed: %w", cartID, err)
	}

	m.logger.WithField("cart_id", cartID.String()).Debug("cart checked out")
	return nil
}

func (m *Manager) mutate(ctx context.Context, sessionID string, cartID kernel.UUID, apply func(c *cart.Cart) error) (*cart.Cart, error) {
	c, err := m.Get(ctx, sessionID, cartID)
	if err != nil {
		return nil, err
	}
	if err = apply(c); err != nil {
		return nil, err
	}
	if err = m.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
