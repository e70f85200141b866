package cart_test

import (
	"math"
	"testing"
	"time"

	"orderhub/internal/core/domain/model/cart"
	"orderhub/internal/core/domain/model/catalog"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func table(n int) *int { return &n }

func price(v int64) *int64 { return &v }

func flag(v bool) *bool { return &v }

func menu(t *testing.T) *catalog.Snapshot {
	t.Helper()
	snapshot, err := catalog.NewSnapshot(catalog.Payload{Categories: []catalog.CategoryPayload{
		{ID: "mains", Name: "Mains", Items: []catalog.ItemPayload{
			{ID: "A", Name: "Burger", Price: price(500)},
			{ID: "B", Name: "Fries", Price: price(300)},
			{ID: "C", Name: "Soup", Price: price(450), Available: flag(false)},
		}},
	}}, "v1")
	require.NoError(t, err)
	return snapshot
}

func item(t *testing.T, snapshot *catalog.Snapshot, id string) catalog.Item {
	t.Helper()
	i, ok := snapshot.Item(id)
	require.True(t, ok)
	return i
}

func newDineInCart(t *testing.T) *cart.Cart {
	t.Helper()
	c, err := cart.NewCart(kernel.NewUUID(), "session-1", cart.ChannelPOS, order.DineIn, table(5), now)
	require.NoError(t, err)
	return c
}

func TestNewCart_Validation(t *testing.T) {
	tests := []struct {
		name    string
		channel cart.Channel
		typ     order.Type
		table   *int
		is      error
	}{
		{"dine_in without table", cart.ChannelPOS, order.DineIn, nil, order.ErrTableNumberRequired},
		{"pickup with table", cart.ChannelWeb, order.Pickup, table(3), order.ErrTableNumberNotAllowed},
		{"driver channel", cart.ChannelDriver, order.Pickup, nil, cart.ErrChannelCannotOrder},
		{"unknown channel", cart.Channel("kiosk"), order.Pickup, nil, errs.ErrValueIsInvalid},
		{"unknown type", cart.ChannelWeb, order.UnknownType, nil, errs.ErrValueIsInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := cart.NewCart(kernel.NewUUID(), "session-1", tt.channel, tt.typ, tt.table, now)

			require.ErrorIs(t, err, tt.is)
			assert.True(t, errs.IsValidation(err))
			assert.Nil(t, c)
		})
	}

	_, err := cart.NewCart(kernel.NewUUID(), " ", cart.ChannelWeb, order.Pickup, nil, now)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestCart_TotalsScenario(t *testing.T) {
	snapshot := menu(t)
	c := newDineInCart(t)

	_, err := c.AddLine(kernel.NewUUID(), item(t, snapshot, "A"), 2, nil, now)
	require.NoError(t, err)
	_, err = c.AddLine(kernel.NewUUID(), item(t, snapshot, "B"), 1, nil, now)
	require.NoError(t, err)

	totals := c.Totals()
	assert.Equal(t, kernel.Money(1300), totals.Subtotal)
	assert.Equal(t, kernel.Money(1300), totals.Total)
}

func TestCart_TotalsAlwaysMatchLines(t *testing.T) {
	snapshot := menu(t)
	c := newDineInCart(t)

	a, err := c.AddLine(kernel.NewUUID(), item(t, snapshot, "A"), 1, nil, now)
	require.NoError(t, err)
	b, err := c.AddLine(kernel.NewUUID(), item(t, snapshot, "B"), 4, []string{"salt"}, now)
	require.NoError(t, err)

	steps := []func() error{
		func() error { return c.UpdateQuantity(a.ID(), 3, now) },
		func() error { _, e := c.AddLine(kernel.NewUUID(), item(t, snapshot, "B"), 2, nil, now); return e },
		func() error { return c.RemoveLine(b.ID(), now) },
		func() error { return c.UpdateQuantity(a.ID(), 1, now) },
	}
	for _, step := range steps {
		require.NoError(t, step())

		var sum kernel.Money
		for _, l := range c.Lines() {
			sum += l.UnitPrice().Times(l.Quantity())
		}
		assert.Equal(t, sum, c.Totals().Subtotal)
		assert.Equal(t, sum, c.Totals().Total)
	}
	assert.Equal(t, kernel.Money(1100), c.Totals().Total)
}

func TestCart_AddLine_MergesIdenticalLines(t *testing.T) {
	snapshot := menu(t)
	c := newDineInCart(t)

	first, err := c.AddLine(kernel.NewUUID(), item(t, snapshot, "A"), 1, []string{"no onions", "extra cheese"}, now)
	require.NoError(t, err)
	merged, err := c.AddLine(kernel.NewUUID(), item(t, snapshot, "A"), 2, []string{"extra cheese", "no onions"}, now)
	require.NoError(t, err)

	assert.True(t, first.ID().IsEqual(merged.ID()))
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, 3, c.Lines()[0].Quantity())

	_, err = c.AddLine(kernel.NewUUID(), item(t, snapshot, "A"), 1, nil, now)
	require.NoError(t, err)
	assert.Len(t, c.Lines(), 2, "different modifiers make a separate line")
}

func TestCart_AddLine_Rejections(t *testing.T) {
	snapshot := menu(t)
	c := newDineInCart(t)

	_, err := c.AddLine(kernel.NewUUID(), item(t, snapshot, "C"), 1, nil, now)
	require.ErrorIs(t, err, cart.ErrItemUnavailable)
	assert.True(t, errs.IsValidation(err))

	for _, qty := range []int{0, -1} {
		_, err = c.AddLine(kernel.NewUUID(), item(t, snapshot, "A"), qty, nil, now)
		require.ErrorIs(t, err, cart.ErrInvalidQuantity)
	}

	assert.Empty(t, c.Lines())
}

func TestCart_QuantityIsBounded(t *testing.T) {
	snapshot := menu(t)
	c := newDineInCart(t)

	_, err := c.AddLine(kernel.NewUUID(), item(t, snapshot, "A"), math.MaxInt, nil, now)
	require.ErrorIs(t, err, cart.ErrInvalidQuantity)
	assert.Empty(t, c.Lines())

	line, err := c.AddLine(kernel.NewUUID(), item(t, snapshot, "A"), order.MaxLineQuantity, nil, now)
	require.NoError(t, err)

	_, err = c.AddLine(kernel.NewUUID(), item(t, snapshot, "A"), 1, nil, now)
	require.ErrorIs(t, err, cart.ErrInvalidQuantity)
	assert.True(t, errs.IsValidation(err))

	err = c.UpdateQuantity(line.ID(), order.MaxLineQuantity+1, now)
	require.ErrorIs(t, err, cart.ErrInvalidQuantity)

	require.Len(t, c.Lines(), 1)
	assert.Equal(t, order.MaxLineQuantity, c.Lines()[0].Quantity())
	assert.Equal(t, kernel.Money(500*order.MaxLineQuantity), c.Totals().Total)
}

func TestCart_PriceIsSnapshotAtAddTime(t *testing.T) {
	c := newDineInCart(t)
	_, err := c.AddLine(kernel.NewUUID(), item(t, menu(t), "A"), 1, nil, now)
	require.NoError(t, err)

	repriced, err := catalog.NewSnapshot(catalog.Payload{Categories: []catalog.CategoryPayload{
		{ID: "mains", Name: "Mains", Items: []catalog.ItemPayload{{ID: "A", Name: "Burger", Price: price(900)}}},
	}}, "v2")
	require.NoError(t, err)
	_, ok := repriced.Item("A")
	require.True(t, ok)

	assert.Equal(t, kernel.Money(500), c.Lines()[0].UnitPrice())
	assert.Equal(t, kernel.Money(500), c.Totals().Total)
}

func TestCart_UnknownLine(t *testing.T) {
	c := newDineInCart(t)

	require.ErrorIs(t, c.UpdateQuantity(kernel.NewUUID(), 1, now), errs.ErrObjectNotFound)
	require.ErrorIs(t, c.RemoveLine(kernel.NewUUID(), now), errs.ErrObjectNotFound)
}

func TestCart_FreezeAndClose(t *testing.T) {
	snapshot := menu(t)
	c := newDineInCart(t)

	_, err := c.Freeze("")
	require.ErrorIs(t, err, cart.ErrEmptyCart)

	line, err := c.AddLine(kernel.NewUUID(), item(t, snapshot, "A"), 2, nil, now)
	require.NoError(t, err)

	frozen, err := c.Freeze("  window seat ")
	require.NoError(t, err)
	assert.False(t, c.IsClosed(), "freezing does not close the cart")
	assert.Equal(t, "window seat", frozen.Notes())
	assert.Equal(t, 5, *frozen.TableNumber())
	assert.Equal(t, kernel.Money(1000), frozen.Totals().Total)

	require.NoError(t, c.UpdateQuantity(line.ID(), 5, now))
	assert.Equal(t, 2, frozen.Lines()[0].Quantity(), "snapshot is independent of later edits")

	orderLines, err := frozen.OrderLines()
	require.NoError(t, err)
	require.Len(t, orderLines, 1)
	assert.Equal(t, "Burger", orderLines[0].Name())

	require.NoError(t, c.Close(now))
	assert.True(t, c.IsClosed())

	mutations := map[string]error{
		"add":    func() error { _, e := c.AddLine(kernel.NewUUID(), item(t, snapshot, "B"), 1, nil, now); return e }(),
		"update": c.UpdateQuantity(line.ID(), 1, now),
		"remove": c.RemoveLine(line.ID(), now),
		"close":  c.Close(now),
	}
	_, freezeErr := c.Freeze("")
	mutations["freeze"] = freezeErr

	for name, err := range mutations {
		require.ErrorIs(t, err, cart.ErrCartClosed, name)
		require.ErrorIs(t, err, errs.ErrStateConflict, name)
	}
}

func TestCart_OwnedByAndClone(t *testing.T) {
	snapshot := menu(t)
	c := newDineInCart(t)

	assert.True(t, c.OwnedBy("session-1"))
	assert.False(t, c.OwnedBy("session-2"))
	assert.False(t, c.OwnedBy(""))

	clone := c.Clone()
	_, err := clone.AddLine(kernel.NewUUID(), item(t, snapshot, "A"), 1, nil, now)
	require.NoError(t, err)
	assert.Empty(t, c.Lines())
}

func TestCart_ZeroValue(t *testing.T) {
	var c cart.Cart

	require.ErrorIs(t, c.Validate(), cart.ErrCartIsNotConstructed)
	require.ErrorIs(t, c.Close(now), cart.ErrCartIsNotConstructed)
}

func TestParseChannel(t *testing.T) {
	for _, s := range []string{"pos", "web", "driver"} {
		c, err := cart.ParseChannel(s)
		require.NoError(t, err)
		assert.Equal(t, s, c.String())
	}

	_, err := cart.ParseChannel("")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.False(t, cart.ChannelDriver.CanOrder())
}
