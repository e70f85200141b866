package order_test

import (
	"fmt"
	"testing"

	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type edge struct {
	from order.Status
	to   order.Status
}

// legalEdges lists every accepted (from, to) pair per order type under the default policy.
func legalEdges(t order.Type) map[edge]bool {
	edges := map[edge]bool{
		{order.Pending, order.Preparing}:   true,
		{order.Pending, order.Cancelled}:   true,
		{order.Preparing, order.Ready}:     true,
		{order.Preparing, order.Cancelled}: true,
	}
	if t == order.Delivery {
		edges[edge{order.Ready, order.Delivered}] = true
	} else {
		edges[edge{order.Ready, order.Completed}] = true
	}
	return edges
}

func TestStatus_ValidateTransition_Exhaustive(t *testing.T) {
	for _, orderType := range []order.Type{order.DineIn, order.Pickup, order.Delivery} {
		legal := legalEdges(orderType)
		for _, from := range order.AllStatuses() {
			for _, to := range order.AllStatuses() {
				name := fmt.Sprintf("%s/%s->%s", orderType, from, to)
				t.Run(name, func(t *testing.T) {
					err := from.ValidateTransition(to, orderType, order.DefaultCancellationPolicy())

					if legal[edge{from, to}] {
						require.NoError(t, err)
						return
					}
					require.ErrorIs(t, err, order.ErrInvalidTransition)
					require.ErrorIs(t, err, errs.ErrStateConflict)
				})
			}
		}
	}
}

func TestStatus_ValidateTransition_CancellationPolicy(t *testing.T) {
	strict := order.CancellationPolicy{AllowWhilePreparing: false}

	err := order.Preparing.ValidateTransition(order.Cancelled, order.Pickup, strict)
	require.ErrorIs(t, err, order.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "cancellation policy")

	require.NoError(t, order.Pending.ValidateTransition(order.Cancelled, order.Pickup, strict))
}

func TestStatus_ReadyCannotBeCancelled(t *testing.T) {
	err := order.Ready.ValidateTransition(order.Cancelled, order.Delivery, order.DefaultCancellationPolicy())

	require.ErrorIs(t, err, order.ErrInvalidTransition)
}

func TestStatus_ValidateTransition_RejectsInvalidTarget(t *testing.T) {
	err := order.Pending.ValidateTransition(order.Status(42), order.Pickup, order.DefaultCancellationPolicy())

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_IsTerminal(t *testing.T) {
	terminal := map[order.Status]bool{
		order.Delivered: true,
		order.Completed: true,
		order.Cancelled: true,
	}
	for _, s := range order.AllStatuses() {
		assert.Equal(t, terminal[s], s.IsTerminal(), s.String())
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range order.AllStatuses() {
		parsed, err := order.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := order.ParseStatus("unknown")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Validate(t *testing.T) {
	require.Error(t, order.Unknown.Validate())
	require.Error(t, order.Status(-1).Validate())
	require.Error(t, order.Status(7).Validate())
	for _, s := range order.AllStatuses() {
		require.NoError(t, s.Validate())
	}
}

func TestType(t *testing.T) {
	for _, tt := range []struct {
		wire    string
		typ     order.Type
		success order.Status
	}{
		{"dine_in", order.DineIn, order.Completed},
		{"pickup", order.Pickup, order.Completed},
		{"delivery", order.Delivery, order.Delivered},
	} {
		parsed, err := order.ParseType(tt.wire)
		require.NoError(t, err)
		assert.Equal(t, tt.typ, parsed)
		assert.Equal(t, tt.wire, parsed.String())
		assert.Equal(t, tt.success, parsed.SuccessStatus())
	}

	_, err := order.ParseType("takeout")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNumber_String(t *testing.T) {
	assert.Equal(t, "#0001", order.Number(1).String())
	assert.Equal(t, "#0420", order.Number(420).String())
	assert.Equal(t, "#12345", order.Number(12345).String())

	_, err := order.NewNumber(0)
	require.Error(t, err)
}
