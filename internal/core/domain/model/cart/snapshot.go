package cart

import (
	"slices"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
)

// Snapshot is the frozen content of a cart handed to order submission.
type Snapshot struct {
	cartID      kernel.UUID
	sessionID   string
	channel     Channel
	orderType   order.Type
	tableNumber *int
	lines       []Line
	notes       string
}

func (s Snapshot) CartID() kernel.UUID { return s.cartID }
func (s Snapshot) SessionID() string { return s.sessionID }
func (s Snapshot) Channel() Channel { return s.channel }
func (s Snapshot) OrderType() order.Type { return s.orderType }
func (s Snapshot) Notes() string { return s.notes }

func (s Snapshot) TableNumber() *int {
	if s.tableNumber == nil {
		return nil
	}
	n := *s.tableNumber
	return &n
}

func (s Snapshot) Lines() []Line {
	return slices.Clone(s.lines)
}

func (s Snapshot) Totals() Totals {
	return computeTotals(s.lines)
}

// OrderLines converts the frozen lines to the immutable order item snapshot.
func (s Snapshot) OrderLines() ([]order.Line, error) {
	lines := make([]order.Line, 0, len(s.lines))
	for _, l := range s.lines {
		ol, err := order.NewLine(l.itemID, l.name, l.quantity, l.unitPrice, l.modifiers)
		if err != nil {
			return nil, err
		}
		lines = append(lines, ol)
	}
	return lines, nil
}
