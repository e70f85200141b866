// Package eventcodec turns committed domain events into the JSON messages shared by the
// RabbitMQ publisher and the websocket hub.
package eventcodec

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"orderhub/internal/core/domain/model/assignment"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
)

var ErrUnsupportedEvent = errors.New("unsupported event")

// Message is an encoded event. RoutingKey follows the topic layout
// orders.<type>.<status> for order events and delivery.<status> for assignments.
type Message struct {
	Event      string
	RoutingKey string
	Body       []byte
}

type envelope struct {
	Event      string    `json:"event"`
	OrderID    string    `json:"order_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

type submittedData struct {
	Number       string `json:"number"`
	Type         string `json:"type"`
	Channel      string `json:"channel"`
	Total        int64  `json:"total"`
	DisplayTotal string `json:"display_total"`
}

type statusChangedData struct {
	Number string `json:"number"`
	Type   string `json:"type"`
	From   string `json:"from"`
	To     string `json:"to"`
}

type assignmentChangedData struct {
	DriverID *string `json:"driver_id,omitempty"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Reason   string  `json:"reason,omitempty"`
}

func Encode(event kernel.DomainEvent) (Message, error) {
	var (
		key  string
		data any
	)

	switch e := event.(type) {
	case order.Submitted:
		key = fmt.Sprintf("orders.%s.%s", e.Type, order.Pending)
		data = submittedData{
			Number:       e.Number.String(),
			Type:         e.Type.String(),
			Channel:      e.Channel,
			Total:        e.Total.MinorUnits(),
			DisplayTotal: e.Total.String(),
		}
	case order.StatusChanged:
		key = fmt.Sprintf("orders.%s.%s", e.Type, e.To)
		data = statusChangedData{
			Number: e.Number.String(),
			Type:   e.Type.String(),
			From:   e.From.String(),
			To:     e.To.String(),
		}
	case assignment.Changed:
		key = fmt.Sprintf("delivery.%s", e.To)
		d := assignmentChangedData{From: e.From.String(), To: e.To.String(), Reason: e.Reason}
		if e.DriverID != nil {
			id := e.DriverID.String()
			d.DriverID = &id
		}
		data = d
	default:
		return Message{}, fmt.Errorf("%w: %T", ErrUnsupportedEvent, event)
	}

	body, err := json.Marshal(envelope{
		Event:      event.EventName(),
		OrderID:    event.AggregateID().String(),
		OccurredAt: event.OccurredAt().UTC(),
		Data:       data,
	})
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s: %w", event.EventName(), err)
	}

	return Message{Event: event.EventName(), RoutingKey: key, Body: body}, nil
}
