package events

import (
	"context"
	"time"
)

// Event kinds; the kind doubles as the routing key
const (
	OrderCreated         = "order.created"
	OrderStatusChanged   = "order.status_changed"
	OrderQuantityChanged = "order.quantity_changed"
	OrderDeleted         = "order.deleted"
	ItemCreated          = "item.created"
	ItemUpdated          = "item.updated"
	ItemDeleted          = "item.deleted"
)

// Event describes a change to an order or catalog item
type Event struct {
	Kind       string    `json:"kind"`
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	Menu       string    `json:"menu,omitempty"`
	Type       string    `json:"type,omitempty"`
	Status     string    `json:"status,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers change events to interested consumers
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event; used when no broker is configured
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}
