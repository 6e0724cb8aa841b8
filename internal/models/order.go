package models

import "time"

// Order statuses
const (
	OrderStatusPending  = "pending"
	OrderStatusAccepted = "accepted"
	OrderStatusRejected = "rejected"
)

// Order is a single requester's request for some units of one item
type Order struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Menu      string    `json:"menu"`
	Quantity  int       `json:"quantity"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrderRequest represents an incoming order creation request
type OrderRequest struct {
	Name     string `json:"name"`
	Menu     string `json:"menu"`
	Quantity int    `json:"quantity"`
	Type     string `json:"type"`
}

// StatusRequest is the body of an order status change
type StatusRequest struct {
	Status *string `json:"status"`
}

// QuantityRequest is the body of an order quantity change
type QuantityRequest struct {
	Quantity *int `json:"quantity"`
}
