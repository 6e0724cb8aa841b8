package handlers

import (
	"log/slog"
	"net/http"

	"github.com/YANGYUNJIK/my-app/internal/models"
	"github.com/YANGYUNJIK/my-app/internal/service"
	"github.com/go-chi/chi/v5"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// CreateOrder handles POST /order
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest

	if err := decodeJSON(r, &req); err != nil {
		h.log.Warn("failed to decode order request", "error", err)
		writeServiceError(w, bodyError(err), h.log, "failed to decode order request")
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.log, "failed to create order")
		return
	}

	h.log.Info("order created", "order_id", order.ID, "menu", order.Menu, "quantity", order.Quantity)
	WriteSuccess(w, map[string]interface{}{"insertedId": order.ID}, h.log)
}

// ListOrders handles GET /orders?name=
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListOrders(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeServiceError(w, err, h.log, "failed to list orders")
		return
	}

	WriteJSON(w, http.StatusOK, orders, h.log)
}

// GetOrder handles GET /orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.log, "failed to get order", "order_id", id)
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
}

// UpdateStatus handles PATCH /order/{id}
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, bodyError(err), h.log, "failed to decode status request")
		return
	}

	if err := h.orderService.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeServiceError(w, err, h.log, "failed to update order status", "order_id", id)
		return
	}

	h.log.Info("order status updated", "order_id", id, "status", *req.Status)
	WriteSuccess(w, nil, h.log)
}

// UpdateQuantity handles PATCH /orders/{id}
func (h *OrderHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.QuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, bodyError(err), h.log, "failed to decode quantity request")
		return
	}

	if err := h.orderService.UpdateQuantity(r.Context(), id, req.Quantity); err != nil {
		writeServiceError(w, err, h.log, "failed to update order quantity", "order_id", id)
		return
	}

	h.log.Info("order quantity updated", "order_id", id, "quantity", *req.Quantity)
	WriteSuccess(w, nil, h.log)
}

// DeleteOrder handles DELETE /orders/{id}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.orderService.DeleteOrder(r.Context(), id); err != nil {
		writeServiceError(w, err, h.log, "failed to delete order", "order_id", id)
		return
	}

	h.log.Info("order deleted", "order_id", id)
	WriteSuccess(w, nil, h.log)
}
