package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/YANGYUNJIK/my-app/internal/events"
	"github.com/YANGYUNJIK/my-app/internal/metrics"
	"github.com/YANGYUNJIK/my-app/internal/models"
	"github.com/YANGYUNJIK/my-app/internal/repository"
)

// OrderService handles order business logic
type OrderService struct {
	repo      repository.OrderRepository
	publisher events.Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(repo repository.OrderRepository, publisher events.Publisher, log *slog.Logger) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder validates the request and stores a pending order
func (s *OrderService) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	name := strings.TrimSpace(req.Name)
	menu := strings.TrimSpace(req.Menu)
	orderType := strings.TrimSpace(req.Type)

	if name == "" || menu == "" || orderType == "" || req.Quantity == 0 {
		return nil, ErrMissingOrderFields
	}
	if req.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	order := &models.Order{
		Name:      name,
		Menu:      menu,
		Quantity:  req.Quantity,
		Type:      orderType,
		Status:    models.OrderStatusPending,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	metrics.OrdersCreated.WithLabelValues(order.Type).Inc()
	s.publish(ctx, events.Event{
		Kind:     events.OrderCreated,
		ID:       order.ID,
		Name:     order.Name,
		Menu:     order.Menu,
		Type:     order.Type,
		Status:   order.Status,
		Quantity: order.Quantity,
	})
	return order, nil
}

// ListOrders returns orders newest first, optionally only one requester's
func (s *OrderService) ListOrders(ctx context.Context, name string) ([]models.Order, error) {
	return s.repo.List(ctx, repository.OrderFilter{Name: name})
}

// GetOrder returns a single order
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus sets the status to any non-empty value regardless of the
// current one; accepted or rejected orders may be reopened
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status *string) error {
	if status == nil || strings.TrimSpace(*status) == "" {
		return ErrMissingStatus
	}
	value := strings.TrimSpace(*status)

	res, err := s.repo.UpdateStatus(ctx, id, value)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if !res.Matched {
		return repository.ErrOrderNotFound
	}

	metrics.OrderStatusChanges.WithLabelValues(value).Inc()
	s.publish(ctx, events.Event{Kind: events.OrderStatusChanged, ID: id, Status: value})
	return nil
}

// UpdateQuantity sets a new positive quantity; the current status is not checked
func (s *OrderService) UpdateQuantity(ctx context.Context, id string, quantity *int) error {
	if quantity == nil {
		return ErrMissingOrderFields
	}
	if *quantity <= 0 {
		return ErrInvalidQuantity
	}

	res, err := s.repo.UpdateQuantity(ctx, id, *quantity)
	if err != nil {
		return fmt.Errorf("failed to update order quantity: %w", err)
	}
	if !res.Matched {
		return repository.ErrOrderNotFound
	}

	s.publish(ctx, events.Event{Kind: events.OrderQuantityChanged, ID: id, Quantity: *quantity})
	return nil
}

// DeleteOrder removes an order
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	res, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !res.Matched {
		return repository.ErrOrderNotFound
	}

	s.publish(ctx, events.Event{Kind: events.OrderDeleted, ID: id})
	return nil
}

func (s *OrderService) publish(ctx context.Context, ev events.Event) {
	publishEvent(ctx, s.publisher, s.log, ev)
}

// publishEvent delivers an event without letting broker trouble fail the request
func publishEvent(ctx context.Context, p events.Publisher, log *slog.Logger, ev events.Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := p.Publish(ctx, ev); err != nil {
		log.Warn("failed to publish event", "kind", ev.Kind, "id", ev.ID, "error", err)
	}
}
