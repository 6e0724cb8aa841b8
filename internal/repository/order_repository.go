package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/YANGYUNJIK/my-app/internal/models"
	"github.com/google/uuid"
)

// OrderFilter narrows an order listing; zero value matches everything
type OrderFilter struct {
	Name string
}

// UpdateResult reports whether a by-id mutation matched a stored order
type UpdateResult struct {
	Matched bool
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (UpdateResult, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) (UpdateResult, error)
	Delete(ctx context.Context, id string) (UpdateResult, error)
}

// InMemoryOrderRepository implements OrderRepository with in-memory storage
type InMemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]models.Order
}

// NewInMemoryOrderRepository creates an empty in-memory order repository
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create stores the order and assigns its ID
func (r *InMemoryOrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = uuid.New().String()
	r.orders[order.ID] = *order
	return nil
}

// List returns matching orders, most recent first
func (r *InMemoryOrderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	r.mu.RLock()
	orders := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if filter.Name != "" && order.Name != filter.Name {
			continue
		}
		orders = append(orders, order)
	}
	r.mu.RUnlock()

	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// GetByID returns an order by its ID
func (r *InMemoryOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, exists := r.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// UpdateStatus overwrites the status without looking at the current one
func (r *InMemoryOrderRepository) UpdateStatus(ctx context.Context, id, status string) (UpdateResult, error) {
	return r.mutate(id, func(o *models.Order) { o.Status = status }), nil
}

// UpdateQuantity overwrites the quantity without looking at the status
func (r *InMemoryOrderRepository) UpdateQuantity(ctx context.Context, id string, quantity int) (UpdateResult, error) {
	return r.mutate(id, func(o *models.Order) { o.Quantity = quantity }), nil
}

// Delete removes an order by its ID
func (r *InMemoryOrderRepository) Delete(ctx context.Context, id string) (UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[id]; !exists {
		return UpdateResult{}, nil
	}
	delete(r.orders, id)
	return UpdateResult{Matched: true}, nil
}

func (r *InMemoryOrderRepository) mutate(id string, fn func(*models.Order)) UpdateResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, exists := r.orders[id]
	if !exists {
		return UpdateResult{}
	}
	fn(&order)
	r.orders[id] = order
	return UpdateResult{Matched: true}
}
