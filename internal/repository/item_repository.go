package repository

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/YANGYUNJIK/my-app/internal/models"
	"github.com/google/uuid"
)

var (
	ErrItemNotFound  = errors.New("item not found")
	ErrOrderNotFound = errors.New("order not found")
)

// ItemFilter narrows an item listing; zero value matches everything
type ItemFilter struct {
	Type string
}

// ItemRepository defines the interface for catalog data access
type ItemRepository interface {
	List(ctx context.Context, filter ItemFilter) ([]models.Item, error)
	GetByID(ctx context.Context, id string) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryItemRepository implements ItemRepository with in-memory storage
type InMemoryItemRepository struct {
	mu    sync.RWMutex
	items map[string]models.Item
	order []string // insertion order, keeps listings stable
}

// NewInMemoryItemRepository creates an empty in-memory item repository
func NewInMemoryItemRepository() *InMemoryItemRepository {
	return &InMemoryItemRepository{
		items: make(map[string]models.Item),
	}
}

// List returns items matching the filter in insertion order
func (r *InMemoryItemRepository) List(ctx context.Context, filter ItemFilter) ([]models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.Item, 0, len(r.items))
	for _, id := range r.order {
		item := r.items[id]
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// GetByID returns an item by its ID
func (r *InMemoryItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, ErrItemNotFound
	}
	return &item, nil
}

// Create stores the item and assigns its ID
func (r *InMemoryItemRepository) Create(ctx context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = uuid.New().String()
	r.items[item.ID] = *item
	r.order = append(r.order, item.ID)
	return nil
}

// Update applies the non-nil patch fields and returns the stored item
func (r *InMemoryItemRepository) Update(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.items[id]
	if !exists {
		return nil, ErrItemNotFound
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Type != nil {
		item.Type = *patch.Type
	}
	if patch.Image != nil {
		item.Image = *patch.Image
	}
	if patch.Stock != nil {
		item.Stock = *patch.Stock
	}

	r.items[id] = item
	return &item, nil
}

// Delete removes an item by its ID
func (r *InMemoryItemRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return ErrItemNotFound
	}

	delete(r.items, id)
	if idx := slices.Index(r.order, id); idx >= 0 {
		r.order = slices.Delete(r.order, idx, idx+1)
	}
	return nil
}
