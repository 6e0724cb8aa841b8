package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/YANGYUNJIK/my-app/internal/models"
)

var (
	_ ItemRepository  = (*InMemoryItemRepository)(nil)
	_ ItemRepository  = (*MongoItemRepository)(nil)
	_ OrderRepository = (*InMemoryOrderRepository)(nil)
	_ OrderRepository = (*MongoOrderRepository)(nil)
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// testItemRepository exercises the ItemRepository contract against any implementation
func testItemRepository(t *testing.T, repo ItemRepository, missingID string) {
	ctx := context.Background()

	cola := &models.Item{Name: "Cola", Type: models.ItemTypeDrink, Image: "http://host/uploads/logo.png", Stock: true}
	chips := &models.Item{Name: "Chips", Type: models.ItemTypeSnack, Image: "http://host/uploads/chips.jpg", Stock: false}

	for _, item := range []*models.Item{cola, chips} {
		if err := repo.Create(ctx, item); err != nil {
			t.Fatalf("Create() unexpected error = %v", err)
		}
		if item.ID == "" {
			t.Fatal("Create() did not assign an ID")
		}
	}

	t.Run("list all", func(t *testing.T) {
		items, err := repo.List(ctx, ItemFilter{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(items) != 2 {
			t.Errorf("expected 2 items, got %d", len(items))
		}
	})

	t.Run("list by type", func(t *testing.T) {
		items, err := repo.List(ctx, ItemFilter{Type: models.ItemTypeDrink})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(items) != 1 || items[0].Name != "Cola" {
			t.Errorf("expected only Cola, got %+v", items)
		}
	})

	t.Run("list unknown type is empty not nil", func(t *testing.T) {
		items, err := repo.List(ctx, ItemFilter{Type: "dessert"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if items == nil || len(items) != 0 {
			t.Errorf("expected empty slice, got %#v", items)
		}
	})

	t.Run("partial update", func(t *testing.T) {
		updated, err := repo.Update(ctx, chips.ID, models.ItemPatch{Stock: boolPtr(true)})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if !updated.Stock {
			t.Error("expected stock to be true")
		}
		if updated.Name != "Chips" || updated.Image != chips.Image {
			t.Errorf("untouched fields changed: %+v", updated)
		}
	})

	t.Run("empty patch returns current item", func(t *testing.T) {
		got, err := repo.Update(ctx, cola.ID, models.ItemPatch{})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if got.Name != "Cola" {
			t.Errorf("expected Cola, got %s", got.Name)
		}
	})

	t.Run("update unknown", func(t *testing.T) {
		_, err := repo.Update(ctx, missingID, models.ItemPatch{Name: strPtr("x")})
		if !errors.Is(err, ErrItemNotFound) {
			t.Errorf("expected ErrItemNotFound, got %v", err)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, cola.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Name != "Cola" || got.Type != models.ItemTypeDrink {
			t.Errorf("unexpected item %+v", got)
		}
		if _, err := repo.GetByID(ctx, "not-an-id"); !errors.Is(err, ErrItemNotFound) {
			t.Errorf("expected ErrItemNotFound for malformed id, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.Delete(ctx, cola.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := repo.GetByID(ctx, cola.ID); !errors.Is(err, ErrItemNotFound) {
			t.Errorf("expected deleted item to be gone, got %v", err)
		}
		if err := repo.Delete(ctx, cola.ID); !errors.Is(err, ErrItemNotFound) {
			t.Errorf("expected ErrItemNotFound on second delete, got %v", err)
		}
	})
}

// testOrderRepository exercises the OrderRepository contract against any implementation
func testOrderRepository(t *testing.T, repo OrderRepository, missingID string) {
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	seed := []*models.Order{
		{Name: "student1", Menu: "Cola", Quantity: 2, Type: "drink", Status: models.OrderStatusPending, CreatedAt: base},
		{Name: "student2", Menu: "Chips", Quantity: 1, Type: "snack", Status: models.OrderStatusPending, CreatedAt: base.Add(2 * time.Minute)},
		{Name: "student1", Menu: "Cider", Quantity: 3, Type: "drink", Status: models.OrderStatusPending, CreatedAt: base.Add(time.Minute)},
	}
	for _, o := range seed {
		if err := repo.Create(ctx, o); err != nil {
			t.Fatalf("Create() unexpected error = %v", err)
		}
		if o.ID == "" {
			t.Fatal("Create() did not assign an ID")
		}
	}

	t.Run("list sorted newest first", func(t *testing.T) {
		orders, err := repo.List(ctx, OrderFilter{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(orders) != 3 {
			t.Fatalf("expected 3 orders, got %d", len(orders))
		}
		for i := 1; i < len(orders); i++ {
			if orders[i-1].CreatedAt.Before(orders[i].CreatedAt) {
				t.Errorf("orders out of order at %d: %v before %v", i, orders[i-1].CreatedAt, orders[i].CreatedAt)
			}
		}
		if orders[0].Menu != "Chips" {
			t.Errorf("expected newest order first, got %s", orders[0].Menu)
		}
	})

	t.Run("list by name", func(t *testing.T) {
		orders, err := repo.List(ctx, OrderFilter{Name: "student1"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(orders) != 2 {
			t.Fatalf("expected 2 orders, got %d", len(orders))
		}
		for _, o := range orders {
			if o.Name != "student1" {
				t.Errorf("unexpected requester %s", o.Name)
			}
		}
		if orders[0].Menu != "Cider" {
			t.Errorf("expected Cider first, got %s", orders[0].Menu)
		}
	})

	t.Run("update status", func(t *testing.T) {
		res, err := repo.UpdateStatus(ctx, seed[0].ID, models.OrderStatusAccepted)
		if err != nil || !res.Matched {
			t.Fatalf("UpdateStatus() = %+v, %v", res, err)
		}
		got, err := repo.GetByID(ctx, seed[0].ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Status != models.OrderStatusAccepted {
			t.Errorf("status = %s, want accepted", got.Status)
		}

		// reopening is permitted
		if res, _ := repo.UpdateStatus(ctx, seed[0].ID, models.OrderStatusPending); !res.Matched {
			t.Error("expected reopen to match")
		}
	})

	t.Run("update quantity", func(t *testing.T) {
		res, err := repo.UpdateQuantity(ctx, seed[1].ID, 5)
		if err != nil || !res.Matched {
			t.Fatalf("UpdateQuantity() = %+v, %v", res, err)
		}
		got, _ := repo.GetByID(ctx, seed[1].ID)
		if got.Quantity != 5 {
			t.Errorf("quantity = %d, want 5", got.Quantity)
		}
	})

	t.Run("unknown id does not match", func(t *testing.T) {
		for _, id := range []string{missingID, "garbage"} {
			if res, err := repo.UpdateStatus(ctx, id, "accepted"); err != nil || res.Matched {
				t.Errorf("UpdateStatus(%q) = %+v, %v", id, res, err)
			}
			if res, err := repo.UpdateQuantity(ctx, id, 1); err != nil || res.Matched {
				t.Errorf("UpdateQuantity(%q) = %+v, %v", id, res, err)
			}
			if res, err := repo.Delete(ctx, id); err != nil || res.Matched {
				t.Errorf("Delete(%q) = %+v, %v", id, res, err)
			}
			if _, err := repo.GetByID(ctx, id); !errors.Is(err, ErrOrderNotFound) {
				t.Errorf("GetByID(%q) error = %v, want ErrOrderNotFound", id, err)
			}
		}
	})

	t.Run("delete", func(t *testing.T) {
		res, err := repo.Delete(ctx, seed[2].ID)
		if err != nil || !res.Matched {
			t.Fatalf("Delete() = %+v, %v", res, err)
		}
		orders, _ := repo.List(ctx, OrderFilter{})
		if len(orders) != 2 {
			t.Errorf("expected 2 remaining orders, got %d", len(orders))
		}
	})
}

func TestInMemoryItemRepository(t *testing.T) {
	testItemRepository(t, NewInMemoryItemRepository(), "00000000-0000-0000-0000-000000000000")
}

func TestInMemoryOrderRepository(t *testing.T) {
	testOrderRepository(t, NewInMemoryOrderRepository(), "00000000-0000-0000-0000-000000000000")
}
