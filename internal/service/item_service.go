package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/YANGYUNJIK/my-app/internal/events"
	"github.com/YANGYUNJIK/my-app/internal/metrics"
	"github.com/YANGYUNJIK/my-app/internal/models"
	"github.com/YANGYUNJIK/my-app/internal/repository"
	"github.com/YANGYUNJIK/my-app/internal/storage"
)

// AssetStore is the subset of the image store the catalog needs
type AssetStore interface {
	SaveUpload(originalName string, r io.Reader) (string, error)
	SaveBase64(payload string) (string, error)
	Remove(name string) error
	IsDefault(name string) bool
	DefaultName() string
}

// ImageSource is where a new item image comes from. Upload wins over Base64;
// both empty means no new image.
type ImageSource struct {
	Upload   io.Reader
	Filename string
	Base64   string
}

func (s ImageSource) isEmpty() bool {
	return s.Upload == nil && s.Base64 == ""
}

// CreateItemInput holds the fields of a new catalog item
type CreateItemInput struct {
	Name    string
	Type    string
	Stock   *bool
	Image   ImageSource
	BaseURL string // scheme://host used to build image URLs
}

// UpdateItemInput holds a partial item update; nil or empty fields are left unchanged
type UpdateItemInput struct {
	Name    *string
	Type    *string
	Stock   *bool
	Image   ImageSource
	BaseURL string
}

// ItemService handles catalog business logic, including the image lifecycle
type ItemService struct {
	repo      repository.ItemRepository
	assets    AssetStore
	publisher events.Publisher
	log       *slog.Logger
}

// NewItemService creates a new item service
func NewItemService(repo repository.ItemRepository, assets AssetStore, publisher events.Publisher, log *slog.Logger) *ItemService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ItemService{
		repo:      repo,
		assets:    assets,
		publisher: publisher,
		log:       log,
	}
}

// ListItems returns all items, optionally restricted to one category
func (s *ItemService) ListItems(ctx context.Context, itemType string) ([]models.Item, error) {
	return s.repo.List(ctx, repository.ItemFilter{Type: strings.TrimSpace(itemType)})
}

// GetItem returns a single item
func (s *ItemService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateItem validates the input, stores the image (or falls back to the
// default asset) and persists the item
func (s *ItemService) CreateItem(ctx context.Context, in CreateItemInput) (*models.Item, error) {
	name := strings.TrimSpace(in.Name)
	itemType := strings.TrimSpace(in.Type)
	if name == "" || itemType == "" {
		return nil, ErrMissingItemFields
	}

	assetName := s.assets.DefaultName()
	if !in.Image.isEmpty() {
		saved, err := s.saveImage(in.Image)
		if err != nil {
			return nil, err
		}
		assetName = saved
	}

	stock := true
	if in.Stock != nil {
		stock = *in.Stock
	}

	item := &models.Item{
		Name:  name,
		Type:  itemType,
		Image: storage.URL(in.BaseURL, assetName),
		Stock: stock,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		s.discard(assetName)
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.publish(ctx, events.Event{Kind: events.ItemCreated, ID: item.ID, Name: item.Name, Type: item.Type})
	return item, nil
}

// UpdateItem applies a partial update. A new image is written before the
// document changes; the previous file is removed afterwards on a best-effort basis.
func (s *ItemService) UpdateItem(ctx context.Context, id string, in UpdateItemInput) (*models.Item, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var patch models.ItemPatch
	if in.Name != nil {
		if v := strings.TrimSpace(*in.Name); v != "" {
			patch.Name = &v
		}
	}
	if in.Type != nil {
		if v := strings.TrimSpace(*in.Type); v != "" {
			patch.Type = &v
		}
	}
	patch.Stock = in.Stock

	newAsset := ""
	if !in.Image.isEmpty() {
		newAsset, err = s.saveImage(in.Image)
		if err != nil {
			return nil, err
		}
		imageURL := storage.URL(in.BaseURL, newAsset)
		patch.Image = &imageURL
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if newAsset != "" {
			s.discard(newAsset)
		}
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	if newAsset != "" {
		if old, ok := storage.AssetNameFromURL(existing.Image); ok && old != newAsset {
			s.cleanup(old, id)
		}
	}

	s.publish(ctx, events.Event{Kind: events.ItemUpdated, ID: updated.ID, Name: updated.Name, Type: updated.Type})
	return updated, nil
}

// DeleteItem removes the item and then its image, unless it is the default asset
func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if name, ok := storage.AssetNameFromURL(existing.Image); ok {
		s.cleanup(name, id)
	}

	s.publish(ctx, events.Event{Kind: events.ItemDeleted, ID: id, Name: existing.Name, Type: existing.Type})
	return nil
}

func (s *ItemService) saveImage(src ImageSource) (string, error) {
	var name string
	var err error
	if src.Upload != nil {
		name, err = s.assets.SaveUpload(src.Filename, src.Upload)
	} else {
		name, err = s.assets.SaveBase64(src.Base64)
	}

	if errors.Is(err, storage.ErrInvalidImage) {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return name, nil
}

// cleanup removes a superseded asset; failures are logged, never returned
func (s *ItemService) cleanup(name, itemID string) {
	if s.assets.IsDefault(name) {
		return
	}
	if err := s.assets.Remove(name); err != nil {
		metrics.AssetCleanupFailures.Inc()
		s.log.Warn("failed to remove previous image", "item_id", itemID, "asset", name, "error", err)
	}
}

// discard removes an asset written for a request that then failed
func (s *ItemService) discard(name string) {
	if s.assets.IsDefault(name) {
		return
	}
	if err := s.assets.Remove(name); err != nil {
		s.log.Warn("failed to remove orphaned image", "asset", name, "error", err)
	}
}

func (s *ItemService) publish(ctx context.Context, ev events.Event) {
	publishEvent(ctx, s.publisher, s.log, ev)
}
