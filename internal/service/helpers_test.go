package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/YANGYUNJIK/my-app/internal/events"
	"github.com/YANGYUNJIK/my-app/internal/models"
	"github.com/YANGYUNJIK/my-app/internal/repository"
	"github.com/YANGYUNJIK/my-app/internal/storage"
)

const testBaseURL = "http://localhost:3000"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Kind
	}
	return out
}

// failingRemoveStore wraps a real store but refuses to delete anything
type failingRemoveStore struct {
	*storage.AssetStore
}

func (failingRemoveStore) Remove(name string) error {
	return errors.New("disk is read-only")
}

// failingItemRepo fails every write
type failingItemRepo struct {
	repository.ItemRepository
}

func (failingItemRepo) Create(ctx context.Context, item *models.Item) error {
	return errors.New("connection reset")
}

func (failingItemRepo) Update(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error) {
	return nil, errors.New("connection reset")
}

func newAssetStore(t *testing.T) *storage.AssetStore {
	t.Helper()
	s := storage.NewAssetStore(t.TempDir(), "logo.png")
	if err := s.EnsureDefault(); err != nil {
		t.Fatalf("EnsureDefault() error = %v", err)
	}
	return s
}

// assetFiles lists stored files other than the default asset
func assetFiles(t *testing.T, s *storage.AssetStore) []string {
	t.Helper()
	entries, err := os.ReadDir(s.Root())
	if err != nil {
		t.Fatalf("failed to read asset dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		if e.Name() != s.DefaultName() {
			names = append(names, e.Name())
		}
	}
	return names
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }
