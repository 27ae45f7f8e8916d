package items

import (
	"context"
	"fmt"
	"strings"
)

// DefaultCatalogue is served by MemoryStore when no items are given.
var DefaultCatalogue = []Item{
	{Value: "bicycle A"},
	{Value: "bicycle B"},
	{Value: "bicycle C"},
	{Value: "tandem bicycle"},
	{Value: "scooter"},
	{Value: "skateboard"},
}

// MemoryStore serves a fixed catalogue. It is safe for concurrent use since
// the catalogue is never modified after construction.
type MemoryStore struct {
	items []Item
}

// NewMemoryStore creates a MemoryStore over items, or DefaultCatalogue.
func NewMemoryStore(items ...Item) *MemoryStore {
	if len(items) == 0 {
		items = DefaultCatalogue
	}
	return &MemoryStore{items: append([]Item(nil), items...)}
}

// FindItems returns up to limit items whose value contains term,
// case-insensitively. An empty term or a zero limit is rejected with
// ErrEmptyValue, a negative limit with ErrInvalidLimit.
func (s *MemoryStore) FindItems(ctx context.Context, term string, limit int) ([]Item, error) {
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if term == "" || limit == 0 {
		return []Item{}, ErrEmptyValue
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	found := make([]Item, 0, min(limit, len(s.items)))
	for _, item := range s.items {
		if len(found) == limit {
			break
		}
		if strings.Contains(strings.ToLower(item.Value), needle) {
			found = append(found, item)
		}
	}
	return found, nil
}

// NewStore builds the Store selected by cfg.Store.
func NewStore(cfg ServerConfig) (Store, error) {
	switch cfg.Store {
	case "", StoreMemory:
		return NewMemoryStore(), nil
	case StorePostgres:
		store, err := NewPostgresStore(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(context.Background()); err != nil {
			_ = store.Close()
			return nil, err
		}
		if cfg.Postgres.Seed {
			if err := store.SeedIfEmpty(context.Background(), DefaultCatalogue); err != nil {
				_ = store.Close()
				return nil, err
			}
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.Store)
	}
}
