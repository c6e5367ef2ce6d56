package stores

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/colonyops/extguard/internal/api"
	"github.com/colonyops/extguard/internal/core/logging"
)

const (
	DefaultPage     = 0
	DefaultPageSize = 10
)

// Pagination mirrors the last page the backend returned.
type Pagination struct {
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

// InventoryStore caches one page of inventory and the item being viewed.
type InventoryStore struct {
	client *api.Client
	log    zerolog.Logger

	mu         sync.RWMutex
	items      []api.Item
	current    *api.Item
	pagination Pagination
	lastQuery  api.ItemQuery
	loading    bool
}

// NewInventoryStore creates an InventoryStore.
func NewInventoryStore(client *api.Client) *InventoryStore {
	return &InventoryStore{
		client:     client,
		log:        logging.Component("inventory"),
		pagination: Pagination{Page: DefaultPage, Size: DefaultPageSize},
	}
}

// ValidateItem checks the writable fields of an item.
func ValidateItem(in api.ItemInput) error {
	var errs criterio.FieldErrorsBuilder

	if strings.TrimSpace(in.Name) == "" {
		errs = errs.Append("name", errors.New("이름을 입력해주세요"))
	}
	if in.Quantity < 0 {
		errs = errs.Append("quantity", errors.New("수량은 0 이상이어야 합니다"))
	}
	if in.Price < 0 {
		errs = errs.Append("price", errors.New("가격은 0 이상이어야 합니다"))
	}

	return errs.ToError()
}

// FetchItems loads one page. The query is remembered so later writes reload
// the same page.
func (s *InventoryStore) FetchItems(ctx context.Context, q api.ItemQuery) (api.Page[api.Item], error) {
	s.setLoading(true)
	defer s.setLoading(false)

	page, err := s.client.ListItems(ctx, q)
	if err != nil {
		s.log.Error().Err(err).Msg("fetch items")
		return api.Page[api.Item]{}, err
	}

	s.mu.Lock()
	s.lastQuery = q
	s.items = page.Content
	if s.items == nil {
		s.items = []api.Item{}
	}
	s.pagination = Pagination{
		Page:          page.Number,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
	if s.pagination.Size == 0 {
		s.pagination.Size = DefaultPageSize
	}
	s.mu.Unlock()

	return page, nil
}

// FetchItem loads one item and makes it current.
func (s *InventoryStore) FetchItem(ctx context.Context, id int64) (api.Item, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	item, err := s.client.GetItem(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("fetch item")
		return api.Item{}, err
	}

	s.mu.Lock()
	s.current = &item
	s.mu.Unlock()
	return item, nil
}

// CreateItem validates and creates an item, then reloads the page.
func (s *InventoryStore) CreateItem(ctx context.Context, in api.ItemInput) (api.Item, error) {
	if err := ValidateItem(in); err != nil {
		return api.Item{}, err
	}

	item, err := s.client.CreateItem(ctx, in)
	if err != nil {
		s.log.Error().Err(err).Msg("create item")
		return api.Item{}, err
	}

	_, err = s.FetchItems(ctx, s.query())
	return item, err
}

// UpdateItem validates and saves an item, reloads the page, and refreshes
// the current item when it is the one updated.
func (s *InventoryStore) UpdateItem(ctx context.Context, id int64, in api.ItemInput) (api.Item, error) {
	if err := ValidateItem(in); err != nil {
		return api.Item{}, err
	}

	item, err := s.client.UpdateItem(ctx, id, in)
	if err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("update item")
		return api.Item{}, err
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID == id {
		s.current = &item
	}
	s.mu.Unlock()

	_, err = s.FetchItems(ctx, s.query())
	return item, err
}

// DeleteItem removes an item, reloads the page, and clears the current item
// when it is the one deleted.
func (s *InventoryStore) DeleteItem(ctx context.Context, id int64) error {
	if err := s.client.DeleteItem(ctx, id); err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("delete item")
		return err
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()

	_, err := s.FetchItems(ctx, s.query())
	return err
}

// FetchByCategory replaces the cached items with every item in category.
func (s *InventoryStore) FetchByCategory(ctx context.Context, category string) ([]api.Item, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	items, err := s.client.ItemsByCategory(ctx, category)
	if err != nil {
		s.log.Error().Err(err).Str("category", category).Msg("fetch by category")
		return nil, err
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return items, nil
}

// Count asks the backend for the total number of items.
func (s *InventoryStore) Count(ctx context.Context) (int64, error) {
	return s.client.ItemCount(ctx)
}

// Items returns a copy of the cached page.
func (s *InventoryStore) Items() []api.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.Item(nil), s.items...)
}

// Current returns the item being viewed, if any.
func (s *InventoryStore) Current() (api.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return api.Item{}, false
	}
	return *s.current, true
}

// Pagination returns the last page metadata.
func (s *InventoryStore) Pagination() Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

// TotalItems is the backend's total element count from the last page.
func (s *InventoryStore) TotalItems() int64 {
	return s.Pagination().TotalElements
}

// IsLoading reports whether a read is in flight.
func (s *InventoryStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *InventoryStore) query() api.ItemQuery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastQuery
}

func (s *InventoryStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
