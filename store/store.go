package store

import (
	"context"
	"fmt"
	"time"

	"github.com/voicecart/voicecart/internal/profile"
	"github.com/voicecart/voicecart/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Cache settings
	cacheConfig cache.Config

	// Caches
	productCache *cache.Cache // cache for individual products
	catalogCache *cache.Cache // cache for the full catalog listing
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
	}

	return &Store{
		driver:       driver,
		profile:      profile,
		cacheConfig:  cacheConfig,
		productCache: cache.New(cacheConfig),
		catalogCache: cache.New(cacheConfig),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.productCache.Close()
	s.catalogCache.Close()
	return s.driver.Close()
}

func (s *Store) CreateProduct(ctx context.Context, create *Product) (*Product, error) {
	product, err := s.driver.CreateProduct(ctx, create)
	if err != nil {
		return nil, err
	}
	s.catalogCache.Clear()
	return product, nil
}

func (s *Store) ListProducts(ctx context.Context, find *FindProduct) ([]*Product, error) {
	return s.driver.ListProducts(ctx, find)
}

// GetProduct reads a single product through the product cache.
func (s *Store) GetProduct(ctx context.Context, id int32) (*Product, error) {
	key := fmt.Sprintf("product-%d", id)
	if cached, ok := s.productCache.Get(key); ok {
		return cached.(*Product), nil
	}

	list, err := s.driver.ListProducts(ctx, &FindProduct{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	s.productCache.Set(key, list[0])
	return list[0], nil
}

// AllProducts lists the full catalog through the catalog cache. The catalog
// is small and read on nearly every assistant turn.
func (s *Store) AllProducts(ctx context.Context) ([]*Product, error) {
	const key = "catalog"
	if cached, ok := s.catalogCache.Get(key); ok {
		return cached.([]*Product), nil
	}

	list, err := s.driver.ListProducts(ctx, &FindProduct{})
	if err != nil {
		return nil, err
	}
	s.catalogCache.Set(key, list)
	return list, nil
}

func (s *Store) UpdateProduct(ctx context.Context, update *UpdateProduct) error {
	if err := s.driver.UpdateProduct(ctx, update); err != nil {
		return err
	}
	s.productCache.Delete(fmt.Sprintf("product-%d", update.ID))
	s.catalogCache.Clear()
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, delete *DeleteProduct) error {
	if err := s.driver.DeleteProduct(ctx, delete); err != nil {
		return err
	}
	s.productCache.Delete(fmt.Sprintf("product-%d", delete.ID))
	s.catalogCache.Clear()
	return nil
}

func (s *Store) UpsertCartItem(ctx context.Context, upsert *UpsertCartItem) (*CartItem, error) {
	return s.driver.UpsertCartItem(ctx, upsert)
}

func (s *Store) ListCartItems(ctx context.Context, find *FindCartItem) ([]*CartItem, error) {
	return s.driver.ListCartItems(ctx, find)
}

func (s *Store) UpdateCartItem(ctx context.Context, update *UpdateCartItem) error {
	return s.driver.UpdateCartItem(ctx, update)
}

func (s *Store) DeleteCartItem(ctx context.Context, delete *DeleteCartItem) error {
	return s.driver.DeleteCartItem(ctx, delete)
}

// CartLines joins a session's cart items with their products, preserving
// insertion order.
func (s *Store) CartLines(ctx context.Context, sessionUID string) ([]*CartLine, error) {
	items, err := s.driver.ListCartItems(ctx, &FindCartItem{SessionUID: &sessionUID})
	if err != nil {
		return nil, err
	}

	lines := make([]*CartLine, 0, len(items))
	for _, item := range items {
		product, err := s.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			// Product removed from the catalog; skip the orphan line.
			continue
		}
		lines = append(lines, &CartLine{Product: product, Quantity: item.Quantity})
	}
	return lines, nil
}

// CartTotal returns the discount-aware total for a session's cart.
func (s *Store) CartTotal(ctx context.Context, sessionUID string) (float64, error) {
	lines, err := s.CartLines(ctx, sessionUID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, line := range lines {
		total += line.Subtotal()
	}
	return total, nil
}

func (s *Store) CreateAssistantMessage(ctx context.Context, create *AssistantMessage) (*AssistantMessage, error) {
	return s.driver.CreateAssistantMessage(ctx, create)
}

func (s *Store) ListAssistantMessages(ctx context.Context, find *FindAssistantMessage) ([]*AssistantMessage, error) {
	return s.driver.ListAssistantMessages(ctx, find)
}

func (s *Store) DeleteAssistantMessage(ctx context.Context, delete *DeleteAssistantMessage) error {
	return s.driver.DeleteAssistantMessage(ctx, delete)
}
