package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Product model related methods.
	CreateProduct(ctx context.Context, create *Product) (*Product, error)
	ListProducts(ctx context.Context, find *FindProduct) ([]*Product, error)
	UpdateProduct(ctx context.Context, update *UpdateProduct) error
	DeleteProduct(ctx context.Context, delete *DeleteProduct) error

	// CartItem model related methods.
	UpsertCartItem(ctx context.Context, upsert *UpsertCartItem) (*CartItem, error)
	ListCartItems(ctx context.Context, find *FindCartItem) ([]*CartItem, error)
	UpdateCartItem(ctx context.Context, update *UpdateCartItem) error
	DeleteCartItem(ctx context.Context, delete *DeleteCartItem) error

	// AssistantMessage model related methods.
	CreateAssistantMessage(ctx context.Context, create *AssistantMessage) (*AssistantMessage, error)
	ListAssistantMessages(ctx context.Context, find *FindAssistantMessage) ([]*AssistantMessage, error)
	DeleteAssistantMessage(ctx context.Context, delete *DeleteAssistantMessage) error
}
