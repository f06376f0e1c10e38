package port

import (
	"context"

	"github.com/niksmo/proexplore/internal/core/domain"
)

type CatalogClient interface {
	ListProducts(context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (domain.Product, error)
	ListCategories(context.Context) ([]string, error)
}

// A KVStorage is a durable key-value store.
//
// Get returns nil value and nil error when the key is absent.
type KVStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type FavoriteObserver func(domain.FavoriteEvent)

type FavoritesStore interface {
	IsFavorite(id int) bool
	Toggle(ctx context.Context, id int) bool
	IDs() []int
	Set() domain.FavoriteSet
	Subscribe(FavoriteObserver) (unsubscribe func())
}

type FavoriteEventsProducer interface {
	ProduceFavoriteEvent(context.Context, domain.FavoriteEvent) error
}

type CatalogBrowser interface {
	Listing(ctx context.Context, c domain.FilterCriteria) domain.ListingView
	Retry(ctx context.Context, c domain.FilterCriteria) domain.ListingView
}

type ProductViewer interface {
	Product(ctx context.Context, id int) (domain.Product, error)
}

type FavoritesToggler interface {
	ToggleFavorite(ctx context.Context, id int) bool
	IsFavorite(id int) bool
	Favorites() []int
}
