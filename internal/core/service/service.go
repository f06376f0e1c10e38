package service

import (
	"context"
	"fmt"

	"github.com/niksmo/proexplore/internal/core/domain"
	"github.com/niksmo/proexplore/internal/core/port"
)

var _ port.CatalogBrowser = (*Service)(nil)
var _ port.ProductViewer = (*Service)(nil)
var _ port.FavoritesToggler = (*Service)(nil)

type Service struct {
	catalog   port.CatalogClient
	favorites port.FavoritesStore
	listing   *Listing
}

func New(catalog port.CatalogClient, favorites port.FavoritesStore) *Service {
	return &Service{
		catalog:   catalog,
		favorites: favorites,
		listing:   NewListing(catalog, favorites),
	}
}

// Listing returns the listing state for c, loading the catalog on the first
// call.
//
// A failed load is not repeated here: it stays failed until [Service.Retry].
func (s *Service) Listing(
	ctx context.Context, c domain.FilterCriteria,
) domain.ListingView {
	if s.listing.Status() == domain.StatusIdle {
		_ = s.listing.Load(ctx)
	}
	return s.listing.View(c)
}

func (s *Service) Retry(
	ctx context.Context, c domain.FilterCriteria,
) domain.ListingView {
	_ = s.listing.Retry(ctx)
	return s.listing.View(c)
}

func (s *Service) Product(ctx context.Context, id int) (domain.Product, error) {
	const op = "Service.Product"

	p, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *Service) ToggleFavorite(ctx context.Context, id int) bool {
	return s.favorites.Toggle(ctx, id)
}

func (s *Service) IsFavorite(id int) bool {
	return s.favorites.IsFavorite(id)
}

func (s *Service) Favorites() []int {
	return s.favorites.IDs()
}

func (s *Service) Close() {
	s.listing.Close()
}
