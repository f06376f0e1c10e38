// Package filter computes the visible, ordered subset of a product list.
//
// [Apply] has no hidden inputs and never touches the network, so callers may
// memoize it on its arguments.
package filter

import (
	"cmp"
	"slices"
	"strings"

	"github.com/niksmo/proexplore/internal/core/domain"
)

// Apply returns the products matching c, ordered by c.SortBy.
//
// The result is a new slice; ps is never reordered. Sorting is stable, ties keep
// the order of ps.
func Apply(
	ps []domain.Product, c domain.FilterCriteria, favs domain.FavoriteSet,
) []domain.Product {
	search := strings.ToLower(c.Search)

	res := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if !matchSearch(p, search) ||
			!matchCategory(p, c.Category) ||
			!matchFavorites(p, c.ShowFavoritesOnly, favs) {
			continue
		}
		res = append(res, p)
	}

	if less := compareFn(c.SortBy); less != nil {
		slices.SortStableFunc(res, less)
	}
	return res
}

func matchSearch(p domain.Product, lowerSearch string) bool {
	if lowerSearch == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), lowerSearch)
}

func matchCategory(p domain.Product, category string) bool {
	return category == domain.CategoryAll || p.Category == category
}

func matchFavorites(
	p domain.Product, onlyFavorites bool, favs domain.FavoriteSet,
) bool {
	return !onlyFavorites || favs.Has(p.ID)
}

func compareFn(s domain.SortOption) func(a, b domain.Product) int {
	switch s {
	case domain.SortPriceAsc:
		return func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		}
	case domain.SortPriceDesc:
		return func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price)
		}
	case domain.SortRatingDesc:
		return func(a, b domain.Product) int {
			return cmp.Compare(b.Rating.Rate, a.Rating.Rate)
		}
	}
	return nil
}
