package filter_test

import (
	"testing"

	"github.com/niksmo/proexplore/internal/core/domain"
	"github.com/niksmo/proexplore/internal/core/filter"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int, title string, price int64, category string, rate float64) domain.Product {
	return domain.Product{
		ID:       id,
		Title:    title,
		Price:    decimal.NewFromInt(price),
		Category: category,
		Rating:   domain.ProductRating{Rate: rate},
	}
}

func scenarioProducts() []domain.Product {
	return []domain.Product{
		product(1, "Red Shirt", 20, "clothing", 4.5),
		product(2, "Blue Mug", 10, "home", 3.0),
	}
}

func catalog() []domain.Product {
	return []domain.Product{
		product(1, "Red Shirt", 20, "clothing", 4.5),
		product(2, "Blue Mug", 10, "home", 3.0),
		product(3, "Green SHIRT", 10, "clothing", 4.5),
		product(4, "Silver Ring", 150, "jewelery", 2.1),
		product(5, "Gold Ring", 20, "jewelery", 4.9),
		product(6, "Backpack", 55, "Clothing", 3.9),
	}
}

func ids(ps []domain.Product) []int {
	res := make([]int, len(ps))
	for i, p := range ps {
		res[i] = p.ID
	}
	return res
}

func TestApplyIdentity(t *testing.T) {
	ps := catalog()
	got := filter.Apply(ps, domain.DefaultCriteria(), domain.NewFavoriteSet(2, 4))
	assert.Equal(t, ps, got)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	ps := catalog()
	before := ids(ps)

	c := domain.DefaultCriteria()
	c.SortBy = domain.SortPriceDesc
	_ = filter.Apply(ps, c, nil)

	assert.Equal(t, before, ids(ps))
}

func TestApplyEmpty(t *testing.T) {
	c := domain.FilterCriteria{
		Search:            "shirt",
		Category:          "clothing",
		ShowFavoritesOnly: true,
		SortBy:            domain.SortRatingDesc,
	}
	assert.Empty(t, filter.Apply(nil, c, domain.NewFavoriteSet(1)))
	assert.Empty(t, filter.Apply([]domain.Product{}, domain.DefaultCriteria(), nil))
}

func TestApplySearch(t *testing.T) {
	t.Run("Scenario", func(t *testing.T) {
		c := domain.DefaultCriteria()
		c.Search = "shirt"
		got := filter.Apply(scenarioProducts(), c, nil)
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].ID)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		c := domain.DefaultCriteria()
		c.Search = "sHiRt"
		assert.Equal(t, []int{1, 3}, ids(filter.Apply(catalog(), c, nil)))
	})

	t.Run("Substring", func(t *testing.T) {
		c := domain.DefaultCriteria()
		c.Search = "ing"
		assert.Equal(t, []int{4, 5}, ids(filter.Apply(catalog(), c, nil)))
	})

	t.Run("NoMatch", func(t *testing.T) {
		c := domain.DefaultCriteria()
		c.Search = "laptop"
		assert.Empty(t, filter.Apply(catalog(), c, nil))
	})
}

func TestApplyCategory(t *testing.T) {
	t.Run("Exact", func(t *testing.T) {
		c := domain.DefaultCriteria()
		c.Category = "clothing"
		assert.Equal(t, []int{1, 3}, ids(filter.Apply(catalog(), c, nil)))
	})

	t.Run("CaseSensitive", func(t *testing.T) {
		c := domain.DefaultCriteria()
		c.Category = "Clothing"
		assert.Equal(t, []int{6}, ids(filter.Apply(catalog(), c, nil)))
	})

	t.Run("Unknown", func(t *testing.T) {
		c := domain.DefaultCriteria()
		c.Category = "toys"
		assert.Empty(t, filter.Apply(catalog(), c, nil))
	})
}

func TestApplyFavorites(t *testing.T) {
	t.Run("Scenario", func(t *testing.T) {
		favs := domain.NewFavoriteSet(2)
		for _, sortBy := range []domain.SortOption{
			domain.SortNone,
			domain.SortPriceAsc,
			domain.SortPriceDesc,
			domain.SortRatingDesc,
		} {
			c := domain.FilterCriteria{
				Search:            "mug",
				Category:          domain.CategoryAll,
				ShowFavoritesOnly: true,
				SortBy:            sortBy,
			}
			got := filter.Apply(scenarioProducts(), c, favs)
			require.Len(t, got, 1, sortBy)
			assert.Equal(t, 2, got[0].ID, sortBy)
		}
	})

	t.Run("NilSet", func(t *testing.T) {
		c := domain.DefaultCriteria()
		c.ShowFavoritesOnly = true
		assert.Empty(t, filter.Apply(catalog(), c, nil))
	})

	t.Run("IgnoredWhenOff", func(t *testing.T) {
		got := filter.Apply(catalog(), domain.DefaultCriteria(), domain.NewFavoriteSet(4))
		assert.Len(t, got, len(catalog()))
	})
}

func TestApplySort(t *testing.T) {
	t.Run("PriceDescScenario", func(t *testing.T) {
		c := domain.DefaultCriteria()
		c.SortBy = domain.SortPriceDesc
		got := filter.Apply(scenarioProducts(), c, nil)
		assert.Equal(t, []int{1, 2}, ids(got))
		assert.True(t, got[0].Price.Equal(decimal.NewFromInt(20)))
		assert.True(t, got[1].Price.Equal(decimal.NewFromInt(10)))
	})

	t.Run("PriceAscOrdered", func(t *testing.T) {
		c := domain.DefaultCriteria()
		c.SortBy = domain.SortPriceAsc
		got := filter.Apply(catalog(), c, nil)
		require.Len(t, got, len(catalog()))
		for k := 0; k < len(got)-1; k++ {
			assert.True(t, got[k].Price.LessThanOrEqual(got[k+1].Price))
		}
	})

	t.Run("PriceAscStable", func(t *testing.T) {
		c := domain.DefaultCriteria()
		c.SortBy = domain.SortPriceAsc
		// 2 and 3 cost 10, 1 and 5 cost 20: ties keep fetch order
		assert.Equal(t, []int{2, 3, 1, 5, 6, 4}, ids(filter.Apply(catalog(), c, nil)))
	})

	t.Run("PriceDescStable", func(t *testing.T) {
		c := domain.DefaultCriteria()
		c.SortBy = domain.SortPriceDesc
		assert.Equal(t, []int{4, 6, 1, 5, 2, 3}, ids(filter.Apply(catalog(), c, nil)))
	})

	t.Run("RatingDescStable", func(t *testing.T) {
		c := domain.DefaultCriteria()
		c.SortBy = domain.SortRatingDesc
		assert.Equal(t, []int{5, 1, 3, 6, 2, 4}, ids(filter.Apply(catalog(), c, nil)))
	})

	t.Run("DecimalPrices", func(t *testing.T) {
		ps := []domain.Product{
			{ID: 1, Price: decimal.RequireFromString("109.95")},
			{ID: 2, Price: decimal.RequireFromString("22.3")},
			{ID: 3, Price: decimal.RequireFromString("109.9")},
		}
		c := domain.DefaultCriteria()
		c.SortBy = domain.SortPriceAsc
		assert.Equal(t, []int{2, 3, 1}, ids(filter.Apply(ps, c, nil)))
	})
}

func TestApplyCombined(t *testing.T) {
	c := domain.FilterCriteria{
		Search:            "ring",
		Category:          "jewelery",
		ShowFavoritesOnly: true,
		SortBy:            domain.SortPriceAsc,
	}
	got := filter.Apply(catalog(), c, domain.NewFavoriteSet(1, 4, 5))
	assert.Equal(t, []int{5, 4}, ids(got))
}
