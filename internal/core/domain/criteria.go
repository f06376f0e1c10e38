package domain

import (
	"errors"
	"fmt"
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

var ErrUnknownSortOption = errors.New("unknown sort option")

type SortOption string

const (
	SortNone       SortOption = "none"
	SortPriceAsc   SortOption = "price-asc"
	SortPriceDesc  SortOption = "price-desc"
	SortRatingDesc SortOption = "rating-desc"
)

// ParseSortOption maps user input to a [SortOption].
//
// Empty input is [SortNone]. "rating" is accepted as an alias of [SortRatingDesc].
func ParseSortOption(s string) (SortOption, error) {
	switch SortOption(s) {
	case "", SortNone:
		return SortNone, nil
	case SortPriceAsc, SortPriceDesc, SortRatingDesc:
		return SortOption(s), nil
	case "rating":
		return SortRatingDesc, nil
	}
	return SortNone, fmt.Errorf("%w: %q", ErrUnknownSortOption, s)
}

type FilterCriteria struct {
	Search            string
	Category          string
	ShowFavoritesOnly bool
	SortBy            SortOption
}

func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		Category: CategoryAll,
		SortBy:   SortNone,
	}
}

func (c FilterCriteria) IsDefault() bool {
	return c == DefaultCriteria()
}
