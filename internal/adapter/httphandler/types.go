package httphandler

import (
	"github.com/niksmo/proexplore/internal/core/domain"
	"github.com/shopspring/decimal"
)

type (
	Product struct {
		ID          int             `json:"id"`
		Title       string          `json:"title"`
		Price       Price           `json:"price"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		Image       string          `json:"image"`
		Rating      ProductRating   `json:"rating"`
		Favorite    bool            `json:"favorite"`
	}

	ProductRating struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	}
)

// Price is encoded as a JSON number keeping the exact decimal digits.
type Price struct {
	decimal.Decimal
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

type Criteria struct {
	Search            string `json:"search"`
	Category          string `json:"category"`
	ShowFavoritesOnly bool   `json:"show_favorites_only"`
	SortBy            string `json:"sort_by"`
}

type ListingResponse struct {
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	Criteria   Criteria  `json:"criteria"`
	Categories []string  `json:"categories"`
	Total      int       `json:"total"`
	Count      int       `json:"count"`
	Products   []Product `json:"products"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type FavoritesResponse struct {
	IDs []int `json:"ids"`
}

type ToggleResponse struct {
	ProductID int  `json:"product_id"`
	Favorite  bool `json:"favorite"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func productFromDomain(p domain.Product, favorite bool) Product {
	return Product{
		ID:          p.ID,
		Title:       p.Title,
		Price:       Price{p.Price},
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Rating: ProductRating{
			Rate:  p.Rating.Rate,
			Count: p.Rating.Count,
		},
		Favorite: favorite,
	}
}

func listingFromDomain(v domain.ListingView) ListingResponse {
	res := ListingResponse{
		Status: v.Status.String(),
		Criteria: Criteria{
			Search:            v.Criteria.Search,
			Category:          v.Criteria.Category,
			ShowFavoritesOnly: v.Criteria.ShowFavoritesOnly,
			SortBy:            string(v.Criteria.SortBy),
		},
		Categories: v.Categories,
		Total:      v.Total,
		Count:      len(v.Products),
		Products:   make([]Product, 0, len(v.Products)),
	}
	if res.Categories == nil {
		res.Categories = []string{}
	}
	if v.Err != nil {
		res.Error = loadErrorMessage
	}
	for _, p := range v.Products {
		res.Products = append(res.Products, productFromDomain(p, v.Favorites.Has(p.ID)))
	}
	return res
}
