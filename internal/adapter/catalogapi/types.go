package catalogapi

import (
	"github.com/niksmo/proexplore/internal/core/domain"
	"github.com/shopspring/decimal"
)

type (
	Product struct {
		ID          int             `json:"id"`
		Title       string          `json:"title"`
		Price       decimal.Decimal `json:"price"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		Image       string          `json:"image"`
		Rating      ProductRating   `json:"rating"`
	}

	ProductRating struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	}
)

func (p Product) toDomain() domain.Product {
	return domain.Product{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Rating: domain.ProductRating{
			Rate:  p.Rating.Rate,
			Count: p.Rating.Count,
		},
	}
}
