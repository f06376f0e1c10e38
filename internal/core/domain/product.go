package domain

import "github.com/shopspring/decimal"

type (
	Product struct {
		ID          int
		Title       string
		Price       decimal.Decimal
		Description string
		Category    string
		Image       string
		Rating      ProductRating
	}

	ProductRating struct {
		Rate  float64
		Count int
	}
)
