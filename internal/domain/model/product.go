package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type ProductCategory struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Product is an insurance product sold by unit. It is read-only to the purchase flow.
type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	CategoryID  int64            `json:"categoryId"`
	Category    *ProductCategory `json:"category,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func (p *Product) IsZero() bool { return p == nil || p.ID == 0 }

// TotalFor returns price × quantity rounded to cents.
func (p *Product) TotalFor(quantity int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// MarshalJSON writes Price with two fraction digits.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Price string `json:"price"`
	}{product(p), p.Price.StringFixed(2)})
}
