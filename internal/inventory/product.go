package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stock ledger entry. AvailableQuantity is never negative.
type Product struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	AvailableQuantity int             `json:"availableQuantity"`
	Price             decimal.Decimal `json:"price"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// NewProduct carries the fields accepted when a product is created.
type NewProduct struct {
	Name              string          `json:"name" validate:"notblank"`
	Description       string          `json:"description" validate:"notblank"`
	AvailableQuantity int             `json:"availableQuantity"`
	Price             decimal.Decimal `json:"price"`
}

// ProductUpdate replaces only the fields that are set. Quantity is changed
// through Ledger.SetQuantity.
type ProductUpdate struct {
	Name        *string          `json:"name" validate:"omitnil,notblank"`
	Description *string          `json:"description" validate:"omitnil,notblank"`
	Price       *decimal.Decimal `json:"price"`
}

func (u ProductUpdate) apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
}
