package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Archived products stay in the table so that
// historical order item snapshots keep a valid product reference; they are
// excluded from public listings and from new order resolution.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	ImageURL    *string         `json:"image_url"`
	CostCNY     decimal.Decimal `json:"cost_cny"`
	PriceTWD    int             `json:"price_twd"`
	IsArchived  bool            `json:"is_archived"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description *string         `json:"description"`
	ImageURL    *string         `json:"image_url"`
	CostCNY     decimal.Decimal `json:"cost_cny"`
	PriceTWD    int             `json:"price_twd" binding:"required,gt=0"`
}

// UpdateProductRequest is a partial update; nil fields are left untouched.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"image_url"`
	CostCNY     *decimal.Decimal `json:"cost_cny"`
	PriceTWD    *int             `json:"price_twd"`
}
