package spares

import "github.com/shopspring/decimal"

// SpareRequest is the body of create and update calls. Stock is only
// honoured on create; later changes go through AdjustStock.
type SpareRequest struct {
	Name  string          `json:"name" validate:"required,max=200"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock" validate:"gte=0"`
}

// AdjustStockRequest carries a signed stock delta.
type AdjustStockRequest struct {
	Delta int    `json:"delta" validate:"required"`
	Note  string `json:"note" validate:"max=500"`
}
