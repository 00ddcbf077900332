package spares

import (
	"time"

	"github.com/shopspring/decimal"
)

// Spare is a spare part with an on-hand stock count that never goes negative.
type Spare struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
