package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sellable catalog product.
type Product struct {
	ID              int64               `json:"id"`
	Name            string              `json:"name"`
	ModelNumber     string              `json:"model_number"`
	Category        string              `json:"category"`
	Price           decimal.Decimal     `json:"price"`
	DiscountedPrice decimal.NullDecimal `json:"discounted_price"`
	Image           *string             `json:"image,omitempty"`
	Description     *string             `json:"description,omitempty"`
	Customizations  []string            `json:"customizations"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// EffectivePrice is the discounted price when set, otherwise the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice.Valid {
		return p.DiscountedPrice.Decimal
	}
	return p.Price
}
