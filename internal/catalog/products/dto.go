package products

import "github.com/shopspring/decimal"

// ProductRequest is the body of create and update calls.
type ProductRequest struct {
	Name            string           `json:"name" validate:"required,max=200"`
	ModelNumber     string           `json:"model_number" validate:"max=100"`
	Category        string           `json:"category" validate:"max=100"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	Image           *string          `json:"image,omitempty" validate:"omitempty,url"`
	Description     *string          `json:"description,omitempty" validate:"omitempty,max=4000"`
	Customizations  []string         `json:"customizations" validate:"omitempty,max=50,dive,required,max=200"`
}
