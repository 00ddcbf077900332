package products

import (
	"fmt"
	"strings"

	"github.com/odyssey-erp/quotedesk/internal/shared"
)

func validate(req ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: product name is required", shared.ErrValidation)
	}
	if req.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", shared.ErrValidation)
	}
	if req.DiscountedPrice != nil && req.DiscountedPrice.IsNegative() {
		return fmt.Errorf("%w: discounted price must not be negative", shared.ErrValidation)
	}
	return nil
}

func toProduct(req ProductRequest) Product {
	p := Product{
		Name:           strings.TrimSpace(req.Name),
		ModelNumber:    strings.TrimSpace(req.ModelNumber),
		Category:       strings.TrimSpace(req.Category),
		Price:          req.Price.Round(2),
		Image:          req.Image,
		Description:    req.Description,
		Customizations: req.Customizations,
	}
	if req.DiscountedPrice != nil {
		p.DiscountedPrice.Decimal = req.DiscountedPrice.Round(2)
		p.DiscountedPrice.Valid = true
	}
	if p.Customizations == nil {
		p.Customizations = []string{}
	}
	return p
}
