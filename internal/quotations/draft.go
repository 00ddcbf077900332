package quotations

import (
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/quotedesk/internal/catalog/products"
	"github.com/odyssey-erp/quotedesk/internal/catalog/spares"
	"github.com/odyssey-erp/quotedesk/internal/pricing"
)

// NewLineFromProduct converts a catalog product into a draft line. The
// product's discounted price, when set, seeds the line's unit price.
func NewLineFromProduct(p products.Product, quantity int) LineItem {
	l := LineItem{
		CatalogID:       p.ID,
		Name:            p.Name,
		Price:           p.Price,
		DiscountedPrice: p.EffectivePrice(),
		Image:           p.Image,
		Kind:            KindProduct,
		Description:     p.Description,
	}
	if p.ModelNumber != "" {
		model := p.ModelNumber
		l.ModelNumber = &model
	}
	l.SetQuantity(quantity)
	return l
}

// NewLineFromSpare converts a spare part into a draft line, optionally
// attached to the product it belongs to.
func NewLineFromSpare(s spares.Spare, quantity int, parentProductID *int64) LineItem {
	l := LineItem{
		CatalogID:       s.ID,
		Name:            s.Name,
		Price:           s.Price,
		DiscountedPrice: s.Price,
		Kind:            KindSpare,
		ParentProductID: parentProductID,
	}
	l.SetQuantity(quantity)
	return l
}

// SetQuantity clamps quantity to at least one and recomputes the total.
func (l *LineItem) SetQuantity(quantity int) {
	l.Quantity = pricing.ClampQuantity(quantity)
	l.recompute()
}

// SetDiscountedPrice overrides the unit price. Negative prices become zero.
func (l *LineItem) SetDiscountedPrice(price decimal.Decimal) {
	if price.IsNegative() {
		price = decimal.Zero
	}
	l.DiscountedPrice = pricing.Round2(price)
	l.recompute()
}

// ApplyDiscount derives the unit price from a percentage off the list price.
func (l *LineItem) ApplyDiscount(percentage decimal.Decimal) {
	l.DiscountedPrice = pricing.ApplyDiscountPercentage(l.Price, percentage)
	l.recompute()
}

// DiscountPercent is the whole-number discount for display.
func (l LineItem) DiscountPercent() decimal.Decimal {
	return pricing.DiscountPercent(l.Price, l.DiscountedPrice)
}

func (l *LineItem) recompute() {
	total, err := pricing.LineTotal(l.Quantity, l.DiscountedPrice)
	if err != nil {
		// Quantity is clamped before every call.
		l.Quantity = 1
		total = l.DiscountedPrice
	}
	l.Total = total
}

func lineTotals(items []LineItem) []decimal.Decimal {
	out := make([]decimal.Decimal, len(items))
	for i, it := range items {
		out[i] = it.Total
	}
	return out
}
