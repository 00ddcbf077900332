// Package pricing derives quotation money values from line items.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the GST rate applied to quotation subtotals.
var DefaultTaxRate = decimal.RequireFromString("0.18")

// ErrInvalidQuantity is returned when a line quantity is below one.
var ErrInvalidQuantity = errors.New("pricing: quantity must be at least 1")

var hundred = decimal.NewFromInt(100)

// Totals groups the derived money values of a quotation and the rate the
// tax was computed at.
type Totals struct {
	Rate     decimal.Decimal `json:"gst_rate"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"gst"`
	Total    decimal.Decimal `json:"total"`
}

// Engine computes quotation totals for a fixed tax rate.
type Engine struct {
	TaxRate decimal.Decimal
}

// NewEngine returns an Engine. A zero or negative rate falls back to DefaultTaxRate.
func NewEngine(taxRate decimal.Decimal) Engine {
	if !taxRate.IsPositive() {
		taxRate = DefaultTaxRate
	}
	return Engine{TaxRate: taxRate}
}

// Totals sums line totals and applies tax. The subtotal is not re-rounded;
// only the tax is rounded to two places.
func (e Engine) Totals(lineTotals []decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, t := range lineTotals {
		subtotal = subtotal.Add(t)
	}
	rate := e.rate()
	tax := Round2(subtotal.Mul(rate))
	return Totals{
		Rate:     rate,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

func (e Engine) rate() decimal.Decimal {
	if e.TaxRate.IsZero() {
		return DefaultTaxRate
	}
	return e.TaxRate
}

// LineTotal returns discountedPrice × quantity.
func LineTotal(quantity int, discountedPrice decimal.Decimal) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, ErrInvalidQuantity
	}
	return discountedPrice.Mul(decimal.NewFromInt(int64(quantity))), nil
}

// ClampQuantity raises quantities below one to one.
func ClampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

// ApplyDiscountPercentage returns the unit price after a percentage discount,
// rounded to two places and clamped to [0, listPrice].
func ApplyDiscountPercentage(listPrice, percentage decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(percentage.Div(hundred))
	price := Round2(listPrice.Mul(factor))
	if price.IsNegative() {
		return decimal.Zero
	}
	if price.GreaterThan(listPrice) {
		return listPrice
	}
	return price
}

// DiscountPercent is the whole-number discount shown on printed documents.
// It is never persisted.
func DiscountPercent(listPrice, discountedPrice decimal.Decimal) decimal.Decimal {
	if !listPrice.IsPositive() {
		return decimal.Zero
	}
	ratio := decimal.NewFromInt(1).Sub(discountedPrice.Div(listPrice))
	return ratio.Mul(hundred).Round(0)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
