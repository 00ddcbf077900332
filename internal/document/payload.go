// Package document turns stored quotations into printable HTML and PDF.
package document

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/quotedesk/internal/amountwords"
	"github.com/odyssey-erp/quotedesk/internal/quotations"
)

// Line is one printed row.
type Line struct {
	Index           int
	Name            string
	ModelNumber     string
	Area            string
	Description     string
	Customization   string
	Image           string
	Spare           bool
	ParentName      string
	Quantity        int
	Price           string
	DiscountedPrice string
	DiscountPercent string
	Total           string
}

// Payload is everything the quotation template needs, already formatted.
type Payload struct {
	QuoteNumber   string
	Date          string
	Status        string
	Customer      quotations.CustomerSnapshot
	Company       quotations.CompanySnapshot
	Lines         []Line
	Subtotal      string
	TaxLabel      string
	GST           string
	Total         string
	AmountInWords string
}

// Build derives the print fields of q. The discount percentage is computed
// here and never stored. The tax label uses the rate stored on q; taxRate
// only labels quotations saved before the rate was recorded.
func Build(q *quotations.Quotation, taxRate decimal.Decimal, loc *time.Location) Payload {
	if q.TaxRate.IsPositive() {
		taxRate = q.TaxRate
	}
	p := Payload{
		QuoteNumber:   q.QuoteNumber,
		Date:          Date(q.CreatedAt, loc),
		Status:        string(q.Status),
		Customer:      q.Customer,
		Company:       q.Company,
		Subtotal:      Money(q.Subtotal),
		TaxLabel:      fmt.Sprintf("GST (%s%%)", taxRate.Mul(decimal.NewFromInt(100)).String()),
		GST:           Money(q.GST),
		Total:         Money(q.Total),
		AmountInWords: amountwords.Rupees(q.Total),
	}

	products := make(map[int64]string)
	for _, item := range q.Items {
		if item.Kind == quotations.KindProduct {
			products[item.CatalogID] = item.Name
		}
	}

	p.Lines = make([]Line, 0, len(q.Items))
	for i, item := range q.Items {
		line := Line{
			Index:           i + 1,
			Name:            item.Name,
			ModelNumber:     deref(item.ModelNumber),
			Area:            deref(item.Area),
			Description:     deref(item.Description),
			Customization:   deref(item.Customization),
			Image:           deref(item.Image),
			Spare:           item.Kind == quotations.KindSpare,
			Quantity:        item.Quantity,
			Price:           Money(item.Price),
			DiscountedPrice: Money(item.DiscountedPrice),
			DiscountPercent: item.DiscountPercent().String() + "%",
			Total:           Money(item.Total),
		}
		if item.ParentProductID != nil {
			line.ParentName = products[*item.ParentProductID]
		}
		p.Lines = append(p.Lines, line)
	}
	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
