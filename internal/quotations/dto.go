package quotations

import "github.com/shopspring/decimal"

// LineItemInput is a draft line as submitted by a client. Totals are never
// accepted from the client; they are recomputed from quantity and price.
// With a CatalogID the name, model and list price come from the catalog
// record and the submitted ones are ignored. When DiscountPercent is
// present it wins over DiscountedPrice.
type LineItemInput struct {
	CatalogID       int64            `json:"id" validate:"gte=0"`
	Kind            ItemKind         `json:"type" validate:"required,oneof=product spare"`
	Name            string           `json:"name" validate:"required_without=CatalogID,max=300"`
	ModelNumber     *string          `json:"modelNumber,omitempty" validate:"omitempty,max=100"`
	Area            *string          `json:"area,omitempty" validate:"omitempty,max=100"`
	Quantity        int              `json:"quantity" validate:"gte=1"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discountedPrice,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discountPercent,omitempty"`
	Image           *string          `json:"image,omitempty"`
	Customization   *string          `json:"customization,omitempty" validate:"omitempty,max=1000"`
	Description     *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	ParentProductID *int64           `json:"parentProductId,omitempty" validate:"omitempty,gt=0"`
}

type CustomerInput struct {
	ID      *int64  `json:"id,omitempty" validate:"omitempty,gt=0"`
	Name    string  `json:"name" validate:"max=200"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// SaveQuotationRequest is the body of create and full-replacement calls.
type SaveQuotationRequest struct {
	Customer CustomerInput   `json:"customer"`
	Items    []LineItemInput `json:"items" validate:"required,min=1,dive"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// PreviewRequest prices a draft without saving it.
type PreviewRequest struct {
	Items []LineItemInput `json:"items" validate:"dive"`
}

type PreviewResponse struct {
	Items    []LineItem      `json:"items"`
	GSTRate  decimal.Decimal `json:"gst_rate"`
	Subtotal decimal.Decimal `json:"subtotal"`
	GST      decimal.Decimal `json:"gst"`
	Total    decimal.Decimal `json:"total"`
}
