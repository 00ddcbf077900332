package quotations

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/quotedesk/internal/company"
	"github.com/odyssey-erp/quotedesk/internal/pricing"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ItemKind tags the catalog record a line item was drawn from.
type ItemKind string

const (
	KindProduct ItemKind = "product"
	KindSpare   ItemKind = "spare"
)

// LineItem is one catalog record priced into a quotation. Total always
// equals DiscountedPrice × Quantity; the mutators in draft.go keep it so.
type LineItem struct {
	CatalogID       int64           `json:"id"`
	Name            string          `json:"name"`
	ModelNumber     *string         `json:"modelNumber,omitempty"`
	Area            *string         `json:"area,omitempty"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
	Total           decimal.Decimal `json:"total"`
	Image           *string         `json:"image,omitempty"`
	Kind            ItemKind        `json:"type"`
	Customization   *string         `json:"customization,omitempty"`
	Description     *string         `json:"description,omitempty"`
	ParentProductID *int64          `json:"parentProductId,omitempty"`
}

// CustomerSnapshot is the customer as it was when the quotation was saved.
type CustomerSnapshot struct {
	ID      *int64  `json:"id,omitempty"`
	Name    string  `json:"name"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// CompanySnapshot is a by-value copy of the issuing company's details.
// Later edits to company settings never reach saved quotations.
type CompanySnapshot struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	GSTIN         string `json:"gstin"`
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	Branch        string `json:"branch"`
}

func snapshotOf(s company.Settings) CompanySnapshot {
	return CompanySnapshot{
		Name:          s.Name,
		Address:       s.Address,
		Phone:         s.Phone,
		Email:         s.Email,
		GSTIN:         s.GSTIN,
		BankName:      s.BankName,
		AccountName:   s.AccountName,
		AccountNumber: s.AccountNumber,
		IFSC:          s.IFSC,
		Branch:        s.Branch,
	}
}

type Quotation struct {
	ID              int64            `json:"id"`
	QuoteNumber     string           `json:"quote_number"`
	Customer        CustomerSnapshot `json:"customer"`
	Items           []LineItem       `json:"items"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	TaxRate         decimal.Decimal  `json:"gst_rate"`
	GST             decimal.Decimal  `json:"gst"`
	Total           decimal.Decimal  `json:"total"`
	Status          Status           `json:"status"`
	UserID          int64            `json:"user_id"`
	DecidedBy       *int64           `json:"decided_by,omitempty"`
	DecidedAt       *time.Time       `json:"decided_at,omitempty"`
	RejectionReason *string          `json:"rejection_reason,omitempty"`
	Company         CompanySnapshot  `json:"company_details"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// applyTotals also records the rate so later GST_RATE changes never
// relabel a stored quotation.
func (q *Quotation) applyTotals(t pricing.Totals) {
	q.TaxRate = t.Rate
	q.Subtotal = t.Subtotal
	q.GST = t.Tax
	q.Total = t.Total
}

// ListFilters narrows a quotation listing. Zero values mean no filter.
type ListFilters struct {
	Status     Status
	CustomerID int64
	OwnerID    int64
	Search     string
	From       *time.Time
	To         *time.Time
	Page       int
	PerPage    int
}
