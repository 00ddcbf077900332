// Package quotations builds, prices and approves customer quotations.
package quotations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/quotedesk/internal/company"
	"github.com/odyssey-erp/quotedesk/internal/customers"
	"github.com/odyssey-erp/quotedesk/internal/pricing"
	"github.com/odyssey-erp/quotedesk/internal/rbac"
	"github.com/odyssey-erp/quotedesk/internal/shared"
)

const idempotencyModule = "quotations"

// CompanySource supplies the issuing-company details copied into new quotations.
type CompanySource interface {
	Get(ctx context.Context) (company.Settings, error)
}

// CustomerSource resolves a referenced customer record.
type CustomerSource interface {
	Get(ctx context.Context, id int64) (*customers.Customer, error)
}

// Observer is notified of lifecycle events, e.g. for metrics.
type Observer interface {
	QuotationCreated()
	QuotationTransitioned(status string)
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	TaxRate  decimal.Decimal
	Catalog  CatalogSource
	Observer Observer
	Now      func() time.Time
}

type Service struct {
	repo        Repository
	engine      pricing.Engine
	company     CompanySource
	customers   CustomerSource
	catalog     CatalogSource
	audit       shared.AuditRecorder
	idempotency shared.IdempotencyGuard
	observer    Observer
	now         func() time.Time
}

// NewService builds Service. customers, audit and idem may be nil.
func NewService(repo Repository, companySrc CompanySource, customerSrc CustomerSource, audit shared.AuditRecorder, idem shared.IdempotencyGuard, cfg ServiceConfig) *Service {
	if audit == nil {
		audit = shared.NopAudit{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:        repo,
		engine:      pricing.NewEngine(cfg.TaxRate),
		company:     companySrc,
		customers:   customerSrc,
		catalog:     cfg.Catalog,
		audit:       audit,
		idempotency: idem,
		observer:    cfg.Observer,
		now:         now,
	}
}

// Create saves a new Pending quotation. A non-empty idempotencyKey makes a
// retried submission fail with shared.ErrIdempotencyConflict instead of
// creating a duplicate.
func (s *Service) Create(ctx context.Context, actor shared.Actor, req SaveQuotationRequest, idempotencyKey string) (*Quotation, error) {
	if err := rbac.Authorize(actor, rbac.OpQuotationCreate); err != nil {
		return nil, err
	}
	items, err := s.buildItems(ctx, req.Items, true)
	if err != nil {
		return nil, err
	}
	customer, err := s.resolveCustomer(ctx, req.Customer)
	if err != nil {
		return nil, err
	}
	settings, err := s.company.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load company details: %w", err)
	}

	if idempotencyKey != "" && s.idempotency != nil {
		key := fmt.Sprintf("%d:%s", actor.ID, idempotencyKey)
		if err := s.idempotency.CheckAndInsert(ctx, key, idempotencyModule); err != nil {
			return nil, err
		}
		defer func() {
			if err != nil {
				_ = s.idempotency.Delete(ctx, key, idempotencyModule)
			}
		}()
	}

	quotation := Quotation{
		Customer: customer,
		Items:    items,
		Status:   StatusPending,
		UserID:   actor.ID,
		Company:  snapshotOf(settings),
	}
	quotation.applyTotals(s.engine.Totals(lineTotals(items)))

	var created *Quotation
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		number, err := repo.GenerateNumber(ctx, s.now())
		if err != nil {
			return fmt.Errorf("generate quote number: %w", err)
		}
		quotation.QuoteNumber = number
		created, err = repo.Create(ctx, quotation)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}

	if s.observer != nil {
		s.observer.QuotationCreated()
	}
	return created, nil
}

// Replace swaps customer, items and totals of a Pending quotation. Only the
// owner or an admin may do so.
func (s *Service) Replace(ctx context.Context, actor shared.Actor, id int64, req SaveQuotationRequest) (*Quotation, error) {
	if err := rbac.Authorize(actor, rbac.OpQuotationCreate); err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	if existing.UserID != actor.ID && !actor.IsAdmin() {
		return nil, fmt.Errorf("quotation %d belongs to another user: %w", id, shared.ErrForbidden)
	}
	if existing.Status != StatusPending {
		return nil, fmt.Errorf("%w: only Pending quotations can be edited", ErrInvalidTransition)
	}

	items, err := s.buildItems(ctx, req.Items, true)
	if err != nil {
		return nil, err
	}
	customer, err := s.resolveCustomer(ctx, req.Customer)
	if err != nil {
		return nil, err
	}

	replacement := *existing
	replacement.Customer = customer
	replacement.Items = items
	replacement.applyTotals(s.engine.Totals(lineTotals(items)))

	updated, err := s.repo.Replace(ctx, id, replacement)
	if err != nil {
		return nil, fmt.Errorf("replace quotation %d: %w", id, err)
	}
	return updated, nil
}

// Approve moves a Pending quotation to Approved. Only the status and the
// decision stamp change.
func (s *Service) Approve(ctx context.Context, actor shared.Actor, id int64) (*Quotation, error) {
	return s.transition(ctx, actor, id, StatusApproved, nil)
}

// Reject moves a Pending quotation to Rejected with an optional reason.
func (s *Service) Reject(ctx context.Context, actor shared.Actor, id int64, reason string) (*Quotation, error) {
	var r *string
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		r = &trimmed
	}
	return s.transition(ctx, actor, id, StatusRejected, r)
}

func (s *Service) transition(ctx context.Context, actor shared.Actor, id int64, target Status, reason *string) (*Quotation, error) {
	if err := rbac.Authorize(actor, rbac.OpQuotationTransition); err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	if err := Transition(actor, existing.Status, target); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, target, actor.ID, reason)
	if err != nil {
		return nil, fmt.Errorf("%s quotation %d: %w", strings.ToLower(string(target)), id, err)
	}

	if s.observer != nil {
		s.observer.QuotationTransitioned(string(target))
	}
	meta := map[string]any{"from": string(existing.Status), "to": string(target)}
	if reason != nil {
		meta["reason"] = *reason
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   "quotation:" + strings.ToLower(string(target)),
		Entity:   "quotation",
		EntityID: fmt.Sprint(id),
		Meta:     meta,
	})
	return updated, nil
}

// Delete removes a quotation in any status. Admin only.
func (s *Service) Delete(ctx context.Context, actor shared.Actor, id int64) error {
	if err := rbac.Authorize(actor, rbac.OpQuotationDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete quotation %d: %w", id, err)
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   "quotation:delete",
		Entity:   "quotation",
		EntityID: fmt.Sprint(id),
	})
	return nil
}

func (s *Service) Get(ctx context.Context, actor shared.Actor, id int64) (*Quotation, error) {
	if err := rbac.Authorize(actor, rbac.OpQuotationRead); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, actor shared.Actor, filters ListFilters) ([]Quotation, int, error) {
	if err := rbac.Authorize(actor, rbac.OpQuotationRead); err != nil {
		return nil, 0, err
	}
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, filters.Status)
	}
	return s.repo.List(ctx, filters)
}

// Preview prices a draft without saving it. An empty draft prices to zero.
func (s *Service) Preview(ctx context.Context, actor shared.Actor, req PreviewRequest) (PreviewResponse, error) {
	if err := rbac.Authorize(actor, rbac.OpQuotationCreate); err != nil {
		return PreviewResponse{}, err
	}
	items, err := s.buildItems(ctx, req.Items, false)
	if err != nil {
		return PreviewResponse{}, err
	}
	totals := s.engine.Totals(lineTotals(items))
	return PreviewResponse{Items: items, GSTRate: totals.Rate, Subtotal: totals.Subtotal, GST: totals.Tax, Total: totals.Total}, nil
}

// buildItems turns client input into priced line items. Lines that name a
// catalog record are seeded from that record; the client only supplies
// quantity, area, customization and discount on top.
func (s *Service) buildItems(ctx context.Context, inputs []LineItemInput, requireItems bool) ([]LineItem, error) {
	if requireItems && len(inputs) == 0 {
		return nil, fmt.Errorf("%w: a quotation needs at least one item", shared.ErrValidation)
	}
	items := make([]LineItem, 0, len(inputs))
	for i, in := range inputs {
		item, err := s.lineFromInput(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) lineFromInput(ctx context.Context, in LineItemInput) (LineItem, error) {
	if in.Kind != KindProduct && in.Kind != KindSpare {
		return LineItem{}, fmt.Errorf("%w: unknown item type %q", shared.ErrValidation, in.Kind)
	}
	if in.Quantity < 1 {
		return LineItem{}, fmt.Errorf("%w: %w", shared.ErrValidation, pricing.ErrInvalidQuantity)
	}

	var (
		item LineItem
		err  error
	)
	if in.CatalogID > 0 {
		item, err = s.catalogLine(ctx, in)
	} else {
		item, err = freeTextLine(in)
	}
	if err != nil {
		return LineItem{}, err
	}

	if in.Area != nil {
		item.Area = in.Area
	}
	if in.Customization != nil {
		item.Customization = in.Customization
	}
	switch {
	case in.DiscountPercent != nil:
		item.ApplyDiscount(*in.DiscountPercent)
	case in.DiscountedPrice != nil:
		item.SetDiscountedPrice(*in.DiscountedPrice)
	}
	return item, nil
}

// catalogLine loads the referenced record. Name and list price always come
// from the catalog.
func (s *Service) catalogLine(ctx context.Context, in LineItemInput) (LineItem, error) {
	if s.catalog == nil {
		return LineItem{}, fmt.Errorf("quotations: no catalog to resolve %s %d", in.Kind, in.CatalogID)
	}
	switch in.Kind {
	case KindProduct:
		p, err := s.catalog.Product(ctx, in.CatalogID)
		if err != nil {
			return LineItem{}, catalogErr(err, in)
		}
		item := NewLineFromProduct(p, in.Quantity)
		if in.Description != nil {
			item.Description = in.Description
		}
		return item, nil
	default:
		sp, err := s.catalog.Spare(ctx, in.CatalogID)
		if err != nil {
			return LineItem{}, catalogErr(err, in)
		}
		if in.ParentProductID != nil {
			if _, err := s.catalog.Product(ctx, *in.ParentProductID); err != nil {
				return LineItem{}, catalogErr(err, LineItemInput{Kind: KindProduct, CatalogID: *in.ParentProductID})
			}
		}
		item := NewLineFromSpare(sp, in.Quantity, in.ParentProductID)
		item.Description = in.Description
		return item, nil
	}
}

func catalogErr(err error, in LineItemInput) error {
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("%w: %s %d does not exist", shared.ErrValidation, in.Kind, in.CatalogID)
	}
	return fmt.Errorf("load %s %d: %w", in.Kind, in.CatalogID, err)
}

// freeTextLine builds a line that has no catalog record behind it.
func freeTextLine(in LineItemInput) (LineItem, error) {
	if strings.TrimSpace(in.Name) == "" {
		return LineItem{}, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	if in.Price.IsNegative() {
		return LineItem{}, fmt.Errorf("%w: price must not be negative", shared.ErrValidation)
	}
	item := LineItem{
		Name:            strings.TrimSpace(in.Name),
		ModelNumber:     in.ModelNumber,
		Price:           pricing.Round2(in.Price),
		DiscountedPrice: pricing.Round2(in.Price),
		Image:           in.Image,
		Kind:            in.Kind,
		Description:     in.Description,
		ParentProductID: in.ParentProductID,
	}
	item.SetQuantity(in.Quantity)
	return item, nil
}

// resolveCustomer builds the snapshot, filling blanks from the referenced
// customer record when an id is given.
func (s *Service) resolveCustomer(ctx context.Context, in CustomerInput) (CustomerSnapshot, error) {
	snap := CustomerSnapshot{
		ID:      in.ID,
		Name:    strings.TrimSpace(in.Name),
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
	}
	if in.ID != nil && s.customers != nil {
		c, err := s.customers.Get(ctx, *in.ID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return CustomerSnapshot{}, fmt.Errorf("%w: customer %d does not exist", shared.ErrValidation, *in.ID)
			}
			return CustomerSnapshot{}, fmt.Errorf("verify customer: %w", err)
		}
		if snap.Name == "" {
			snap.Name = c.Name
		}
		if snap.Email == nil {
			snap.Email = c.Email
		}
		if snap.Phone == nil {
			snap.Phone = c.Phone
		}
		if snap.Address == nil {
			snap.Address = c.Address
		}
	}
	if snap.Name == "" {
		return CustomerSnapshot{}, fmt.Errorf("%w: customer name is required", shared.ErrValidation)
	}
	return snap, nil
}
