// Package spares manages spare parts and their stock counts.
package spares

import (
	"context"
	"fmt"
	"strings"

	"github.com/odyssey-erp/quotedesk/internal/catalog"
	"github.com/odyssey-erp/quotedesk/internal/rbac"
	"github.com/odyssey-erp/quotedesk/internal/shared"
)

// ErrInsufficientStock is returned when a delta would make stock negative.
var ErrInsufficientStock = fmt.Errorf("spares: insufficient stock: %w", shared.ErrConflict)

// StockObserver is notified after every applied stock adjustment.
type StockObserver interface {
	StockAdjusted(delta int)
}

// Service provides spare part operations.
type Service struct {
	repo     Repository
	audit    shared.AuditRecorder
	observer StockObserver
}

// NewService constructs a Service. audit and observer may be nil.
func NewService(repo Repository, audit shared.AuditRecorder, observer StockObserver) *Service {
	if audit == nil {
		audit = shared.NopAudit{}
	}
	return &Service{repo: repo, audit: audit, observer: observer}
}

func (s *Service) List(ctx context.Context, filters catalog.ListFilters) ([]Spare, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Spare, error) {
	if id <= 0 {
		return Spare{}, fmt.Errorf("%w: invalid spare id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor shared.Actor, req SpareRequest) (Spare, error) {
	if err := rbac.Authorize(actor, rbac.OpCatalogWrite); err != nil {
		return Spare{}, err
	}
	spare, err := toSpare(req)
	if err != nil {
		return Spare{}, err
	}
	if req.Stock < 0 {
		return Spare{}, fmt.Errorf("%w: stock must not be negative", shared.ErrValidation)
	}
	spare.Stock = req.Stock
	created, err := s.repo.Create(ctx, spare)
	if err != nil {
		return Spare{}, fmt.Errorf("create spare: %w", err)
	}
	return created, nil
}

// Update changes name and price. The stock field is ignored.
func (s *Service) Update(ctx context.Context, actor shared.Actor, id int64, req SpareRequest) (Spare, error) {
	if err := rbac.Authorize(actor, rbac.OpCatalogWrite); err != nil {
		return Spare{}, err
	}
	spare, err := toSpare(req)
	if err != nil {
		return Spare{}, err
	}
	updated, err := s.repo.Update(ctx, id, spare)
	if err != nil {
		return Spare{}, fmt.Errorf("update spare %d: %w", id, err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, actor shared.Actor, id int64) error {
	if err := rbac.Authorize(actor, rbac.OpCatalogWrite); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete spare %d: %w", id, err)
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   "spare:delete",
		Entity:   "spare",
		EntityID: fmt.Sprint(id),
	})
	return nil
}

// AdjustStock applies a signed delta to the stored count. Deltas commute, so
// concurrent adjustments never lose an update.
func (s *Service) AdjustStock(ctx context.Context, actor shared.Actor, id int64, req AdjustStockRequest) (Spare, error) {
	if err := rbac.Authorize(actor, rbac.OpStockAdjust); err != nil {
		return Spare{}, err
	}
	if req.Delta == 0 {
		return Spare{}, fmt.Errorf("%w: delta must not be zero", shared.ErrValidation)
	}
	spare, err := s.repo.AdjustStock(ctx, id, req.Delta)
	if err != nil {
		return Spare{}, fmt.Errorf("adjust stock of spare %d: %w", id, err)
	}
	if s.observer != nil {
		s.observer.StockAdjusted(req.Delta)
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   "spare:stock_adjust",
		Entity:   "spare",
		EntityID: fmt.Sprint(id),
		Meta: map[string]any{
			"delta": req.Delta,
			"stock": spare.Stock,
			"note":  req.Note,
		},
	})
	return spare, nil
}

func toSpare(req SpareRequest) (Spare, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Spare{}, fmt.Errorf("%w: spare name is required", shared.ErrValidation)
	}
	if req.Price.IsNegative() {
		return Spare{}, fmt.Errorf("%w: price must not be negative", shared.ErrValidation)
	}
	return Spare{Name: name, Price: req.Price.Round(2)}, nil
}
