// Package products manages catalog products.
package products

import (
	"context"
	"fmt"

	"github.com/odyssey-erp/quotedesk/internal/catalog"
	"github.com/odyssey-erp/quotedesk/internal/rbac"
	"github.com/odyssey-erp/quotedesk/internal/shared"
)

// Service provides product operations.
type Service struct {
	repo  Repository
	audit shared.AuditRecorder
}

// NewService constructs a Service.
func NewService(repo Repository, audit shared.AuditRecorder) *Service {
	if audit == nil {
		audit = shared.NopAudit{}
	}
	return &Service{repo: repo, audit: audit}
}

func (s *Service) List(ctx context.Context, filters catalog.ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: invalid product id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor shared.Actor, req ProductRequest) (Product, error) {
	if err := rbac.Authorize(actor, rbac.OpCatalogWrite); err != nil {
		return Product{}, err
	}
	if err := validate(req); err != nil {
		return Product{}, err
	}
	p, err := s.repo.Create(ctx, toProduct(req))
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, actor shared.Actor, id int64, req ProductRequest) (Product, error) {
	if err := rbac.Authorize(actor, rbac.OpCatalogWrite); err != nil {
		return Product{}, err
	}
	if err := validate(req); err != nil {
		return Product{}, err
	}
	p, err := s.repo.Update(ctx, id, toProduct(req))
	if err != nil {
		return Product{}, fmt.Errorf("update product %d: %w", id, err)
	}
	return p, nil
}

// Delete removes a product. Quotations keep their item snapshots.
func (s *Service) Delete(ctx context.Context, actor shared.Actor, id int64) error {
	if err := rbac.Authorize(actor, rbac.OpCatalogWrite); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   "product:delete",
		Entity:   "product",
		EntityID: fmt.Sprint(id),
	})
	return nil
}
