// Package customers manages the buyers quotations are addressed to.
package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/odyssey-erp/quotedesk/internal/rbac"
	"github.com/odyssey-erp/quotedesk/internal/shared"
)

type Service struct {
	repo  Repository
	audit shared.AuditRecorder
}

func NewService(repo Repository, audit shared.AuditRecorder) *Service {
	if audit == nil {
		audit = shared.NopAudit{}
	}
	return &Service{repo: repo, audit: audit}
}

// Create is open to any authenticated user so customers can be added while
// drafting a quotation.
func (s *Service) Create(ctx context.Context, actor shared.Actor, req CreateCustomerRequest) (*Customer, error) {
	if err := rbac.Authorize(actor, rbac.OpCustomerCreate); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: customer name is required", shared.ErrValidation)
	}
	createdBy := actor.ID
	customer := Customer{
		Name:      name,
		Email:     trimmed(req.Email),
		Phone:     trimmed(req.Phone),
		Address:   trimmed(req.Address),
		CreatedBy: &createdBy,
	}
	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, actor shared.Actor, id int64, req UpdateCustomerRequest) (*Customer, error) {
	if err := rbac.Authorize(actor, rbac.OpCustomerWrite); err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: customer name is required", shared.ErrValidation)
		}
		updates["name"] = name
	}
	if req.Email != nil {
		updates["email"] = trimmed(req.Email)
	}
	if req.Phone != nil {
		updates["phone"] = trimmed(req.Phone)
	}
	if req.Address != nil {
		updates["address"] = trimmed(req.Address)
	}

	if len(updates) == 0 {
		return s.repo.Get(ctx, id)
	}

	customer, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, fmt.Errorf("update customer %d: %w", id, err)
	}
	return customer, nil
}

// Delete removes the customer. Quotations keep their customer snapshot.
func (s *Service) Delete(ctx context.Context, actor shared.Actor, id int64) error {
	if err := rbac.Authorize(actor, rbac.OpCustomerWrite); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   "customer:delete",
		Entity:   "customer",
		EntityID: fmt.Sprint(id),
	})
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	return s.repo.List(ctx, req)
}

// trimmed returns nil for absent or blank values.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
