// Package company manages the issuing-company details copied into quotations.
package company

import (
	"context"
	"fmt"
	"strings"

	"github.com/odyssey-erp/quotedesk/internal/rbac"
	"github.com/odyssey-erp/quotedesk/internal/shared"
)

// Service exposes company settings operations.
type Service struct {
	repo  Repository
	audit shared.AuditRecorder
}

// NewService constructs a Service. A nil audit recorder discards records.
func NewService(repo Repository, audit shared.AuditRecorder) *Service {
	if audit == nil {
		audit = shared.NopAudit{}
	}
	return &Service{repo: repo, audit: audit}
}

// Get returns the current settings.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	return s.repo.Get(ctx)
}

// Update replaces the settings. Admin only.
func (s *Service) Update(ctx context.Context, actor shared.Actor, req UpdateSettingsRequest) (Settings, error) {
	if err := rbac.Authorize(actor, rbac.OpCompanyWrite); err != nil {
		return Settings{}, fmt.Errorf("update company: %w", err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return Settings{}, fmt.Errorf("%w: company name is required", shared.ErrValidation)
	}
	updated, err := s.repo.Update(ctx, Settings{
		Name:          strings.TrimSpace(req.Name),
		Address:       req.Address,
		Phone:         req.Phone,
		Email:         req.Email,
		GSTIN:         strings.ToUpper(req.GSTIN),
		BankName:      req.BankName,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		IFSC:          strings.ToUpper(req.IFSC),
		Branch:        req.Branch,
	})
	if err != nil {
		return Settings{}, fmt.Errorf("update company: %w", err)
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   "company:update",
		Entity:   "company_settings",
		EntityID: "1",
	})
	return updated, nil
}
