package rbac

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/quotedesk/internal/shared"
)

var adminOnly = map[Operation]bool{
	OpCatalogWrite:        true,
	OpStockAdjust:         true,
	OpCustomerWrite:       true,
	OpQuotationTransition: true,
	OpQuotationDelete:     true,
	OpUserRoleWrite:       true,
	OpCompanyWrite:        true,
}

var allOperations = []Operation{
	OpCatalogRead, OpCatalogWrite, OpStockAdjust, OpCustomerCreate, OpCustomerWrite,
	OpQuotationCreate, OpQuotationRead, OpQuotationTransition, OpQuotationDelete,
	OpUserRoleWrite, OpCompanyWrite,
}

// Allowed reports whether actor may perform op. It depends only on its inputs.
func Allowed(actor shared.Actor, op Operation) bool {
	if actor.ID == 0 || !actor.Role.Valid() {
		return false
	}
	if adminOnly[op] {
		return actor.IsAdmin()
	}
	return true
}

// Authorize returns shared.ErrForbidden unless actor may perform op.
func Authorize(actor shared.Actor, op Operation) error {
	if !Allowed(actor, op) {
		return fmt.Errorf("%s: %w", op, shared.ErrForbidden)
	}
	return nil
}

// Capabilities lists the operations actor may perform, sorted by name.
func Capabilities(actor shared.Actor) []Operation {
	out := make([]Operation, 0, len(allOperations))
	for _, op := range allOperations {
		if Allowed(actor, op) {
			out = append(out, op)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Service loads actors from the users table.
type Service struct {
	pool *pgxpool.Pool
}

// NewService constructs a Service backed by the provided pool.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// ActorByID returns the active user as an Actor.
func (s *Service) ActorByID(ctx context.Context, id int64) (shared.Actor, error) {
	var actor shared.Actor
	var role string
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, role FROM users WHERE id = $1 AND is_active`, id,
	).Scan(&actor.ID, &actor.Name, &role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.Actor{}, fmt.Errorf("rbac: user %d: %w", id, shared.ErrNotFound)
		}
		return shared.Actor{}, err
	}
	actor.Role = shared.Role(role)
	return actor, nil
}

var _ ActorSource = (*Service)(nil)
