package rbac

import (
	"context"

	"github.com/odyssey-erp/quotedesk/internal/shared"
)

// Operation names a role-gated action.
type Operation string

const (
	OpCatalogRead         Operation = "catalog.read"
	OpCatalogWrite        Operation = "catalog.write"
	OpStockAdjust         Operation = "spares.stock.adjust"
	OpCustomerCreate      Operation = "customers.create"
	OpCustomerWrite       Operation = "customers.write"
	OpQuotationCreate     Operation = "quotations.create"
	OpQuotationRead       Operation = "quotations.read"
	OpQuotationTransition Operation = "quotations.transition"
	OpQuotationDelete     Operation = "quotations.delete"
	OpUserRoleWrite       Operation = "users.role.write"
	OpCompanyWrite        Operation = "company.write"
)

// ActorSource resolves a session user id into an Actor.
type ActorSource interface {
	ActorByID(ctx context.Context, id int64) (shared.Actor, error)
}
