package quotations

import (
	"fmt"

	"github.com/odyssey-erp/quotedesk/internal/rbac"
	"github.com/odyssey-erp/quotedesk/internal/shared"
)

// ErrInvalidTransition is returned for a status change the state machine
// does not offer from the current status.
var ErrInvalidTransition = fmt.Errorf("quotations: invalid status transition: %w", shared.ErrConflict)

var transitions = map[Status][]Status{
	StatusPending: {StatusApproved, StatusRejected},
}

// AllowedTransitions lists the statuses reachable from current.
func AllowedTransitions(current Status) []Status {
	next := transitions[current]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// Transition checks whether actor may move a quotation from current to
// target. It has no side effects; the role check runs first so a
// non-admin learns nothing about the quotation's state.
func Transition(actor shared.Actor, current, target Status) error {
	if err := rbac.Authorize(actor, rbac.OpQuotationTransition); err != nil {
		return err
	}
	for _, s := range transitions[current] {
		if s == target {
			return nil
		}
	}
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current, target)
}
