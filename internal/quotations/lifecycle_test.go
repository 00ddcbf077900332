package quotations

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odyssey-erp/quotedesk/internal/shared"
)

func TestTransition(t *testing.T) {
	admin := shared.Actor{ID: 1, Role: shared.RoleAdmin}
	user := shared.Actor{ID: 2, Role: shared.RoleUser}

	cases := []struct {
		name    string
		actor   shared.Actor
		from    Status
		to      Status
		wantErr error
	}{
		{"admin approves pending", admin, StatusPending, StatusApproved, nil},
		{"admin rejects pending", admin, StatusPending, StatusRejected, nil},
		{"user approves pending", user, StatusPending, StatusApproved, shared.ErrForbidden},
		{"user rejects pending", user, StatusPending, StatusRejected, shared.ErrForbidden},
		{"anonymous approves pending", shared.Actor{}, StatusPending, StatusApproved, shared.ErrForbidden},
		{"user on approved", user, StatusApproved, StatusRejected, shared.ErrForbidden},
		{"approved to rejected", admin, StatusApproved, StatusRejected, ErrInvalidTransition},
		{"rejected to approved", admin, StatusRejected, StatusApproved, ErrInvalidTransition},
		{"approved to pending", admin, StatusApproved, StatusPending, ErrInvalidTransition},
		{"pending to pending", admin, StatusPending, StatusPending, ErrInvalidTransition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Transition(tc.actor, tc.from, tc.to)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestAllowedTransitions(t *testing.T) {
	assert.Equal(t, []Status{StatusApproved, StatusRejected}, AllowedTransitions(StatusPending))
	assert.Empty(t, AllowedTransitions(StatusApproved))
	assert.Empty(t, AllowedTransitions(StatusRejected))

	// Callers cannot mutate the table.
	next := AllowedTransitions(StatusPending)
	next[0] = StatusRejected
	assert.Equal(t, StatusApproved, AllowedTransitions(StatusPending)[0])
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.False(t, Status("Draft").Valid())
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}
