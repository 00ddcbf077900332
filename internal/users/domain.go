package users

import (
	"time"

	"github.com/odyssey-erp/quotedesk/internal/shared"
)

// UserProfile is the public view of an account.
type UserProfile struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      shared.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// CreateUserRequest registers a new account.
type CreateUserRequest struct {
	Email    string      `json:"email" validate:"required,email,max=254"`
	Name     string      `json:"name" validate:"required,max=200"`
	Password string      `json:"password" validate:"required,min=8,max=72"`
	Role     shared.Role `json:"role" validate:"omitempty,oneof=admin user"`
}

type SetRoleRequest struct {
	Role shared.Role `json:"role" validate:"required,oneof=admin user"`
}
