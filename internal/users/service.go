// Package users manages accounts and their roles.
package users

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/odyssey-erp/quotedesk/internal/rbac"
	"github.com/odyssey-erp/quotedesk/internal/shared"
)

var (
	// ErrSelfDemotion stops an admin from removing their own admin role.
	ErrSelfDemotion = fmt.Errorf("users: admins cannot demote themselves: %w", shared.ErrConflict)
	// ErrEmailTaken is returned when the email already belongs to an account.
	ErrEmailTaken = fmt.Errorf("users: email already registered: %w", shared.ErrConflict)
)

// Service handles user business logic.
type Service struct {
	repo  RepositoryPort
	audit shared.AuditRecorder
	cost  int
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit shared.AuditRecorder) *Service {
	if audit == nil {
		audit = shared.NopAudit{}
	}
	return &Service{repo: repo, audit: audit, cost: bcrypt.DefaultCost}
}

// ListUsers returns a page of users. Admin only.
func (s *Service) ListUsers(ctx context.Context, actor shared.Actor, page, perPage int) ([]UserProfile, int, error) {
	if err := rbac.Authorize(actor, rbac.OpUserRoleWrite); err != nil {
		return nil, 0, err
	}
	return s.repo.ListUsers(ctx, page, perPage)
}

// Profile returns a user's profile. Users may read their own; admins any.
func (s *Service) Profile(ctx context.Context, actor shared.Actor, id int64) (UserProfile, error) {
	if actor.ID != id {
		if err := rbac.Authorize(actor, rbac.OpUserRoleWrite); err != nil {
			return UserProfile{}, err
		}
	}
	return s.repo.GetUser(ctx, id)
}

// CreateUser registers an account with a bcrypt password hash. Admin only.
func (s *Service) CreateUser(ctx context.Context, actor shared.Actor, req CreateUserRequest) (UserProfile, error) {
	if err := rbac.Authorize(actor, rbac.OpUserRoleWrite); err != nil {
		return UserProfile{}, err
	}
	return s.Register(ctx, req)
}

// Register creates an account without an actor, for seeding and bootstrap.
func (s *Service) Register(ctx context.Context, req CreateUserRequest) (UserProfile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return UserProfile{}, fmt.Errorf("%w: email and name are required", shared.ErrValidation)
	}
	if len(req.Password) < 8 {
		return UserProfile{}, fmt.Errorf("%w: password must be at least 8 characters", shared.ErrValidation)
	}
	role := req.Role
	if role == "" {
		role = shared.RoleUser
	}
	if !role.Valid() {
		return UserProfile{}, fmt.Errorf("%w: unknown role %q", shared.ErrValidation, role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return UserProfile{}, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.CreateUser(ctx, email, name, string(hash), role)
}

// SetRole promotes or demotes a user. Admin only, and never on oneself.
func (s *Service) SetRole(ctx context.Context, actor shared.Actor, id int64, role shared.Role) (UserProfile, error) {
	if err := rbac.Authorize(actor, rbac.OpUserRoleWrite); err != nil {
		return UserProfile{}, err
	}
	if !role.Valid() {
		return UserProfile{}, fmt.Errorf("%w: unknown role %q", shared.ErrValidation, role)
	}
	if actor.ID == id && role != shared.RoleAdmin {
		return UserProfile{}, ErrSelfDemotion
	}
	current, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return UserProfile{}, err
	}
	if current.Role == role {
		return current, nil
	}
	updated, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return UserProfile{}, fmt.Errorf("set role of user %d: %w", id, err)
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   "user:role",
		Entity:   "user",
		EntityID: fmt.Sprint(id),
		Meta:     map[string]any{"from": string(current.Role), "to": string(role)},
	})
	return updated, nil
}
