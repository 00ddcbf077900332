package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/quotedesk/internal/platform/db"
	"github.com/odyssey-erp/quotedesk/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context, page, perPage int) ([]UserProfile, int, error)
	GetUser(ctx context.Context, id int64) (UserProfile, error)
	CreateUser(ctx context.Context, email, name, passwordHash string, role shared.Role) (UserProfile, error)
	UpdateRole(ctx context.Context, id int64, role shared.Role) (UserProfile, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, email, name, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (UserProfile, error) {
	var u UserProfile
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserProfile{}, fmt.Errorf("user: %w", shared.ErrNotFound)
		}
		return UserProfile{}, err
	}
	u.Role = shared.Role(role)
	return u, nil
}

// ListUsers returns one page of users ordered by name.
func (r *Repository) ListUsers(ctx context.Context, page, perPage int) ([]UserProfile, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	p := shared.NewPagination(page, perPage, total)
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY lower(name), id LIMIT $1 OFFSET $2`, p.PerPage, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []UserProfile{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *Repository) GetUser(ctx context.Context, id int64) (UserProfile, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *Repository) CreateUser(ctx context.Context, email, name, passwordHash string, role shared.Role) (UserProfile, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash, role)
		VALUES (lower($1), $2, $3, $4)
		RETURNING `+userColumns,
		email, name, passwordHash, string(role)))
	if db.IsUniqueViolation(err) {
		return UserProfile{}, ErrEmailTaken
	}
	return u, err
}

func (r *Repository) UpdateRole(ctx context.Context, id int64, role shared.Role) (UserProfile, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2 RETURNING `+userColumns,
		string(role), id))
}

var _ RepositoryPort = (*Repository)(nil)
