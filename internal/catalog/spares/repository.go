package spares

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/quotedesk/internal/catalog"
	"github.com/odyssey-erp/quotedesk/internal/shared"
)

// Repository persists spares.
type Repository interface {
	List(ctx context.Context, filters catalog.ListFilters) ([]Spare, int, error)
	Get(ctx context.Context, id int64) (Spare, error)
	Create(ctx context.Context, spare Spare) (Spare, error)
	Update(ctx context.Context, id int64, spare Spare) (Spare, error)
	Delete(ctx context.Context, id int64) error
	// AdjustStock applies delta atomically and fails with ErrInsufficientStock
	// instead of producing a negative count.
	AdjustStock(ctx context.Context, id int64, delta int) (Spare, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const spareColumns = `id, name, price, stock, created_at, updated_at`

func scanSpare(row pgx.Row) (Spare, error) {
	var s Spare
	if err := row.Scan(&s.ID, &s.Name, &s.Price, &s.Stock, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Spare{}, fmt.Errorf("spare: %w", shared.ErrNotFound)
		}
		return Spare{}, err
	}
	return s, nil
}

func (r *repository) List(ctx context.Context, filters catalog.ListFilters) ([]Spare, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		where += ` AND name ILIKE $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM spares`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := shared.NewPagination(filters.Page, filters.PerPage, total)
	order := "name"
	switch filters.SortBy {
	case "price", "stock", "created_at":
		order = filters.SortBy
	}
	query := `SELECT ` + spareColumns + ` FROM spares` + where +
		` ORDER BY ` + order + ` ` + catalog.SortDirection(filters.SortDir) + `, id` +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, page.PerPage, page.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	spares := []Spare{}
	for rows.Next() {
		s, err := scanSpare(rows)
		if err != nil {
			return nil, 0, err
		}
		spares = append(spares, s)
	}
	return spares, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Spare, error) {
	return scanSpare(r.db.QueryRow(ctx, `SELECT `+spareColumns+` FROM spares WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, s Spare) (Spare, error) {
	return scanSpare(r.db.QueryRow(ctx,
		`INSERT INTO spares (name, price, stock) VALUES ($1, $2, $3) RETURNING `+spareColumns,
		s.Name, s.Price, s.Stock))
}

func (r *repository) Update(ctx context.Context, id int64, s Spare) (Spare, error) {
	return scanSpare(r.db.QueryRow(ctx,
		`UPDATE spares SET name = $1, price = $2, updated_at = NOW() WHERE id = $3 RETURNING `+spareColumns,
		s.Name, s.Price, id))
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM spares WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("spare: %w", shared.ErrNotFound)
	}
	return nil
}

func (r *repository) AdjustStock(ctx context.Context, id int64, delta int) (Spare, error) {
	s, err := scanSpare(r.db.QueryRow(ctx, `
		UPDATE spares SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2 AND stock + $1 >= 0
		RETURNING `+spareColumns, delta, id))
	if err == nil || !errors.Is(err, shared.ErrNotFound) {
		return s, err
	}
	// No row matched: either the spare is gone or the delta would go negative.
	if _, getErr := r.Get(ctx, id); getErr != nil {
		return Spare{}, getErr
	}
	return Spare{}, ErrInsufficientStock
}
