package products

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

// Repository persists products.
type Repository interface {
	List(ctx context.Context, filters catalog.ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id int64, product Product) (Product, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, model_number, category, price, discounted_price, image, description, customizations, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.ModelNumber, &p.Category, &p.Price, &p.DiscountedPrice,
		&p.Image, &p.Description, &p.Customizations, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("product: %w", shared.ErrNotFound)
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, filters catalog.ListFilters) ([]Product, int, error) {
	where := ` WHERE 1=1`
	args := []any{}

	if filters.Category != "" {
		args = append(args, filters.Category)
		where += ` AND category = $` + strconv.Itoa(len(args))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (name ILIKE $` + n + ` OR model_number ILIKE $` + n + `)`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := shared.NewPagination(filters.Page, filters.PerPage, total)
	query := `SELECT ` + productColumns + ` FROM products` + where +
		` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir) +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, page.PerPage, page.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	return scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	return scanProduct(r.db.QueryRow(ctx, `
		INSERT INTO products (name, model_number, category, price, discounted_price, image, description, customizations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+productColumns,
		p.Name, p.ModelNumber, p.Category, p.Price, p.DiscountedPrice, p.Image, p.Description, p.Customizations))
}

func (r *repository) Update(ctx context.Context, id int64, p Product) (Product, error) {
	return scanProduct(r.db.QueryRow(ctx, `
		UPDATE products SET name = $1, model_number = $2, category = $3, price = $4, discounted_price = $5,
			image = $6, description = $7, customizations = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING `+productColumns,
		p.Name, p.ModelNumber, p.Category, p.Price, p.DiscountedPrice, p.Image, p.Description, p.Customizations, id))
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product: %w", shared.ErrNotFound)
	}
	return nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := catalog.SortDirection(sortDir)
	switch sortBy {
	case "price", "category", "model_number", "created_at":
		return sortBy + " " + dir + ", id"
	default:
		return "name " + dir + ", id"
	}
}
