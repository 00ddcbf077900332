package quotations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/quotedesk/internal/platform/db"
	"github.com/odyssey-erp/quotedesk/internal/shared"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Quotation, error)
	List(ctx context.Context, filters ListFilters) ([]Quotation, int, error)
	Create(ctx context.Context, q Quotation) (*Quotation, error)
	// Replace overwrites customer, items and totals of a Pending quotation.
	Replace(ctx context.Context, id int64, q Quotation) (*Quotation, error)
	// UpdateStatus moves a Pending quotation to status. It fails with
	// ErrInvalidTransition when the stored status is no longer Pending.
	UpdateStatus(ctx context.Context, id int64, status Status, decidedBy int64, reason *string) (*Quotation, error)
	Delete(ctx context.Context, id int64) error
	GenerateNumber(ctx context.Context, date time.Time) (string, error)
}

type repository struct {
	db   db.DBTX
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const quotationColumns = `id, quote_number, customer_id, customer_name, customer_email, customer_phone, customer_address,
	items, subtotal, tax_rate, gst, total, status, user_id, decided_by, decided_at, rejection_reason,
	company_details, created_at, updated_at`

func scanQuotation(row pgx.Row) (*Quotation, error) {
	var q Quotation
	var items, companyDetails []byte
	err := row.Scan(
		&q.ID, &q.QuoteNumber, &q.Customer.ID, &q.Customer.Name, &q.Customer.Email, &q.Customer.Phone, &q.Customer.Address,
		&items, &q.Subtotal, &q.TaxRate, &q.GST, &q.Total, &q.Status, &q.UserID, &q.DecidedBy, &q.DecidedAt, &q.RejectionReason,
		&companyDetails, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quotation: %w", shared.ErrNotFound)
		}
		return nil, err
	}
	if err := json.Unmarshal(items, &q.Items); err != nil {
		return nil, fmt.Errorf("quotation %d: decode items: %w", q.ID, err)
	}
	if len(companyDetails) > 0 {
		if err := json.Unmarshal(companyDetails, &q.Company); err != nil {
			return nil, fmt.Errorf("quotation %d: decode company details: %w", q.ID, err)
		}
	}
	if q.Items == nil {
		q.Items = []LineItem{}
	}
	return &q, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Quotation, error) {
	return scanQuotation(r.db.QueryRow(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE id = $1`, id))
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Quotation, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(filters.Status))
		argPos++
	}
	if filters.CustomerID > 0 {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, filters.CustomerID)
		argPos++
	}
	if filters.OwnerID > 0 {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argPos))
		args = append(args, filters.OwnerID)
		argPos++
	}
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(quote_number ILIKE $%d OR customer_name ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}
	if filters.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argPos))
		args = append(args, *filters.From)
		argPos++
	}
	if filters.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", argPos))
		args = append(args, *filters.To)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM quotations "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := shared.NewPagination(filters.Page, filters.PerPage, total)
	query := fmt.Sprintf(`SELECT %s FROM quotations %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		quotationColumns, whereClause, argPos, argPos+1)
	args = append(args, page.PerPage, page.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	quotations := []Quotation{}
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, 0, err
		}
		quotations = append(quotations, *q)
	}
	return quotations, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, q Quotation) (*Quotation, error) {
	items, companyDetails, err := encodeSnapshots(q)
	if err != nil {
		return nil, err
	}
	return scanQuotation(r.db.QueryRow(ctx, `
		INSERT INTO quotations (quote_number, customer_id, customer_name, customer_email, customer_phone, customer_address,
			items, subtotal, tax_rate, gst, total, status, user_id, company_details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+quotationColumns,
		q.QuoteNumber, q.Customer.ID, q.Customer.Name, q.Customer.Email, q.Customer.Phone, q.Customer.Address,
		items, q.Subtotal, q.TaxRate, q.GST, q.Total, string(q.Status), q.UserID, companyDetails))
}

func (r *repository) Replace(ctx context.Context, id int64, q Quotation) (*Quotation, error) {
	items, _, err := encodeSnapshots(q)
	if err != nil {
		return nil, err
	}
	updated, err := scanQuotation(r.db.QueryRow(ctx, `
		UPDATE quotations SET customer_id = $1, customer_name = $2, customer_email = $3, customer_phone = $4,
			customer_address = $5, items = $6, subtotal = $7, tax_rate = $8, gst = $9, total = $10, updated_at = NOW()
		WHERE id = $11 AND status = 'Pending'
		RETURNING `+quotationColumns,
		q.Customer.ID, q.Customer.Name, q.Customer.Email, q.Customer.Phone, q.Customer.Address,
		items, q.Subtotal, q.TaxRate, q.GST, q.Total, id))
	if errors.Is(err, shared.ErrNotFound) {
		return nil, r.explainMiss(ctx, id)
	}
	return updated, err
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status, decidedBy int64, reason *string) (*Quotation, error) {
	updated, err := scanQuotation(r.db.QueryRow(ctx, `
		UPDATE quotations SET status = $1, decided_by = $2, decided_at = NOW(), rejection_reason = $3, updated_at = NOW()
		WHERE id = $4 AND status = 'Pending'
		RETURNING `+quotationColumns,
		string(status), decidedBy, reason, id))
	if errors.Is(err, shared.ErrNotFound) {
		return nil, r.explainMiss(ctx, id)
	}
	return updated, err
}

// explainMiss tells a missing row apart from one that has left Pending.
func (r *repository) explainMiss(ctx context.Context, id int64) error {
	current, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: quotation %d is %s", ErrInvalidTransition, id, current.Status)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quotation: %w", shared.ErrNotFound)
	}
	return nil
}

func (r *repository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	// QT-{YY}{MM}-{SEQ}
	var seq int64
	period := date.Format("0601")
	err := r.db.QueryRow(ctx, `
		INSERT INTO document_sequences (doc_type, period, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, period)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq
	`, "QT", period).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("QT-%s-%04d", period, seq), nil
}

func encodeSnapshots(q Quotation) (items, companyDetails []byte, err error) {
	if q.Items == nil {
		q.Items = []LineItem{}
	}
	items, err = json.Marshal(q.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("encode items: %w", err)
	}
	companyDetails, err = json.Marshal(q.Company)
	if err != nil {
		return nil, nil, fmt.Errorf("encode company details: %w", err)
	}
	return items, companyDetails, nil
}
