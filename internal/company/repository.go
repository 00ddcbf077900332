package company

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/quotedesk/internal/shared"
)

// Repository persists the single company settings row.
type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, s Settings) (Settings, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const settingsColumns = `name, address, phone, email, gstin, bank_name, account_name, account_number, ifsc, branch, updated_at`

func (r *repository) Get(ctx context.Context) (Settings, error) {
	var s Settings
	err := r.db.QueryRow(ctx, `SELECT `+settingsColumns+` FROM company_settings WHERE id = 1`).Scan(
		&s.Name, &s.Address, &s.Phone, &s.Email, &s.GSTIN,
		&s.BankName, &s.AccountName, &s.AccountNumber, &s.IFSC, &s.Branch, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Settings{}, fmt.Errorf("company settings: %w", shared.ErrNotFound)
		}
		return Settings{}, err
	}
	return s, nil
}

func (r *repository) Update(ctx context.Context, s Settings) (Settings, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO company_settings (id, name, address, phone, email, gstin, bank_name, account_name, account_number, ifsc, branch, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, address = EXCLUDED.address, phone = EXCLUDED.phone,
			email = EXCLUDED.email, gstin = EXCLUDED.gstin, bank_name = EXCLUDED.bank_name,
			account_name = EXCLUDED.account_name, account_number = EXCLUDED.account_number,
			ifsc = EXCLUDED.ifsc, branch = EXCLUDED.branch, updated_at = NOW()
		RETURNING updated_at`,
		s.Name, s.Address, s.Phone, s.Email, s.GSTIN, s.BankName, s.AccountName, s.AccountNumber, s.IFSC, s.Branch,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}
