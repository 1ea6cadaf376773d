package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian-erp/internal/accounting/shared"
)

type Repository interface {
	FindAccount(ctx context.Context, companyID, accountID int64) (Account, error)
	List(ctx context.Context, companyID int64) ([]Account, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// FindAccount returns the account only when it belongs to the company.
func (r *repository) FindAccount(ctx context.Context, companyID, accountID int64) (Account, error) {
	var a Account
	err := r.db.QueryRow(ctx, `SELECT id, company_id, code, name, parent_id, is_detail, is_active, created_at, updated_at
FROM accounts WHERE id=$1 AND company_id=$2`, accountID, companyID).
		Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.ParentID, &a.IsDetail, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrAccountNotFound
		}
		return Account{}, err
	}
	return a, nil
}

func (r *repository) List(ctx context.Context, companyID int64) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT id, company_id, code, name, parent_id, is_detail, is_active, created_at, updated_at
FROM accounts WHERE company_id=$1 ORDER BY code ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.ParentID, &a.IsDetail, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
