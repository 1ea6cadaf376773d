package periods

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian-erp/internal/accounting/shared"
)

type Repository interface {
	Get(ctx context.Context, id int64) (Period, error)
	FindByDate(ctx context.Context, companyID int64, date time.Time) (Period, error)
	List(ctx context.Context, companyID int64) ([]Period, error)
	SetStatus(ctx context.Context, id int64, status PeriodStatus, actorID int64, at time.Time) (Period, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const periodColumns = `id, company_id, code, start_date, end_date, status, closed_by, closed_at, created_at, updated_at`

func scanPeriod(row pgx.Row) (Period, error) {
	var p Period
	err := row.Scan(&p.ID, &p.CompanyID, &p.Code, &p.StartDate, &p.EndDate, &p.Status, &p.ClosedBy, &p.ClosedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Period{}, shared.ErrPeriodNotFound
		}
		return Period{}, err
	}
	return p, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Period, error) {
	return scanPeriod(r.db.QueryRow(ctx, `SELECT `+periodColumns+` FROM periods WHERE id=$1`, id))
}

// FindByDate returns the period covering the date regardless of status.
func (r *repository) FindByDate(ctx context.Context, companyID int64, date time.Time) (Period, error) {
	return scanPeriod(r.db.QueryRow(ctx, `SELECT `+periodColumns+`
FROM periods WHERE company_id=$1 AND $2 BETWEEN start_date AND end_date ORDER BY start_date LIMIT 1`, companyID, date))
}

func (r *repository) List(ctx context.Context, companyID int64) ([]Period, error) {
	rows, err := r.db.Query(ctx, `SELECT `+periodColumns+` FROM periods WHERE company_id=$1 ORDER BY start_date ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) SetStatus(ctx context.Context, id int64, status PeriodStatus, actorID int64, at time.Time) (Period, error) {
	var closedBy any
	var closedAt any
	if status == PeriodStatusClosed {
		closedBy = actorID
		closedAt = at
	}
	return scanPeriod(r.db.QueryRow(ctx, `UPDATE periods SET status=$2, closed_by=$3, closed_at=$4, updated_at=NOW()
WHERE id=$1 RETURNING `+periodColumns, id, status, closedBy, closedAt))
}
