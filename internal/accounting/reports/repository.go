package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads the summary materialized view. Freshness depends on the
// background refresh task; rows can trail the ledger by one refresh cycle.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// DailyRange returns daily rows for the company between from and to inclusive,
// oldest first.
func (r *Repository) DailyRange(ctx context.Context, companyID int64, from, to time.Time) ([]DailySummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT company_id, entry_date, entries, total_debit, total_credit
		FROM journal_daily_summary
		WHERE company_id = $1 AND entry_date BETWEEN $2 AND $3
		ORDER BY entry_date`,
		companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("reports: query daily summary: %w", err)
	}
	defer rows.Close()

	var out []DailySummary
	for rows.Next() {
		var row DailySummary
		if err := rows.Scan(&row.CompanyID, &row.EntryDate, &row.Entries, &row.TotalDebit, &row.TotalCredit); err != nil {
			return nil, fmt.Errorf("reports: scan daily summary: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
