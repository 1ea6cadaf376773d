// Package reports serves read models derived from posted journal entries.
package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary is one row of the journal_daily_summary materialized view:
// posted activity for a company on one entry date. Draft, pending-void and
// voided entries never appear here.
type DailySummary struct {
	CompanyID   int64
	EntryDate   time.Time
	Entries     int64
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// SummaryTotals aggregates a range of daily rows.
type SummaryTotals struct {
	Entries     int64
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// BuildTotals folds daily rows into range totals.
func BuildTotals(rows []DailySummary) SummaryTotals {
	totals := SummaryTotals{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, row := range rows {
		totals.Entries += row.Entries
		totals.TotalDebit = totals.TotalDebit.Add(row.TotalDebit)
		totals.TotalCredit = totals.TotalCredit.Add(row.TotalCredit)
	}
	return totals
}
