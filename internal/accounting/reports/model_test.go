package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBuildTotals(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	rows := []DailySummary{
		{CompanyID: 1, EntryDate: day, Entries: 3, TotalDebit: decimal.RequireFromString("300.50"), TotalCredit: decimal.RequireFromString("300.50")},
		{CompanyID: 1, EntryDate: day.AddDate(0, 0, 1), Entries: 1, TotalDebit: decimal.RequireFromString("99.50"), TotalCredit: decimal.RequireFromString("99.50")},
	}

	totals := BuildTotals(rows)
	if totals.Entries != 4 {
		t.Fatalf("expected 4 entries, got %d", totals.Entries)
	}
	if !totals.TotalDebit.Equal(decimal.RequireFromString("400.00")) {
		t.Fatalf("expected 400.00 debit, got %s", totals.TotalDebit)
	}
	if !totals.TotalCredit.Equal(totals.TotalDebit) {
		t.Fatalf("totals must mirror: %s vs %s", totals.TotalDebit, totals.TotalCredit)
	}
}

func TestBuildTotalsEmpty(t *testing.T) {
	totals := BuildTotals(nil)
	if totals.Entries != 0 || !totals.TotalDebit.IsZero() || !totals.TotalCredit.IsZero() {
		t.Fatalf("empty input must yield zero totals: %+v", totals)
	}
}
