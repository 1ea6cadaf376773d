package periods

import "time"

// PeriodStatus enumerates valid period states.
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "OPEN"
	PeriodStatusClosed PeriodStatus = "CLOSED"
)

// Period represents a fiscal period window for a company.
type Period struct {
	ID        int64
	CompanyID int64
	Code      string
	StartDate time.Time
	EndDate   time.Time
	Status    PeriodStatus
	ClosedBy  *int64
	ClosedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers reports whether the period window contains the date.
func (p Period) Covers(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}
