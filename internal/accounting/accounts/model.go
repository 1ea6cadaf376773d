package accounts

import "time"

// Account models a chart of accounts node. The posting engine consumes the
// directory read-only; hierarchy management lives elsewhere.
type Account struct {
	ID        int64
	CompanyID int64
	Code      string
	Name      string
	ParentID  *int64
	IsDetail  bool
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
