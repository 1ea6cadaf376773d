package journals

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/meridian-erp/meridian-erp/internal/accounting/shared"
)

// Sequence allocation uses a locked read-max over journal_entries rather than
// a counter column: an aborted posting transaction then leaves nothing
// advanced. Serialisation comes from two row locks held for the rest of the
// transaction:
//
//   - the companies row for the company-wide audit sequence
//   - the journal_types row for the per-(company, type) display sequence
//
// Two concurrent posts for the same company therefore queue on the company
// row instead of racing on "read max, then insert". The max reads only see a
// queued-ahead poster's committed row because the transaction runs at read
// committed (postingTxOptions); under repeatable read the waiter would keep
// its pre-lock snapshot and recompute the same number.

// NextSequenceNumber reserves the next company-wide sequence number.
func (r *txRepository) NextSequenceNumber(ctx context.Context, companyID int64) (int64, error) {
	var locked int64
	err := r.tx.QueryRow(ctx, `SELECT id FROM companies WHERE id=$1 FOR UPDATE`, companyID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrCompanyNotFound
		}
		return 0, lockErr(err)
	}
	var max int64
	err = r.tx.QueryRow(ctx, `SELECT COALESCE(MAX(sequence_number), 0) FROM journal_entries WHERE company_id=$1`, companyID).Scan(&max)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// NextTypeNumber reserves the next number within (company, entry type). The
// journal_types row is created on demand; it exists purely as the lock anchor.
func (r *txRepository) NextTypeNumber(ctx context.Context, companyID int64, entryType string) (int64, error) {
	if _, err := r.tx.Exec(ctx, `INSERT INTO journal_types (company_id, code) VALUES ($1,$2) ON CONFLICT DO NOTHING`, companyID, entryType); err != nil {
		return 0, err
	}
	var code string
	err := r.tx.QueryRow(ctx, `SELECT code FROM journal_types WHERE company_id=$1 AND code=$2 FOR UPDATE`, companyID, entryType).Scan(&code)
	if err != nil {
		return 0, lockErr(err)
	}
	var max int64
	err = r.tx.QueryRow(ctx, `SELECT COALESCE(MAX(type_number), 0) FROM journal_entries WHERE company_id=$1 AND entry_type=$2`, companyID, entryType).Scan(&max)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// lockErr maps a lock acquisition timeout to the retryable contention error.
func lockErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "55P03" {
		return shared.ErrLockContention
	}
	return err
}
