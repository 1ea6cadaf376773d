package journals

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian-erp/internal/accounting/shared"
)

// Repository encapsulates DB operations for journal entries.
type Repository interface {
	GetEntry(ctx context.Context, id int64) (JournalEntry, error)
	List(ctx context.Context, companyID int64) ([]JournalEntry, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the operations available inside a posting transaction.
// Every status transition runs through exactly one WithTx closure.
type TxRepository interface {
	InsertEntry(ctx context.Context, in CreateInput) (JournalEntry, error)
	InsertLines(ctx context.Context, entryID int64, lines []LineInput) error
	GetEntryForUpdate(ctx context.Context, id int64) (JournalEntry, error)
	GetLines(ctx context.Context, entryID int64) ([]JournalLine, error)
	UpdateDraft(ctx context.Context, entry JournalEntry) error
	ReplaceLines(ctx context.Context, entryID int64, lines []LineInput) error
	DeleteEntry(ctx context.Context, id int64) error

	// Period check duplicated from the periods repo so it shares the
	// transaction's read consistency.
	IsPeriodOpen(ctx context.Context, companyID int64, date time.Time) (bool, error)

	// Sequence allocation, see sequence.go.
	NextSequenceNumber(ctx context.Context, companyID int64) (int64, error)
	NextTypeNumber(ctx context.Context, companyID int64, entryType string) (int64, error)

	MarkPosted(ctx context.Context, entryID, sequenceNumber, typeNumber int64, entryNumber string) error
	MarkPendingVoid(ctx context.Context, entryID int64, reason string, actorID int64, at time.Time) error
	MarkVoided(ctx context.Context, entryID, actorID int64, at time.Time) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const entryColumns = `id, company_id, entry_date, entry_type, description, status,
sequence_number, type_number, entry_number, created_by,
void_reason, void_requested_by, void_requested_at, void_authorized_by, void_authorized_at,
created_at, updated_at`

func scanEntry(row pgx.Row) (JournalEntry, error) {
	var e JournalEntry
	err := row.Scan(&e.ID, &e.CompanyID, &e.EntryDate, &e.EntryType, &e.Description, &e.Status,
		&e.SequenceNumber, &e.TypeNumber, &e.EntryNumber, &e.CreatedBy,
		&e.VoidReason, &e.VoidRequestedBy, &e.VoidRequestedAt, &e.VoidAuthorizedBy, &e.VoidAuthorizedAt,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JournalEntry{}, shared.ErrEntryNotFound
		}
		return JournalEntry{}, err
	}
	return e, nil
}

func (r *repository) GetEntry(ctx context.Context, id int64) (JournalEntry, error) {
	entry, err := scanEntry(r.db.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE id=$1`, id))
	if err != nil {
		return JournalEntry{}, err
	}
	lines, err := queryLines(ctx, r.db, entry.ID)
	if err != nil {
		return JournalEntry{}, err
	}
	entry.Lines = lines
	return entry, nil
}

func (r *repository) List(ctx context.Context, companyID int64) ([]JournalEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE company_id=$1 ORDER BY id DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []JournalEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// postingTxOptions pins the posting transaction to read committed. The
// sequence allocator reads max(sequence_number) after taking the company row
// lock, so each statement must see rows committed while the lock was awaited.
// Repeatable read would reuse the snapshot taken before the lock wait and
// re-issue a number a concurrent poster already committed.
var postingTxOptions = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, postingTxOptions)
	if err != nil {
		return err
	}
	wrapper := &txRepository{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type txRepository struct {
	tx pgx.Tx
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func queryLines(ctx context.Context, q querier, entryID int64) ([]JournalLine, error) {
	rows, err := q.Query(ctx, `SELECT id, entry_id, account_id, debit, credit, description, line_number, created_at, updated_at
FROM journal_lines WHERE entry_id=$1 ORDER BY line_number ASC, id ASC`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []JournalLine
	for rows.Next() {
		var line JournalLine
		if err := rows.Scan(&line.ID, &line.EntryID, &line.AccountID, &line.Debit, &line.Credit,
			&line.Description, &line.LineNumber, &line.CreatedAt, &line.UpdatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// InsertEntry persists a new entry in DRAFT. Sequence columns stay NULL until
// posting.
func (r *txRepository) InsertEntry(ctx context.Context, in CreateInput) (JournalEntry, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO journal_entries (company_id, entry_date, entry_type, description, status, created_by)
VALUES ($1,$2,$3,$4,'DRAFT',$5) RETURNING id, created_at, updated_at`,
		in.CompanyID, in.EntryDate, in.EntryType, in.Description, in.CreatedBy)
	entry := JournalEntry{
		CompanyID:   in.CompanyID,
		EntryDate:   in.EntryDate,
		EntryType:   in.EntryType,
		Description: in.Description,
		Status:      StatusDraft,
		CreatedBy:   in.CreatedBy,
	}
	if err := row.Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

func (r *txRepository) InsertLines(ctx context.Context, entryID int64, lines []LineInput) error {
	for _, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO journal_lines (entry_id, account_id, debit, credit, description, line_number)
VALUES ($1,$2,$3,$4,$5,$6)`, entryID, line.AccountID, line.Debit, line.Credit, line.Description, line.LineNumber); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetEntryForUpdate(ctx context.Context, id int64) (JournalEntry, error) {
	entry, err := scanEntry(r.tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

func (r *txRepository) GetLines(ctx context.Context, entryID int64) ([]JournalLine, error) {
	return queryLines(ctx, r.tx, entryID)
}

func (r *txRepository) UpdateDraft(ctx context.Context, entry JournalEntry) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE journal_entries SET entry_date=$2, entry_type=$3, description=$4, updated_at=NOW()
WHERE id=$1 AND status='DRAFT'`, entry.ID, entry.EntryDate, entry.EntryType, entry.Description)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotDraft
	}
	return nil
}

// ReplaceLines discards the existing line set wholesale; there is no partial
// line patching.
func (r *txRepository) ReplaceLines(ctx context.Context, entryID int64, lines []LineInput) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id=$1`, entryID); err != nil {
		return err
	}
	return r.InsertLines(ctx, entryID, lines)
}

func (r *txRepository) DeleteEntry(ctx context.Context, id int64) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id=$1`, id); err != nil {
		return err
	}
	cmd, err := r.tx.Exec(ctx, `DELETE FROM journal_entries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrEntryNotFound
	}
	return nil
}

// IsPeriodOpen duplicates the periods lookup inside the transaction. A date
// no period covers counts as not open.
func (r *txRepository) IsPeriodOpen(ctx context.Context, companyID int64, date time.Time) (bool, error) {
	var status string
	err := r.tx.QueryRow(ctx, `SELECT status FROM periods
WHERE company_id=$1 AND $2 BETWEEN start_date AND end_date ORDER BY start_date LIMIT 1`, companyID, date).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return status == "OPEN", nil
}

func (r *txRepository) MarkPosted(ctx context.Context, entryID, sequenceNumber, typeNumber int64, entryNumber string) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE journal_entries
SET status='POSTED', sequence_number=$2, type_number=$3, entry_number=$4, updated_at=NOW()
WHERE id=$1 AND status='DRAFT'`, entryID, sequenceNumber, typeNumber, entryNumber)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotDraft
	}
	return nil
}

func (r *txRepository) MarkPendingVoid(ctx context.Context, entryID int64, reason string, actorID int64, at time.Time) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE journal_entries
SET status='PENDING_VOID', void_reason=$2, void_requested_by=$3, void_requested_at=$4, updated_at=NOW()
WHERE id=$1 AND status='POSTED'`, entryID, reason, actorID, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotPosted
	}
	return nil
}

func (r *txRepository) MarkVoided(ctx context.Context, entryID, actorID int64, at time.Time) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE journal_entries
SET status='VOIDED', void_authorized_by=$2, void_authorized_at=$3, updated_at=NOW()
WHERE id=$1 AND status='PENDING_VOID'`, entryID, actorID, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotPendingVoid
	}
	return nil
}
