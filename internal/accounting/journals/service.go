package journals

import (
	"context"
	"fmt"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/accounting/accounts"
	"github.com/meridian-erp/meridian-erp/internal/accounting/shared"
	internalShared "github.com/meridian-erp/meridian-erp/internal/shared"
)

// AccountDirectory resolves accounts eligible for postings. The engine reads
// the directory, never mutates it.
type AccountDirectory interface {
	FindDetailAccount(ctx context.Context, companyID, accountID int64) (accounts.Account, error)
}

// PeriodGate answers period-open queries outside the posting transaction,
// typically backed by the cached periods service. The check inside the
// transaction stays authoritative; the gate only spares a doomed posting the
// transaction setup.
type PeriodGate interface {
	IsOpenFor(ctx context.Context, companyID int64, date time.Time) (bool, error)
}

// AuditPort records committed transitions.
type AuditPort interface {
	Record(ctx context.Context, log internalShared.AuditLog) error
}

// MetricsPort counts domain events.
type MetricsPort interface {
	RecordPosting(entryType string, elapsed time.Duration)
	RecordVoid(stage string)
}

// QueuePort enqueues post-commit background work.
type QueuePort interface {
	EnqueueSummaryRefresh(ctx context.Context, companyID int64, date time.Time) error
}

// Service owns the journal entry lifecycle: DRAFT -> POSTED -> PENDING_VOID
// -> VOIDED, with DRAFT-only mutation and deletion. Every transition runs in
// a single transaction; sequence reservation and the status change commit
// together or not at all.
type Service struct {
	repo    Repository
	dir     AccountDirectory
	gate    PeriodGate
	audit   AuditPort
	metrics MetricsPort
	queue   QueuePort
	now     func() time.Time
}

func NewService(repo Repository, dir AccountDirectory, gate PeriodGate, audit AuditPort, metrics MetricsPort, queue QueuePort) *Service {
	return &Service{repo: repo, dir: dir, gate: gate, audit: audit, metrics: metrics, queue: queue, now: time.Now}
}

func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) GetEntry(ctx context.Context, id int64) (JournalEntry, error) {
	return s.repo.GetEntry(ctx, id)
}

func (s *Service) List(ctx context.Context, companyID int64) ([]JournalEntry, error) {
	return s.repo.List(ctx, companyID)
}

// checkAccounts verifies every line lands on an existing, active, detail
// account of the company.
func (s *Service) checkAccounts(ctx context.Context, companyID int64, lines []LineInput) error {
	for idx, line := range lines {
		if _, err := s.dir.FindDetailAccount(ctx, companyID, line.AccountID); err != nil {
			return fmt.Errorf("line %d: %w", idx+1, err)
		}
	}
	return nil
}

// CreateEntry persists a new entry as DRAFT and, when TargetStatus is POSTED,
// posts it inside the same unit of work. An unbalanced immediate posting
// fails before anything is persisted.
func (s *Service) CreateEntry(ctx context.Context, in CreateInput) (JournalEntry, error) {
	if err := in.Validate(); err != nil {
		return JournalEntry{}, err
	}
	if in.TargetStatus == StatusPosted {
		if err := checkInputBalanced(in.Lines); err != nil {
			return JournalEntry{}, err
		}
		if err := s.gateCheck(ctx, in.CompanyID, in.EntryDate); err != nil {
			return JournalEntry{}, err
		}
	}
	if err := s.checkAccounts(ctx, in.CompanyID, in.Lines); err != nil {
		return JournalEntry{}, err
	}

	started := s.now()
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		inserted, err := tx.InsertEntry(ctx, in)
		if err != nil {
			return err
		}
		if err := tx.InsertLines(ctx, inserted.ID, in.Lines); err != nil {
			return err
		}
		if in.TargetStatus == StatusPosted {
			if err := s.post(ctx, tx, &inserted); err != nil {
				return err
			}
		}
		lines, err := tx.GetLines(ctx, inserted.ID)
		if err != nil {
			return err
		}
		inserted.Lines = lines
		entry = inserted
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}

	s.recordAudit(ctx, in.CreatedBy, "journal.create", entry, map[string]any{
		"status": string(entry.Status),
		"type":   entry.EntryType,
	})
	if entry.Status == StatusPosted {
		s.afterPost(ctx, entry, started)
	}
	return entry, nil
}

// post runs the posting steps against a draft already locked in tx: balance,
// period gate, sequence allocation, status flip. Any failure aborts the whole
// transaction including the sequence reservation.
func (s *Service) post(ctx context.Context, tx TxRepository, entry *JournalEntry) error {
	if entry.Status != StatusDraft {
		return shared.ErrNotDraft
	}
	lines, err := tx.GetLines(ctx, entry.ID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return shared.ErrNoLines
	}
	if err := checkBalanced(lines); err != nil {
		return err
	}

	open, err := tx.IsPeriodOpen(ctx, entry.CompanyID, entry.EntryDate)
	if err != nil {
		return err
	}
	if !open {
		return shared.ErrPeriodClosed
	}

	sequenceNumber, err := tx.NextSequenceNumber(ctx, entry.CompanyID)
	if err != nil {
		return err
	}
	typeNumber, err := tx.NextTypeNumber(ctx, entry.CompanyID, entry.EntryType)
	if err != nil {
		return err
	}
	entryNumber := FormatEntryNumber(entry.EntryType, typeNumber)

	if err := tx.MarkPosted(ctx, entry.ID, sequenceNumber, typeNumber, entryNumber); err != nil {
		return err
	}
	entry.Status = StatusPosted
	entry.SequenceNumber = &sequenceNumber
	entry.TypeNumber = &typeNumber
	entry.EntryNumber = &entryNumber
	return nil
}

// gateCheck is the cached period fast-fail outside the transaction. A gate
// error counts as unknown and defers to the in-transaction check.
func (s *Service) gateCheck(ctx context.Context, companyID int64, date time.Time) error {
	if s.gate == nil {
		return nil
	}
	open, err := s.gate.IsOpenFor(ctx, companyID, date)
	if err != nil {
		return nil
	}
	if !open {
		return shared.ErrPeriodClosed
	}
	return nil
}

// PostEntry transitions a draft to POSTED. On failure the entry stays DRAFT.
func (s *Service) PostEntry(ctx context.Context, id, actorID int64) (JournalEntry, error) {
	if current, err := s.repo.GetEntry(ctx, id); err == nil && current.Status == StatusDraft {
		if err := s.gateCheck(ctx, current.CompanyID, current.EntryDate); err != nil {
			return JournalEntry{}, err
		}
	}
	started := s.now()
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetEntryForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.post(ctx, tx, &current); err != nil {
			return err
		}
		lines, err := tx.GetLines(ctx, current.ID)
		if err != nil {
			return err
		}
		current.Lines = lines
		entry = current
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	s.recordAudit(ctx, actorID, "journal.post", entry, map[string]any{
		"entry_number":    derefString(entry.EntryNumber),
		"sequence_number": derefInt(entry.SequenceNumber),
	})
	s.afterPost(ctx, entry, started)
	return entry, nil
}

// UpdateEntry mutates a draft. A supplied line set replaces the existing one
// wholesale. TargetStatus POSTED posts within the same unit of work.
func (s *Service) UpdateEntry(ctx context.Context, in UpdateInput) (JournalEntry, error) {
	if in.TargetStatus != "" && in.TargetStatus != StatusDraft && in.TargetStatus != StatusPosted {
		return JournalEntry{}, shared.ErrInvalidTargetStatus
	}
	if in.Lines != nil {
		if err := validateLines(in.Lines); err != nil {
			return JournalEntry{}, err
		}
	}
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetEntryForUpdate(ctx, in.EntryID)
		if err != nil {
			return err
		}
		if current.Status != StatusDraft {
			return shared.ErrNotDraft
		}
		if in.EntryDate != nil {
			current.EntryDate = *in.EntryDate
		}
		if in.EntryType != nil {
			entryType, err := normalizeEntryType(*in.EntryType)
			if err != nil {
				return err
			}
			current.EntryType = entryType
		}
		if in.Description != nil {
			current.Description = *in.Description
		}
		if err := tx.UpdateDraft(ctx, current); err != nil {
			return err
		}
		if in.Lines != nil {
			if err := s.checkAccounts(ctx, current.CompanyID, in.Lines); err != nil {
				return err
			}
			if err := tx.ReplaceLines(ctx, current.ID, in.Lines); err != nil {
				return err
			}
		}
		if in.TargetStatus == StatusPosted {
			if err := s.post(ctx, tx, &current); err != nil {
				return err
			}
		}
		lines, err := tx.GetLines(ctx, current.ID)
		if err != nil {
			return err
		}
		current.Lines = lines
		entry = current
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	s.recordAudit(ctx, in.ActorID, "journal.update", entry, map[string]any{
		"status":         string(entry.Status),
		"lines_replaced": in.Lines != nil,
	})
	if entry.Status == StatusPosted {
		s.afterPost(ctx, entry, s.now())
	}
	return entry, nil
}

// DeleteEntry removes a draft and its lines. Anything past DRAFT is never
// hard-deleted.
func (s *Service) DeleteEntry(ctx context.Context, id, actorID int64) error {
	var deleted JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetEntryForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current.Status != StatusDraft {
			return shared.ErrNotDraft
		}
		if err := tx.DeleteEntry(ctx, current.ID); err != nil {
			return err
		}
		deleted = current
		return nil
	})
	if err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "journal.delete", deleted, nil)
	return nil
}

// RequestVoid is the first half of the two-person void control: it records
// who asked and why, and parks the entry in PENDING_VOID.
func (s *Service) RequestVoid(ctx context.Context, in VoidRequestInput) (JournalEntry, error) {
	if err := in.Validate(); err != nil {
		return JournalEntry{}, err
	}
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetEntryForUpdate(ctx, in.EntryID)
		if err != nil {
			return err
		}
		if current.Status != StatusPosted {
			return shared.ErrNotPosted
		}
		at := s.now()
		if err := tx.MarkPendingVoid(ctx, current.ID, in.Reason, in.ActorID, at); err != nil {
			return err
		}
		current.Status = StatusPendingVoid
		current.VoidReason = &in.Reason
		current.VoidRequestedBy = &in.ActorID
		current.VoidRequestedAt = &at
		entry = current
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	s.recordAudit(ctx, in.ActorID, "journal.void.request", entry, map[string]any{
		"reason": in.Reason,
	})
	if s.metrics != nil {
		s.metrics.RecordVoid("requested")
	}
	return entry, nil
}

// AuthorizeVoid is the second half: a separate call records who approved.
// The core does not force a distinct actor; callers gate the authorize action
// to an authorization role one layer up.
func (s *Service) AuthorizeVoid(ctx context.Context, entryID, actorID int64) (JournalEntry, error) {
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetEntryForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if current.Status != StatusPendingVoid {
			return shared.ErrNotPendingVoid
		}
		at := s.now()
		if err := tx.MarkVoided(ctx, current.ID, actorID, at); err != nil {
			return err
		}
		current.Status = StatusVoided
		current.VoidAuthorizedBy = &actorID
		current.VoidAuthorizedAt = &at
		entry = current
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	s.recordAudit(ctx, actorID, "journal.void.authorize", entry, map[string]any{
		"requested_by": derefInt(entry.VoidRequestedBy),
	})
	if s.metrics != nil {
		s.metrics.RecordVoid("authorized")
	}
	return entry, nil
}

func (s *Service) afterPost(ctx context.Context, entry JournalEntry, started time.Time) {
	if s.metrics != nil {
		s.metrics.RecordPosting(entry.EntryType, s.now().Sub(started))
	}
	if s.queue != nil {
		_ = s.queue.EnqueueSummaryRefresh(ctx, entry.CompanyID, entry.EntryDate)
	}
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, entry JournalEntry, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, internalShared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "journal_entry",
		EntityID: fmt.Sprintf("%d", entry.ID),
		Meta:     meta,
		At:       s.now(),
	})
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefInt(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
