package journals

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridian-erp/meridian-erp/internal/accounting/shared"
)

// EntryStatus enumerates the journal entry lifecycle. Input is accepted
// case-insensitively and canonicalised to these uppercase values.
type EntryStatus string

const (
	StatusDraft       EntryStatus = "DRAFT"
	StatusPosted      EntryStatus = "POSTED"
	StatusPendingVoid EntryStatus = "PENDING_VOID"
	StatusVoided      EntryStatus = "VOIDED"
)

// ParseEntryStatus canonicalises a status string.
func ParseEntryStatus(s string) (EntryStatus, error) {
	switch EntryStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusPosted:
		return StatusPosted, nil
	case StatusPendingVoid:
		return StatusPendingVoid, nil
	case StatusVoided:
		return StatusVoided, nil
	}
	return "", fmt.Errorf("accounting: unknown entry status %q", s)
}

// JournalEntry is the aggregate owned by the lifecycle service. Sequence
// fields stay nil until the entry is posted; a draft never consumes a number.
type JournalEntry struct {
	ID               int64
	CompanyID        int64
	EntryDate        time.Time
	EntryType        string
	Description      string
	Status           EntryStatus
	SequenceNumber   *int64
	TypeNumber       *int64
	EntryNumber      *string
	CreatedBy        int64
	VoidReason       *string
	VoidRequestedBy  *int64
	VoidRequestedAt  *time.Time
	VoidAuthorizedBy *int64
	VoidAuthorizedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Lines            []JournalLine
}

// JournalLine stores one side of a movement. Exactly one of Debit/Credit is
// positive; the line validator rejects everything else.
type JournalLine struct {
	ID          int64
	EntryID     int64
	AccountID   int64
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
	LineNumber  int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// balanceTolerance is rounding slack, not a business tolerance.
var balanceTolerance = decimal.RequireFromString("0.01")

// lineTotals sums both sides of a line set.
func lineTotals(lines []JournalLine) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, line := range lines {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	return debit, credit
}

// checkBalanced enforces |sum(debit) - sum(credit)| <= 0.01.
func checkBalanced(lines []JournalLine) error {
	debit, credit := lineTotals(lines)
	if debit.Sub(credit).Abs().GreaterThan(balanceTolerance) {
		return shared.ErrUnbalanced
	}
	return nil
}

// FormatEntryNumber renders the display number: uppercase type, dash, the
// type-scoped number zero-padded to 7 digits. PD + 42 -> "PD-0000042".
func FormatEntryNumber(entryType string, typeNumber int64) string {
	return fmt.Sprintf("%s-%07d", strings.ToUpper(entryType), typeNumber)
}
