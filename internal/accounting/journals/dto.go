package journals

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/meridian-erp/meridian-erp/internal/accounting/shared"
)

// DefaultEntryType is used when the caller supplies no book-of-origin code.
const DefaultEntryType = "GEN"

// LineInput describes a proposed journal line.
type LineInput struct {
	AccountID   int64
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
	LineNumber  int32
}

// CreateInput groups fields required to create a journal entry. The entry is
// always persisted as a draft first; TargetStatus POSTED posts it in the same
// unit of work.
type CreateInput struct {
	CompanyID    int64
	EntryDate    time.Time
	EntryType    string
	Description  string
	TargetStatus EntryStatus
	Lines        []LineInput
	CreatedBy    int64
}

// UpdateInput carries a partial draft update. Nil pointers leave fields
// untouched; a non-nil Lines replaces the whole line set.
type UpdateInput struct {
	EntryID      int64
	EntryDate    *time.Time
	EntryType    *string
	Description  *string
	Lines        []LineInput
	TargetStatus EntryStatus // empty means stay in DRAFT
	ActorID      int64
}

// VoidRequestInput wraps parameters for the first void step.
type VoidRequestInput struct {
	EntryID int64
	ActorID int64
	Reason  string
}

// minVoidReasonLen forces a real justification, not a placeholder. Counted in
// runes so multibyte reasons are not over-credited.
const minVoidReasonLen = 10

func (in VoidRequestInput) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(in.Reason)) < minVoidReasonLen {
		return shared.ErrVoidReasonTooShort
	}
	return nil
}

// normalizeEntryType uppercases the code and enforces 2-8 ASCII alphanumerics.
// An empty code falls back to DefaultEntryType; the core keeps no type
// catalog, any well-formed code scopes its own sequence.
func normalizeEntryType(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultEntryType, nil
	}
	if len(code) < 2 || len(code) > 8 {
		return "", shared.ErrInvalidEntryType
	}
	for _, c := range code {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return "", shared.ErrInvalidEntryType
		}
	}
	return code, nil
}

// validateLines enforces per-line shape: non-negative amounts, exactly one
// side positive. Eligibility against the account directory happens in the
// service; balance is the caller's concern only when posting.
func validateLines(lines []LineInput) error {
	if len(lines) == 0 {
		return shared.ErrNoLines
	}
	for _, line := range lines {
		if line.AccountID == 0 {
			return shared.ErrAccountNotFound
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return shared.ErrLineNegative
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return shared.ErrLineBothSides
		}
		if line.Debit.IsZero() && line.Credit.IsZero() {
			return shared.ErrLineNoAmount
		}
	}
	return nil
}

// inputTotals sums both sides of a proposed line set.
func inputTotals(lines []LineInput) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, line := range lines {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	return debit, credit
}

// checkInputBalanced enforces the posting tolerance on a proposed line set.
func checkInputBalanced(lines []LineInput) error {
	debit, credit := inputTotals(lines)
	if debit.Sub(credit).Abs().GreaterThan(balanceTolerance) {
		return shared.ErrUnbalanced
	}
	return nil
}

// Validate ensures creation input meets minimum criteria and canonicalises
// the entry type. Balance is checked separately when posting is requested.
func (in *CreateInput) Validate() error {
	if in.CompanyID == 0 {
		return shared.ErrCompanyNotFound
	}
	if in.TargetStatus != StatusDraft && in.TargetStatus != StatusPosted {
		return shared.ErrInvalidTargetStatus
	}
	entryType, err := normalizeEntryType(in.EntryType)
	if err != nil {
		return err
	}
	in.EntryType = entryType
	return validateLines(in.Lines)
}
