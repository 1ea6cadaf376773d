package shared

import "errors"

// Validation errors: the caller sent something malformed. Nothing is persisted.
var (
	// ErrNoLines indicates an entry without any lines.
	ErrNoLines = errors.New("accounting: entry requires at least one line")
	// ErrLineBothSides indicates a line carrying both debit and credit.
	ErrLineBothSides = errors.New("accounting: line cannot carry both debit and credit")
	// ErrLineNoAmount indicates a line with neither debit nor credit.
	ErrLineNoAmount = errors.New("accounting: line requires a debit or credit amount")
	// ErrLineNegative indicates a negative debit or credit.
	ErrLineNegative = errors.New("accounting: line amounts must not be negative")
	// ErrInvalidEntryType indicates a type code outside 2-8 ASCII alphanumerics.
	ErrInvalidEntryType = errors.New("accounting: entry type must be 2-8 alphanumeric characters")
	// ErrInvalidTargetStatus indicates a requested status other than DRAFT or POSTED.
	ErrInvalidTargetStatus = errors.New("accounting: target status must be DRAFT or POSTED")
	// ErrAccountNotFound indicates a line referencing an unknown account for the company.
	ErrAccountNotFound = errors.New("accounting: account not found for company")
	// ErrAccountInactive indicates a line referencing a disabled account.
	ErrAccountInactive = errors.New("accounting: account is inactive")
	// ErrAccountNotPostable indicates a line referencing a non-detail account.
	ErrAccountNotPostable = errors.New("accounting: postings are allowed on detail accounts only")
	// ErrVoidReasonTooShort indicates a void justification under the minimum length.
	ErrVoidReasonTooShort = errors.New("accounting: void reason requires at least 10 characters")
	// ErrCompanyNotFound indicates an unknown company reference.
	ErrCompanyNotFound = errors.New("accounting: company not found")
)

// ErrUnbalanced indicates debit and credit totals differ beyond the posting
// tolerance. The draft, when one exists, survives so the caller can fix it.
var ErrUnbalanced = errors.New("accounting: debit and credit totals must balance")

// State errors: the transition is illegal for the current status. Never
// retried, never coerced.
var (
	// ErrNotDraft indicates a mutation on a non-draft entry.
	ErrNotDraft = errors.New("accounting: only draft entries are mutable")
	// ErrNotPosted indicates a void request on an entry that is not posted.
	ErrNotPosted = errors.New("accounting: only posted entries can be voided")
	// ErrNotPendingVoid indicates a void authorization without a prior request.
	ErrNotPendingVoid = errors.New("accounting: entry has no pending void request")
)

var (
	// ErrPeriodClosed indicates the period covering the entry date is not open.
	ErrPeriodClosed = errors.New("accounting: period is closed for posting")
	// ErrPeriodNotFound indicates no period record covers the requested date.
	ErrPeriodNotFound = errors.New("accounting: no period covers this date")
	// ErrEntryNotFound indicates a missing journal entry.
	ErrEntryNotFound = errors.New("accounting: journal entry not found")
	// ErrLockContention indicates the sequence allocator lock could not be
	// acquired in time. The one class where a bounded caller retry makes sense.
	ErrLockContention = errors.New("accounting: sequence allocator lock contention")
)

// IsValidation reports whether err belongs to the validation class.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrNoLines, ErrLineBothSides, ErrLineNoAmount, ErrLineNegative,
		ErrInvalidEntryType, ErrInvalidTargetStatus, ErrAccountNotFound,
		ErrAccountInactive, ErrAccountNotPostable, ErrVoidReasonTooShort,
		ErrCompanyNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsState reports whether err belongs to the illegal-transition class.
func IsState(err error) bool {
	return errors.Is(err, ErrNotDraft) || errors.Is(err, ErrNotPosted) || errors.Is(err, ErrNotPendingVoid)
}
