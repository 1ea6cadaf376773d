package journals

import (
	"errors"
	"testing"

	"github.com/meridian-erp/meridian-erp/internal/accounting/shared"
)

func TestNormalizeEntryType(t *testing.T) {
	cases := []struct {
		in   string
		want string
		err  error
	}{
		{"", DefaultEntryType, nil},
		{"  ", DefaultEntryType, nil},
		{"pd", "PD", nil},
		{"Adj2026", "ADJ2026", nil},
		{"X", "", shared.ErrInvalidEntryType},
		{"TOOLONGCODE", "", shared.ErrInvalidEntryType},
		{"AB-CD", "", shared.ErrInvalidEntryType},
		{"ab cd", "", shared.ErrInvalidEntryType},
	}
	for _, tc := range cases {
		got, err := normalizeEntryType(tc.in)
		if !errors.Is(err, tc.err) {
			t.Fatalf("normalizeEntryType(%q) err = %v, want %v", tc.in, err, tc.err)
		}
		if got != tc.want {
			t.Fatalf("normalizeEntryType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateLines(t *testing.T) {
	cases := []struct {
		name  string
		lines []LineInput
		err   error
	}{
		{"empty", nil, shared.ErrNoLines},
		{"missing account", []LineInput{{Debit: dec("10")}}, shared.ErrAccountNotFound},
		{"negative debit", []LineInput{{AccountID: 10, Debit: dec("-1")}}, shared.ErrLineNegative},
		{"negative credit", []LineInput{{AccountID: 10, Credit: dec("-1")}}, shared.ErrLineNegative},
		{"both sides", []LineInput{{AccountID: 10, Debit: dec("1"), Credit: dec("1")}}, shared.ErrLineBothSides},
		{"no amount", []LineInput{{AccountID: 10}}, shared.ErrLineNoAmount},
		{"debit only", []LineInput{{AccountID: 10, Debit: dec("1")}}, nil},
		{"credit only", []LineInput{{AccountID: 10, Credit: dec("1")}}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validateLines(tc.lines); !errors.Is(err, tc.err) {
				t.Fatalf("got %v, want %v", err, tc.err)
			}
		})
	}
}

func TestVoidRequestValidate(t *testing.T) {
	short := VoidRequestInput{Reason: "typo"}
	if err := short.Validate(); !errors.Is(err, shared.ErrVoidReasonTooShort) {
		t.Fatalf("expected ErrVoidReasonTooShort, got %v", err)
	}

	padded := VoidRequestInput{Reason: "   short    "}
	if err := padded.Validate(); !errors.Is(err, shared.ErrVoidReasonTooShort) {
		t.Fatalf("whitespace must not count, got %v", err)
	}

	// 5 runes but 10 bytes; length is counted in runes
	multibyte := VoidRequestInput{Reason: "αβγδε"}
	if err := multibyte.Validate(); !errors.Is(err, shared.ErrVoidReasonTooShort) {
		t.Fatalf("multibyte bytes must not count as characters, got %v", err)
	}

	ok := VoidRequestInput{Reason: "duplicate booking"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid reason rejected: %v", err)
	}

	okMultibyte := VoidRequestInput{Reason: "διπλή εγγραφή"}
	if err := okMultibyte.Validate(); err != nil {
		t.Fatalf("valid multibyte reason rejected: %v", err)
	}
}

func TestCreateInputValidate(t *testing.T) {
	base := func() CreateInput {
		return CreateInput{
			CompanyID:    1,
			EntryType:    "pd",
			TargetStatus: StatusDraft,
			Lines: []LineInput{
				{AccountID: 10, Debit: dec("5")},
				{AccountID: 11, Credit: dec("5")},
			},
		}
	}

	in := base()
	if err := in.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	if in.EntryType != "PD" {
		t.Fatalf("entry type must be canonicalised, got %q", in.EntryType)
	}

	in = base()
	in.CompanyID = 0
	if err := in.Validate(); !errors.Is(err, shared.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}

	in = base()
	in.TargetStatus = StatusVoided
	if err := in.Validate(); !errors.Is(err, shared.ErrInvalidTargetStatus) {
		t.Fatalf("expected ErrInvalidTargetStatus, got %v", err)
	}

	in = base()
	in.EntryType = ""
	if err := in.Validate(); err != nil {
		t.Fatalf("blank type must default: %v", err)
	}
	if in.EntryType != DefaultEntryType {
		t.Fatalf("expected %q, got %q", DefaultEntryType, in.EntryType)
	}
}
