package journals

import (
	"errors"
	"testing"

	"github.com/meridian-erp/meridian-erp/internal/accounting/shared"
)

func TestParseEntryStatus(t *testing.T) {
	cases := []struct {
		in   string
		want EntryStatus
		ok   bool
	}{
		{"DRAFT", StatusDraft, true},
		{"draft", StatusDraft, true},
		{" posted ", StatusPosted, true},
		{"Pending_Void", StatusPendingVoid, true},
		{"voided", StatusVoided, true},
		{"", "", false},
		{"CANCELLED", "", false},
	}
	for _, tc := range cases {
		got, err := ParseEntryStatus(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("ParseEntryStatus(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseEntryStatus(%q) should fail", tc.in)
		}
	}
}

func TestFormatEntryNumber(t *testing.T) {
	if got := FormatEntryNumber("PD", 1); got != "PD-0000001" {
		t.Fatalf("got %q", got)
	}
	if got := FormatEntryNumber("gen", 1234567); got != "GEN-1234567" {
		t.Fatalf("got %q", got)
	}
	if got := FormatEntryNumber("ADJ", 42); got != "ADJ-0000042" {
		t.Fatalf("got %q", got)
	}
}

func TestCheckBalancedTolerance(t *testing.T) {
	within := []JournalLine{
		{Debit: dec("100.00")},
		{Credit: dec("99.99")},
	}
	if err := checkBalanced(within); err != nil {
		t.Fatalf("0.01 difference must pass: %v", err)
	}

	beyond := []JournalLine{
		{Debit: dec("100.00")},
		{Credit: dec("99.98")},
	}
	if err := checkBalanced(beyond); !errors.Is(err, shared.ErrUnbalanced) {
		t.Fatalf("0.02 difference must fail, got %v", err)
	}
}
