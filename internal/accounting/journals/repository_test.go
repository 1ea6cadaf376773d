package journals

import (
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestPostingTxIsolation(t *testing.T) {
	// The allocator locks the company row and then recomputes the max from
	// journal_entries. A waiter unblocked by a concurrent poster's commit must
	// see that poster's row, which requires statement-level snapshots.
	if postingTxOptions.IsoLevel != pgx.ReadCommitted {
		t.Fatalf("posting transactions must run at read committed, got %q", postingTxOptions.IsoLevel)
	}
}
