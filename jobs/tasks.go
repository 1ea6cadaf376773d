package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRefreshSummary refreshes the daily posting summary after a post.
	TaskRefreshSummary = "ledger:refresh_summary"
	// TaskCleanupIdempotency prunes expired idempotency keys.
	TaskCleanupIdempotency = "ledger:cleanup_idempotency"
)

// RefreshSummaryPayload identifies the posting that triggered the refresh.
type RefreshSummaryPayload struct {
	CompanyID int64  `json:"company_id"`
	EntryDate string `json:"entry_date"`
}

// NewRefreshSummaryTask constructs the refresh task.
func NewRefreshSummaryTask(companyID int64, entryDate time.Time) (*asynq.Task, error) {
	data, err := json.Marshal(RefreshSummaryPayload{
		CompanyID: companyID,
		EntryDate: entryDate.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRefreshSummary, data), nil
}

// NewRefreshSummaryHandler returns the handler refreshing the summary
// materialized view. The view covers all companies, so the payload only
// matters for logging.
func NewRefreshSummaryHandler(pool *pgxpool.Pool, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload RefreshSummaryPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if _, err := pool.Exec(ctx, `REFRESH MATERIALIZED VIEW CONCURRENTLY journal_daily_summary`); err != nil {
			logger.Error("refresh summary", slog.Int64("company_id", payload.CompanyID), slog.Any("error", err))
			return err
		}
		logger.Info("summary refreshed", slog.Int64("company_id", payload.CompanyID), slog.String("entry_date", payload.EntryDate))
		return nil
	}
}

// NewCleanupIdempotencyTask constructs the nightly cleanup task.
func NewCleanupIdempotencyTask() *asynq.Task {
	return asynq.NewTask(TaskCleanupIdempotency, nil)
}

// NewCleanupIdempotencyHandler prunes keys older than retention.
func NewCleanupIdempotencyHandler(store *shared.IdempotencyStore, retention time.Duration, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		if err := store.Cleanup(ctx, retention); err != nil {
			logger.Error("cleanup idempotency keys", slog.Any("error", err))
			return err
		}
		return nil
	}
}
