package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRefreshSummaryTask(t *testing.T) {
	task, err := NewRefreshSummaryTask(7, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if task.Type() != TaskRefreshSummary {
		t.Fatalf("unexpected task type %q", task.Type())
	}

	var payload RefreshSummaryPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.CompanyID != 7 || payload.EntryDate != "2026-03-14" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestRefreshSummaryHandlerSkipsBadPayload(t *testing.T) {
	handler := NewRefreshSummaryHandler(nil, discardLogger())

	task := asynq.NewTask(TaskRefreshSummary, []byte("{not json"))
	err := handler(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed payload must not be retried, got %v", err)
	}
}

func TestNewCleanupIdempotencyTask(t *testing.T) {
	task := NewCleanupIdempotencyTask()
	if task.Type() != TaskCleanupIdempotency {
		t.Fatalf("unexpected task type %q", task.Type())
	}
}
