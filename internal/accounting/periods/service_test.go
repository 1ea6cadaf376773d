package periods

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/accounting/shared"
)

type stubRepo struct {
	periods        map[int64]Period
	setStatusCalls int
}

func (r *stubRepo) Get(ctx context.Context, id int64) (Period, error) {
	p, ok := r.periods[id]
	if !ok {
		return Period{}, shared.ErrPeriodNotFound
	}
	return p, nil
}

func (r *stubRepo) List(ctx context.Context, companyID int64) ([]Period, error) {
	var out []Period
	for _, p := range r.periods {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubRepo) FindByDate(ctx context.Context, companyID int64, date time.Time) (Period, error) {
	for _, p := range r.periods {
		if p.CompanyID == companyID && p.Covers(date) {
			return p, nil
		}
	}
	return Period{}, shared.ErrPeriodNotFound
}

func (r *stubRepo) SetStatus(ctx context.Context, id int64, status PeriodStatus, actorID int64, at time.Time) (Period, error) {
	r.setStatusCalls++
	p, ok := r.periods[id]
	if !ok {
		return Period{}, shared.ErrPeriodNotFound
	}
	p.Status = status
	if status == PeriodStatusClosed {
		p.ClosedBy = &actorID
		p.ClosedAt = &at
	} else {
		p.ClosedBy = nil
		p.ClosedAt = nil
	}
	r.periods[id] = p
	return p, nil
}

func march2026() Period {
	return Period{
		ID:        1,
		CompanyID: 1,
		Code:      "2026-03",
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:    PeriodStatusOpen,
	}
}

func TestIsOpenFor(t *testing.T) {
	repo := &stubRepo{periods: map[int64]Period{1: march2026()}}
	service := NewService(repo, nil)

	open, err := service.IsOpenFor(context.Background(), 1, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	if err != nil || !open {
		t.Fatalf("covered open period: open=%v err=%v", open, err)
	}

	// a date no period covers is not postable
	open, err = service.IsOpenFor(context.Background(), 1, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	if err != nil || open {
		t.Fatalf("uncovered date must not be open: open=%v err=%v", open, err)
	}
}

func TestIsOpenForClosedPeriod(t *testing.T) {
	closed := march2026()
	closed.Status = PeriodStatusClosed
	repo := &stubRepo{periods: map[int64]Period{1: closed}}
	service := NewService(repo, nil)

	open, err := service.IsOpenFor(context.Background(), 1, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	if err != nil || open {
		t.Fatalf("closed period must not be open: open=%v err=%v", open, err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	repo := &stubRepo{periods: map[int64]Period{1: march2026()}}
	service := NewService(repo, nil)

	closed, err := service.Close(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Status != PeriodStatusClosed {
		t.Fatalf("expected CLOSED, got %s", closed.Status)
	}
	if closed.ClosedBy == nil || *closed.ClosedBy != 9 {
		t.Fatalf("closing actor not recorded: %+v", closed)
	}

	again, err := service.Close(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("second close: %v", err)
	}
	if again.Status != PeriodStatusClosed {
		t.Fatalf("expected CLOSED, got %s", again.Status)
	}
	if repo.setStatusCalls != 1 {
		t.Fatalf("second close must be a no-op, got %d writes", repo.setStatusCalls)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	repo := &stubRepo{periods: map[int64]Period{1: march2026()}}
	service := NewService(repo, nil)

	if _, err := service.Open(context.Background(), 1, 9); err != nil {
		t.Fatalf("open on open: %v", err)
	}
	if repo.setStatusCalls != 0 {
		t.Fatalf("opening an open period must not write, got %d", repo.setStatusCalls)
	}

	if _, err := service.Close(context.Background(), 1, 9); err != nil {
		t.Fatalf("close: %v", err)
	}
	reopened, err := service.Open(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Status != PeriodStatusOpen {
		t.Fatalf("expected OPEN, got %s", reopened.Status)
	}
	if reopened.ClosedBy != nil {
		t.Fatalf("reopen must clear close metadata: %+v", reopened)
	}
}

func TestSetStatusUnknownPeriod(t *testing.T) {
	repo := &stubRepo{periods: map[int64]Period{}}
	service := NewService(repo, nil)

	if _, err := service.Close(context.Background(), 77, 9); !errors.Is(err, shared.ErrPeriodNotFound) {
		t.Fatalf("expected ErrPeriodNotFound, got %v", err)
	}
}

func TestPeriodCovers(t *testing.T) {
	p := march2026()
	if !p.Covers(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("start date must be covered")
	}
	if !p.Covers(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("end date must be covered")
	}
	if p.Covers(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("day after end must not be covered")
	}
	if p.Covers(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("day before start must not be covered")
	}
}
