package periods

import (
	"context"
	"errors"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/accounting/shared"
)

// Service is the period gate: it answers whether a date is postable and owns
// the idempotent open/close switches. Period creation is external.
type Service struct {
	repo  Repository
	cache *StatusCache
	now   func() time.Time
}

func NewService(repo Repository, cache *StatusCache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) Get(ctx context.Context, id int64) (Period, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, companyID int64) ([]Period, error) {
	return s.repo.List(ctx, companyID)
}

// IsOpenFor reports whether the period covering the date accepts postings.
// A date no period covers counts as not open.
func (s *Service) IsOpenFor(ctx context.Context, companyID int64, date time.Time) (bool, error) {
	if open, ok := s.cache.GetOpen(ctx, companyID, date); ok {
		return open, nil
	}
	period, err := s.repo.FindByDate(ctx, companyID, date)
	if err != nil {
		if errors.Is(err, shared.ErrPeriodNotFound) {
			s.cache.SetOpen(ctx, companyID, date, false)
			return false, nil
		}
		return false, err
	}
	open := period.Status == PeriodStatusOpen
	s.cache.SetOpen(ctx, companyID, date, open)
	return open, nil
}

// Close marks the period closed. Closing an already-closed period is a no-op.
func (s *Service) Close(ctx context.Context, id, actorID int64) (Period, error) {
	return s.setStatus(ctx, id, actorID, PeriodStatusClosed)
}

// Open marks the period open. Opening an already-open period is a no-op.
func (s *Service) Open(ctx context.Context, id, actorID int64) (Period, error) {
	return s.setStatus(ctx, id, actorID, PeriodStatusOpen)
}

func (s *Service) setStatus(ctx context.Context, id, actorID int64, status PeriodStatus) (Period, error) {
	period, err := s.repo.Get(ctx, id)
	if err != nil {
		return Period{}, err
	}
	if period.Status == status {
		return period, nil
	}
	updated, err := s.repo.SetStatus(ctx, id, status, actorID, s.now())
	if err != nil {
		return Period{}, err
	}
	s.cache.Invalidate(ctx, updated.CompanyID)
	return updated, nil
}
