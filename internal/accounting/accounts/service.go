package accounts

import (
	"context"

	"github.com/meridian-erp/meridian-erp/internal/accounting/shared"
)

// Service exposes the account directory to the posting engine.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, companyID int64) ([]Account, error) {
	return s.repo.List(ctx, companyID)
}

// FindDetailAccount resolves an account eligible for postings: it must belong
// to the company, be active, and be a detail (leaf) node.
func (s *Service) FindDetailAccount(ctx context.Context, companyID, accountID int64) (Account, error) {
	account, err := s.repo.FindAccount(ctx, companyID, accountID)
	if err != nil {
		return Account{}, err
	}
	if !account.IsActive {
		return Account{}, shared.ErrAccountInactive
	}
	if !account.IsDetail {
		return Account{}, shared.ErrAccountNotPostable
	}
	return account, nil
}
