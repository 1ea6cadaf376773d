package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/meridian-erp/meridian-erp/internal/accounting/shared"
)

type stubRepo struct {
	accounts map[int64]Account
}

func (r stubRepo) FindAccount(ctx context.Context, companyID, accountID int64) (Account, error) {
	a, ok := r.accounts[accountID]
	if !ok || a.CompanyID != companyID {
		return Account{}, shared.ErrAccountNotFound
	}
	return a, nil
}

func (r stubRepo) List(ctx context.Context, companyID int64) ([]Account, error) {
	var out []Account
	for _, a := range r.accounts {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func directoryService() *Service {
	return NewService(stubRepo{accounts: map[int64]Account{
		10: {ID: 10, CompanyID: 1, Code: "1101", IsDetail: true, IsActive: true},
		20: {ID: 20, CompanyID: 1, Code: "1100", IsDetail: false, IsActive: true},
		21: {ID: 21, CompanyID: 1, Code: "1102", IsDetail: true, IsActive: false},
		30: {ID: 30, CompanyID: 2, Code: "1101", IsDetail: true, IsActive: true},
	}})
}

func TestFindDetailAccount(t *testing.T) {
	service := directoryService()

	account, err := service.FindDetailAccount(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("active detail account rejected: %v", err)
	}
	if account.Code != "1101" {
		t.Fatalf("unexpected account %+v", account)
	}
}

func TestFindDetailAccountRejections(t *testing.T) {
	service := directoryService()

	cases := []struct {
		name      string
		companyID int64
		accountID int64
		err       error
	}{
		{"unknown account", 1, 99, shared.ErrAccountNotFound},
		{"other company's account", 1, 30, shared.ErrAccountNotFound},
		{"non-detail account", 1, 20, shared.ErrAccountNotPostable},
		{"inactive account", 1, 21, shared.ErrAccountInactive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.FindDetailAccount(context.Background(), tc.companyID, tc.accountID); !errors.Is(err, tc.err) {
				t.Fatalf("got %v, want %v", err, tc.err)
			}
		})
	}
}

func TestListScopedToCompany(t *testing.T) {
	service := directoryService()

	accounts, err := service.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(accounts) != 1 || accounts[0].ID != 30 {
		t.Fatalf("expected only company 2 accounts, got %+v", accounts)
	}
}
