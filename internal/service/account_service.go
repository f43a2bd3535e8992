package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"tradejournal/internal/config"
	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

var (
	ErrAccountLimitReached = errors.New("account limit reached for plan")
	ErrNotAccountOwner     = errors.New("account does not belong to user")
)

type AccountService struct {
	Repo  repository.Repository
	Plans config.PlansConfig
}

type AccountInput struct {
	Name           string
	AccountType    string
	InitialCapital decimal.Decimal
	Currency       string
}

func (s *AccountService) Create(ctx context.Context, userID, plan string, in AccountInput) (*models.TradingAccount, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	if limit, unlimited := s.Plans.AccountLimit(plan); !unlimited {
		total, err := s.Repo.CountAccountsByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if total >= int64(limit) {
			return nil, ErrAccountLimitReached
		}
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}
	account := &models.TradingAccount{
		UserID:         userID,
		Name:           in.Name,
		AccountType:    in.AccountType,
		InitialCapital: in.InitialCapital,
		CurrentCapital: in.InitialCapital,
		Currency:       currency,
		IsActive:       true,
	}
	if err := s.Repo.InsertAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) List(ctx context.Context, userID string) ([]repository.AccountWithStats, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	return s.Repo.ListAccountsWithStats(ctx, userID)
}

type AccountUpdate struct {
	Name        *string
	AccountType *string
	Currency    *string
	IsActive    *bool
}

// Update changes account metadata only. Capital fields are not
// accepted here: initial_capital is immutable and current_capital only
// moves through trade P&L.
func (s *AccountService) Update(ctx context.Context, userID, accountID string, in AccountUpdate) (*models.TradingAccount, error) {
	account, err := s.owned(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.AccountType != nil {
		updates["account_type"] = *in.AccountType
	}
	if in.Currency != nil {
		updates["currency"] = *in.Currency
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if err := s.Repo.UpdateAccount(ctx, account.ID, updates); err != nil {
		return nil, err
	}
	return s.Repo.GetAccountByID(ctx, account.ID)
}

func (s *AccountService) Delete(ctx context.Context, userID, accountID string) error {
	account, err := s.owned(ctx, userID, accountID)
	if err != nil {
		return err
	}
	return s.Repo.DeleteAccount(ctx, account.ID)
}

type AccountLimits struct {
	Current   int64 `json:"current"`
	Limit     int   `json:"limit"`
	Unlimited bool  `json:"unlimited"`
}

func (s *AccountService) Limits(ctx context.Context, userID, plan string) (AccountLimits, error) {
	if s == nil || s.Repo == nil {
		return AccountLimits{}, nil
	}
	total, err := s.Repo.CountAccountsByUser(ctx, userID)
	if err != nil {
		return AccountLimits{}, err
	}
	limit, unlimited := s.Plans.AccountLimit(plan)
	return AccountLimits{Current: total, Limit: limit, Unlimited: unlimited}, nil
}

func (s *AccountService) owned(ctx context.Context, userID, accountID string) (*models.TradingAccount, error) {
	account, err := s.Repo.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if account.UserID != userID {
		return nil, ErrNotAccountOwner
	}
	return account, nil
}
