package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/repository"
)

type AccountService struct {
	accounts *repository.AccountRepo
}

func NewAccountService(accounts *repository.AccountRepo) *AccountService {
	return &AccountService{accounts: accounts}
}

// AccountID derives the store identity from the Telegram user id.
func AccountID(telegramID int64) string {
	return strconv.FormatInt(telegramID, 10)
}

func (s *AccountService) FindOrCreate(ctx context.Context, telegramID int64, firstName, username string) (*domain.Account, bool, error) {
	id := AccountID(telegramID)
	acct, err := s.accounts.Get(ctx, id)
	if err == nil {
		if acct.FirstName != firstName || acct.Username != username {
			acct.FirstName = firstName
			acct.Username = username
			if err := s.accounts.Save(ctx, acct); err != nil {
				return nil, false, err
			}
		}
		return acct, false, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, false, err
	}

	acct = &domain.Account{
		ID:             id,
		TelegramID:     telegramID,
		FirstName:      firstName,
		Username:       username,
		Balance:        decimal.Zero,
		TotalEarned:    decimal.Zero,
		TotalWithdrawn: decimal.Zero,
		JoinedAt:       time.Now(),
	}
	if err := s.accounts.Save(ctx, acct); err != nil {
		return nil, false, err
	}
	return acct, true, nil
}

func (s *AccountService) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accounts.Get(ctx, accountID)
}

// AttachReferrer records who referred the account. Only a fresh account that
// has never earned can be attached, the referrer must exist, and
// self-referral is rejected.
func (s *AccountService) AttachReferrer(ctx context.Context, accountID, referrerID string) (bool, error) {
	if accountID == referrerID {
		return false, nil
	}
	acct, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return false, err
	}
	if acct.ReferredBy != "" || !acct.TotalEarned.IsZero() {
		return false, nil
	}
	if _, err := s.accounts.Get(ctx, referrerID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return false, nil
		}
		return false, err
	}
	acct.ReferredBy = referrerID
	if err := s.accounts.Save(ctx, acct); err != nil {
		return false, err
	}
	return true, nil
}
