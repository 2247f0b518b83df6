package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/GregMSThompson/cardledger-backend/internal/dto"
	"github.com/GregMSThompson/cardledger-backend/internal/models"
	"github.com/GregMSThompson/cardledger-backend/internal/validate"
)

type accountASStore interface {
	Create(ctx context.Context, uid string, a *models.Account) error
	Get(ctx context.Context, uid, accountID string) (*models.Account, error)
	List(ctx context.Context, uid string) ([]*models.Account, error)
}

type accountService struct {
	accounts accountASStore
}

func NewAccountService(accounts accountASStore) *accountService {
	return &accountService{accounts: accounts}
}

func (s *accountService) CreateAccount(ctx context.Context, uid string, req dto.CreateAccountRequest) (*models.Account, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	account := &models.Account{
		AccountID: uuid.New().String(),
		Name:      req.Name,
		Balance:   req.Balance,
		Currency:  req.Currency,
	}
	if err := s.accounts.Create(ctx, uid, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccount(ctx context.Context, uid, accountID string) (*models.Account, error) {
	return s.accounts.Get(ctx, uid, accountID)
}

func (s *accountService) ListAccounts(ctx context.Context, uid string) ([]*models.Account, error) {
	return s.accounts.List(ctx, uid)
}
