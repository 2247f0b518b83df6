package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/cardledger-backend/internal/billing"
	"github.com/GregMSThompson/cardledger-backend/internal/dto"
	"github.com/GregMSThompson/cardledger-backend/internal/errs"
	"github.com/GregMSThompson/cardledger-backend/internal/models"
	"github.com/GregMSThompson/cardledger-backend/internal/validate"
	"github.com/GregMSThompson/cardledger-backend/pkg/logger"
)

type cardCSStore interface {
	Create(ctx context.Context, uid string, card *models.CreditCard) error
	Get(ctx context.Context, uid, cardID string) (*models.CreditCard, error)
	List(ctx context.Context, uid string) ([]*models.CreditCard, error)
	Update(ctx context.Context, uid string, card *models.CreditCard) error
	Delete(ctx context.Context, uid, cardID string) error
	SetUsedLimit(ctx context.Context, uid, cardID string, used decimal.Decimal) error
}

type transactionCSStore interface {
	ListByCard(ctx context.Context, uid, cardID string, q dto.TransactionQuery) ([]models.Transaction, error)
	DeleteByCard(ctx context.Context, uid, cardID string) error
}

type cardService struct {
	cards cardCSStore
	txs   transactionCSStore
}

func NewCardService(cards cardCSStore, txs transactionCSStore) *cardService {
	return &cardService{cards: cards, txs: txs}
}

func (s *cardService) CreateCard(ctx context.Context, uid string, req dto.CreateCardRequest) (*models.CreditCard, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	cs := billing.CycleSettings{ClosingDay: req.ClosingDay, DueDay: req.DueDay}
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	if req.CreditLimit.IsNegative() {
		return nil, errs.NewValidationError("creditLimit must not be negative")
	}

	card := &models.CreditCard{
		CardID:      uuid.New().String(),
		AccountID:   req.AccountID,
		Name:        req.Name,
		LastDigits:  req.LastDigits,
		CreditLimit: req.CreditLimit,
		ClosingDay:  req.ClosingDay,
		DueDay:      req.DueDay,
		UsedLimit:   decimal.Zero,
	}
	if err := s.cards.Create(ctx, uid, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *cardService) GetCard(ctx context.Context, uid, cardID string) (*models.CreditCard, error) {
	return s.cards.Get(ctx, uid, cardID)
}

func (s *cardService) ListCards(ctx context.Context, uid string) ([]*models.CreditCard, error) {
	return s.cards.List(ctx, uid)
}

// UpdateCard applies the non-nil fields. Changing closingDay/dueDay affects
// future bucketing only; persisted bill dates on existing rows stay as they
// were allocated.
func (s *cardService) UpdateCard(ctx context.Context, uid, cardID string, req dto.UpdateCardRequest) (*models.CreditCard, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	card, err := s.cards.Get(ctx, uid, cardID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		card.Name = *req.Name
	}
	if req.LastDigits != nil {
		card.LastDigits = *req.LastDigits
	}
	if req.CreditLimit != nil {
		if req.CreditLimit.IsNegative() {
			return nil, errs.NewValidationError("creditLimit must not be negative")
		}
		card.CreditLimit = *req.CreditLimit
	}
	if req.ClosingDay != nil {
		card.ClosingDay = *req.ClosingDay
	}
	if req.DueDay != nil {
		card.DueDay = *req.DueDay
	}
	cs := billing.CycleSettings{ClosingDay: card.ClosingDay, DueDay: card.DueDay}
	if err := cs.Validate(); err != nil {
		return nil, err
	}

	if err := s.cards.Update(ctx, uid, card); err != nil {
		return nil, err
	}
	return card, nil
}

// DeleteCard cascades to the card's transactions first so no orphan rows
// survive.
func (s *cardService) DeleteCard(ctx context.Context, uid, cardID string) error {
	if _, err := s.cards.Get(ctx, uid, cardID); err != nil {
		return err
	}
	// TODO: Make deletions atomic or add retries to avoid partial cleanup on failure.
	if err := s.txs.DeleteByCard(ctx, uid, cardID); err != nil {
		return err
	}
	if err := s.cards.Delete(ctx, uid, cardID); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	log.Info("credit card deleted", "card_id", cardID)
	return nil
}

// RecomputeUsedLimit fully recalculates the card's used limit from its
// completed transactions and writes the sum back. It is idempotent: rerunning
// it with no intervening changes yields the same value, which is what makes
// it safe to fire after every mutation without coordination.
func (s *cardService) RecomputeUsedLimit(ctx context.Context, uid, cardID string) (dto.LimitSummary, error) {
	card, err := s.cards.Get(ctx, uid, cardID)
	if err != nil {
		return dto.LimitSummary{}, err
	}

	completed := models.StatusCompleted
	txs, err := s.txs.ListByCard(ctx, uid, cardID, dto.TransactionQuery{Status: &completed})
	if err != nil {
		return dto.LimitSummary{}, err
	}

	used := decimal.Zero
	for _, t := range txs {
		used = used.Add(t.Amount)
	}

	if err := s.cards.SetUsedLimit(ctx, uid, cardID, used); err != nil {
		return dto.LimitSummary{}, err
	}
	return dto.LimitSummary{
		CreditLimit:    card.CreditLimit,
		UsedLimit:      used,
		AvailableLimit: card.CreditLimit.Sub(used),
	}, nil
}
