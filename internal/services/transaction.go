package services

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/GregMSThompson/cardledger-backend/internal/billing"
	"github.com/GregMSThompson/cardledger-backend/internal/dto"
	"github.com/GregMSThompson/cardledger-backend/internal/errs"
	"github.com/GregMSThompson/cardledger-backend/internal/models"
	"github.com/GregMSThompson/cardledger-backend/internal/store"
	"github.com/GregMSThompson/cardledger-backend/internal/validate"
	"github.com/GregMSThompson/cardledger-backend/pkg/logger"
)

type transactionTSStore interface {
	CreateBatch(ctx context.Context, uid string, txs []models.Transaction) ([]models.Transaction, []store.BatchFailure)
	Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error)
	ListByCard(ctx context.Context, uid, cardID string, q dto.TransactionQuery) ([]models.Transaction, error)
	Update(ctx context.Context, uid string, t *models.Transaction) error
	Delete(ctx context.Context, uid, transactionID string) error
}

type cardTSStore interface {
	Get(ctx context.Context, uid, cardID string) (*models.CreditCard, error)
}

// limitRecomputer is the card service's recompute entry point. Failures from
// it are never surfaced: the derived limit self-heals on the next run.
type limitRecomputer interface {
	RecomputeUsedLimit(ctx context.Context, uid, cardID string) (dto.LimitSummary, error)
}

type transactionService struct {
	txs             transactionTSStore
	cards           cardTSStore
	limits          limitRecomputer
	defaultCurrency string
}

func NewTransactionService(txs transactionTSStore, cards cardTSStore, limits limitRecomputer, defaultCurrency string) *transactionService {
	return &transactionService{
		txs:             txs,
		cards:           cards,
		limits:          limits,
		defaultCurrency: defaultCurrency,
	}
}

// CreatePurchase expands a purchase into installment rows and persists them
// best-effort, in installment order. A failed row does not abort the rest;
// the result reports both sides so the caller can reconcile.
func (s *transactionService) CreatePurchase(ctx context.Context, uid, cardID string, req dto.CreatePurchaseRequest) (dto.CreatePurchaseResult, error) {
	if err := validate.Struct(req); err != nil {
		return dto.CreatePurchaseResult{}, err
	}
	card, err := s.cards.Get(ctx, uid, cardID)
	if err != nil {
		return dto.CreatePurchaseResult{}, err
	}

	purchase, err := civil.ParseDate(req.PurchaseDate)
	if err != nil {
		return dto.CreatePurchaseResult{}, errs.NewValidationError("purchaseDate must be formatted as YYYY-MM-DD")
	}
	count := req.InstallmentCount
	if count == 0 {
		count = 1
	}

	cs := billing.CycleSettings{ClosingDay: card.ClosingDay, DueDay: card.DueDay}
	drafts, err := billing.ExpandInstallments(req.TotalAmount, count, purchase, cs, billing.Metadata{
		Category:    req.Category,
		Description: req.Description,
		Merchant:    req.Merchant,
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		return dto.CreatePurchaseResult{}, err
	}

	status := models.TransactionStatus(req.Status)
	if req.Status == "" {
		status = models.StatusCompleted
	}
	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	rows := make([]models.Transaction, len(drafts))
	for i, d := range drafts {
		rows[i] = models.Transaction{
			TransactionID:    uuid.New().String(),
			CreditCardID:     cardID,
			Amount:           d.Amount,
			Currency:         currency,
			Category:         d.Metadata.Category,
			Description:      d.Metadata.Description,
			Merchant:         d.Metadata.Merchant,
			PurchaseDate:     d.PurchaseDate.String(),
			Date:             d.ReferenceDate.String(),
			BillKey:          d.Bucket.Key,
			ClosingDate:      d.Bucket.ClosingDate.String(),
			DueDate:          d.Bucket.DueDate.String(),
			InstallmentIndex: d.InstallmentIndex,
			InstallmentCount: d.InstallmentCount,
			IsRecurring:      d.Metadata.IsRecurring,
			Status:           status,
		}
	}

	created, failures := s.txs.CreateBatch(ctx, uid, rows)

	result := dto.CreatePurchaseResult{Created: created}
	log := logger.FromContext(ctx)
	for _, f := range failures {
		result.Failed = append(result.Failed, dto.FailedInstallment{
			InstallmentIndex: rows[f.Index].InstallmentIndex,
			Error:            f.Err.Error(),
		})
		log.Warn("installment row failed to persist",
			"card_id", cardID,
			"installment", rows[f.Index].InstallmentIndex,
			"error", f.Err)
	}

	s.recomputeLimit(ctx, uid, cardID)
	return result, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, uid, transactionID string) (*models.Transaction, error) {
	return s.txs.Get(ctx, uid, transactionID)
}

func (s *transactionService) ListTransactions(ctx context.Context, uid, cardID string, q dto.TransactionQuery) ([]models.Transaction, error) {
	if _, err := s.cards.Get(ctx, uid, cardID); err != nil {
		return nil, err
	}
	return s.txs.ListByCard(ctx, uid, cardID, q)
}

func (s *transactionService) UpdateTransaction(ctx context.Context, uid, transactionID string, req dto.UpdateTransactionRequest) (*models.Transaction, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	t, err := s.txs.Get(ctx, uid, transactionID)
	if err != nil {
		return nil, err
	}

	affectsLimit := false
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, errs.NewValidationError("amount must be greater than zero")
		}
		t.Amount = *req.Amount
		affectsLimit = true
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Merchant != nil {
		t.Merchant = *req.Merchant
	}
	if req.IsRecurring != nil {
		t.IsRecurring = *req.IsRecurring
	}
	if req.Status != nil {
		status := models.TransactionStatus(*req.Status)
		if !status.IsValid() {
			return nil, errs.NewValidationError("status must be one of: pending, completed, cancelled")
		}
		t.Status = status
		affectsLimit = true
	}
	if req.Date != nil {
		// a moved reference date re-runs the closing-day allocation
		ref, err := civil.ParseDate(*req.Date)
		if err != nil {
			return nil, errs.NewValidationError("date must be formatted as YYYY-MM-DD")
		}
		card, err := s.cards.Get(ctx, uid, t.CreditCardID)
		if err != nil {
			return nil, err
		}
		bucket := billing.AllocateBucket(ref, billing.CycleSettings{ClosingDay: card.ClosingDay, DueDay: card.DueDay})
		t.Date = ref.String()
		t.BillKey = bucket.Key
		t.ClosingDate = bucket.ClosingDate.String()
		t.DueDate = bucket.DueDate.String()
	}

	if err := s.txs.Update(ctx, uid, t); err != nil {
		return nil, err
	}
	if affectsLimit {
		s.recomputeLimit(ctx, uid, t.CreditCardID)
	}
	return t, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, uid, transactionID string) error {
	t, err := s.txs.Get(ctx, uid, transactionID)
	if err != nil {
		return err
	}
	if err := s.txs.Delete(ctx, uid, transactionID); err != nil {
		return err
	}
	s.recomputeLimit(ctx, uid, t.CreditCardID)
	return nil
}

// recomputeLimit refreshes the card's derived used limit after a mutation.
// The mutation already succeeded, so a recompute failure is logged and
// swallowed; the value is reconstructed by the next successful run.
func (s *transactionService) recomputeLimit(ctx context.Context, uid, cardID string) {
	if _, err := s.limits.RecomputeUsedLimit(ctx, uid, cardID); err != nil {
		log := logger.FromContext(ctx)
		log.Error("used limit recompute failed", "card_id", cardID, "error", err)
	}
}
