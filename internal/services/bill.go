package services

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/GregMSThompson/cardledger-backend/internal/billing"
	"github.com/GregMSThompson/cardledger-backend/internal/dto"
	"github.com/GregMSThompson/cardledger-backend/internal/errs"
	"github.com/GregMSThompson/cardledger-backend/internal/models"
	"github.com/GregMSThompson/cardledger-backend/internal/validate"
	"github.com/GregMSThompson/cardledger-backend/pkg/logger"
)

type cardBLStore interface {
	Get(ctx context.Context, uid, cardID string) (*models.CreditCard, error)
}

type transactionBLStore interface {
	ListByCard(ctx context.Context, uid, cardID string, q dto.TransactionQuery) ([]models.Transaction, error)
}

type paymentBLStore interface {
	Create(ctx context.Context, uid string, p *models.BillPayment) error
	ListByCard(ctx context.Context, uid, cardID string) ([]models.BillPayment, error)
}

type accountBLStore interface {
	Get(ctx context.Context, uid, accountID string) (*models.Account, error)
	Update(ctx context.Context, uid string, a *models.Account) error
}

// billNotifier delivers payment confirmations. Best-effort: failures are
// logged, never surfaced.
type billNotifier interface {
	BillPaid(ctx context.Context, uid string, p models.BillPayment) error
}

type billService struct {
	cards    cardBLStore
	txs      transactionBLStore
	payments paymentBLStore
	accounts accountBLStore
	notifier billNotifier
	today    func() civil.Date
}

func NewBillService(cards cardBLStore, txs transactionBLStore, payments paymentBLStore, accounts accountBLStore, notifier billNotifier) *billService {
	return &billService{
		cards:    cards,
		txs:      txs,
		payments: payments,
		accounts: accounts,
		notifier: notifier,
		today:    func() civil.Date { return civil.DateOf(time.Now()) },
	}
}

// GetBills returns the card's bills. All bills sort newest first; with
// openOnly the past-due ones are dropped and the bill to pay next comes
// first.
func (s *billService) GetBills(ctx context.Context, uid, cardID string, openOnly bool) (dto.BillsResult, error) {
	bills, paid, err := s.buildBills(ctx, uid, cardID)
	if err != nil {
		return dto.BillsResult{}, err
	}

	today := s.today()
	listed := bills
	if openOnly {
		listed = billing.OpenBills(bills, today)
	}

	result := dto.BillsResult{
		Bills:     make([]dto.BillView, 0, len(listed)),
		OpenTotal: billing.OpenTotal(bills, today),
	}
	for _, b := range listed {
		result.Bills = append(result.Bills, billView(b, today, paid))
	}
	if current, ok := billing.CurrentBill(bills, today); ok {
		result.CurrentBillKey = current.Key
	}
	return result, nil
}

// GetBill returns one bill with its transactions partitioned into the three
// display groups.
func (s *billService) GetBill(ctx context.Context, uid, cardID, billKey string) (dto.BillDetail, error) {
	if err := validate.BillKey(billKey); err != nil {
		return dto.BillDetail{}, err
	}
	bills, paid, err := s.buildBills(ctx, uid, cardID)
	if err != nil {
		return dto.BillDetail{}, err
	}

	for _, b := range bills {
		if b.Key != billKey {
			continue
		}
		g := billing.GroupBill(b)
		return dto.BillDetail{
			BillView:      billView(b, s.today(), paid),
			Subscriptions: dto.BillGroupView{Transactions: g.Recurring, Subtotal: g.RecurringTotal},
			Installments:  dto.BillGroupView{Transactions: g.Installments, Subtotal: g.InstallmentsTotal},
			Singles:       dto.BillGroupView{Transactions: g.Singles, Subtotal: g.SinglesTotal},
		}, nil
	}
	return dto.BillDetail{}, errs.NewNotFoundError("bill " + billKey + " not found")
}

// PayBill debits the chosen account by the bill's total and records the
// payment. The payment document is what makes the bill's paid state durable.
func (s *billService) PayBill(ctx context.Context, uid, cardID, billKey string, req dto.PayBillRequest) (dto.PayBillResult, error) {
	if err := validate.BillKey(billKey); err != nil {
		return dto.PayBillResult{}, err
	}
	if err := validate.Struct(req); err != nil {
		return dto.PayBillResult{}, err
	}

	bills, paid, err := s.buildBills(ctx, uid, cardID)
	if err != nil {
		return dto.PayBillResult{}, err
	}
	var bill *billing.Bill
	for i := range bills {
		if bills[i].Key == billKey {
			bill = &bills[i]
			break
		}
	}
	if bill == nil {
		return dto.PayBillResult{}, errs.NewNotFoundError("bill " + billKey + " not found")
	}
	if paid[billKey] {
		return dto.PayBillResult{}, errs.NewAlreadyExistsError("bill " + billKey + " is already paid")
	}

	account, err := s.accounts.Get(ctx, uid, req.AccountID)
	if err != nil {
		return dto.PayBillResult{}, err
	}
	account.Balance = account.Balance.Sub(bill.Total)
	if err := s.accounts.Update(ctx, uid, account); err != nil {
		return dto.PayBillResult{}, err
	}

	payment := models.BillPayment{
		PaymentID:    uuid.New().String(),
		CreditCardID: cardID,
		BillKey:      billKey,
		AccountID:    req.AccountID,
		Amount:       bill.Total,
		PaidAt:       time.Now(),
	}
	if err := s.payments.Create(ctx, uid, &payment); err != nil {
		return dto.PayBillResult{}, err
	}

	log := logger.FromContext(ctx)
	log.Info("bill paid", "card_id", cardID, "bill_key", billKey, "amount", payment.Amount)

	if err := s.notifier.BillPaid(ctx, uid, payment); err != nil {
		log.Warn("bill payment notification failed", "bill_key", billKey, "error", err)
	}

	return dto.PayBillResult{Payment: payment, AccountBalance: account.Balance}, nil
}

func (s *billService) buildBills(ctx context.Context, uid, cardID string) ([]billing.Bill, map[string]bool, error) {
	card, err := s.cards.Get(ctx, uid, cardID)
	if err != nil {
		return nil, nil, err
	}
	txs, err := s.txs.ListByCard(ctx, uid, cardID, dto.TransactionQuery{})
	if err != nil {
		return nil, nil, err
	}
	cs := billing.CycleSettings{ClosingDay: card.ClosingDay, DueDay: card.DueDay}
	bills, err := billing.BuildBills(txs, cs)
	if err != nil {
		return nil, nil, err
	}

	payments, err := s.payments.ListByCard(ctx, uid, cardID)
	if err != nil {
		return nil, nil, err
	}
	paid := make(map[string]bool, len(payments))
	for _, p := range payments {
		paid[p.BillKey] = true
	}
	return bills, paid, nil
}

func billView(b billing.Bill, today civil.Date, paid map[string]bool) dto.BillView {
	return dto.BillView{
		Key:              b.Key,
		ClosingDate:      b.ClosingDate.String(),
		DueDate:          b.DueDate.String(),
		TotalAmount:      b.Total,
		TransactionCount: len(b.Transactions),
		IsOpen:           b.IsOpen(today),
		IsClosed:         b.IsClosed(today),
		IsPaid:           paid[b.Key],
	}
}
