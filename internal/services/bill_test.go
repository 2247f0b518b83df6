package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/GregMSThompson/cardledger-backend/internal/dto"
	"github.com/GregMSThompson/cardledger-backend/internal/errs"
	"github.com/GregMSThompson/cardledger-backend/internal/models"
)

// --- Fakes ---

type fakePaymentStore struct {
	payments  []models.BillPayment
	createErr error
}

func (f *fakePaymentStore) Create(_ context.Context, _ string, p *models.BillPayment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.payments = append(f.payments, *p)
	return nil
}

func (f *fakePaymentStore) ListByCard(_ context.Context, _, cardID string) ([]models.BillPayment, error) {
	out := make([]models.BillPayment, 0, len(f.payments))
	for _, p := range f.payments {
		if p.CreditCardID == cardID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeAccountStore struct {
	accounts  map[string]*models.Account
	updateErr error
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: make(map[string]*models.Account)}
}

func (f *fakeAccountStore) Get(_ context.Context, _, accountID string) (*models.Account, error) {
	a, ok := f.accounts[accountID]
	if !ok {
		return nil, errs.NewNotFoundError("account not found")
	}
	return a, nil
}

func (f *fakeAccountStore) Update(_ context.Context, _ string, a *models.Account) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.accounts[a.AccountID] = a
	return nil
}

type fakeBillNotifier struct {
	calls int
	err   error
	last  models.BillPayment
}

func (f *fakeBillNotifier) BillPaid(_ context.Context, _ string, p models.BillPayment) error {
	f.calls++
	f.last = p
	return f.err
}

type billFixture struct {
	cards    *fakeCardStore
	txs      *fakeCardTxStore
	payments *fakePaymentStore
	accounts *fakeAccountStore
	notifier *fakeBillNotifier
	svc      *billService
}

// newBillFixture wires a bill service over a card closing on the 10th and
// due on the 15th, frozen at the given date.
func newBillFixture(today civil.Date, txs ...models.Transaction) *billFixture {
	f := &billFixture{
		cards:    cardWithCycle(10, 15),
		txs:      &fakeCardTxStore{txs: txs},
		payments: &fakePaymentStore{},
		accounts: newFakeAccountStore(),
		notifier: &fakeBillNotifier{},
	}
	f.svc = NewBillService(f.cards, f.txs, f.payments, f.accounts, f.notifier)
	f.svc.today = func() civil.Date { return today }
	return f
}

func billTx(id, date, amount string, status models.TransactionStatus) models.Transaction {
	return models.Transaction{
		TransactionID: id,
		CreditCardID:  "c1",
		Amount:        money(amount),
		Date:          date,
		Status:        status,
	}
}

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

// --- GetBills tests ---

func TestGetBills_NewestFirstWithCurrentAndOpenTotal(t *testing.T) {
	f := newBillFixture(day(2025, time.January, 12),
		billTx("t1", "2025-01-09", "100", models.StatusCompleted), // bill 2025-01
		billTx("t2", "2025-01-10", "50", models.StatusCompleted),  // closing day rolls to 2025-02
	)

	result, err := f.svc.GetBills(context.Background(), "uid1", "c1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Bills) != 2 {
		t.Fatalf("expected 2 bills, got %d", len(result.Bills))
	}
	if result.Bills[0].Key != "2025-02" || result.Bills[1].Key != "2025-01" {
		t.Errorf("expected newest-first order [2025-02 2025-01], got [%s %s]", result.Bills[0].Key, result.Bills[1].Key)
	}
	if result.CurrentBillKey != "2025-01" {
		t.Errorf("expected current bill 2025-01, got %s", result.CurrentBillKey)
	}
	// 2025-01 already closed on the 12th, so only 2025-02 still accumulates
	if !result.OpenTotal.Equal(money("50")) {
		t.Errorf("expected open total 50, got %s", result.OpenTotal)
	}

	jan := result.Bills[1]
	if !jan.IsOpen || !jan.IsClosed {
		t.Errorf("2025-01 should be closed but still open on the 12th, got open=%v closed=%v", jan.IsOpen, jan.IsClosed)
	}
	feb := result.Bills[0]
	if !feb.IsOpen || feb.IsClosed {
		t.Errorf("2025-02 should be open and not closed, got open=%v closed=%v", feb.IsOpen, feb.IsClosed)
	}
}

func TestGetBills_OpenOnlyDropsPastDueAndSortsAscending(t *testing.T) {
	f := newBillFixture(day(2025, time.February, 12),
		billTx("t1", "2025-01-09", "100", models.StatusCompleted), // 2025-01, past due
		billTx("t2", "2025-01-10", "50", models.StatusCompleted),  // 2025-02
		billTx("t3", "2025-02-11", "25", models.StatusCompleted),  // 2025-03
	)

	result, err := f.svc.GetBills(context.Background(), "uid1", "c1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Bills) != 2 {
		t.Fatalf("expected 2 open bills, got %d", len(result.Bills))
	}
	if result.Bills[0].Key != "2025-02" || result.Bills[1].Key != "2025-03" {
		t.Errorf("expected ascending order [2025-02 2025-03], got [%s %s]", result.Bills[0].Key, result.Bills[1].Key)
	}
	if result.CurrentBillKey != "2025-02" {
		t.Errorf("expected current bill 2025-02, got %s", result.CurrentBillKey)
	}
}

func TestGetBills_MarksPaidBills(t *testing.T) {
	f := newBillFixture(day(2025, time.January, 12),
		billTx("t1", "2025-01-09", "100", models.StatusCompleted),
	)
	f.payments.payments = []models.BillPayment{{PaymentID: "p1", CreditCardID: "c1", BillKey: "2025-01"}}

	result, err := f.svc.GetBills(context.Background(), "uid1", "c1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Bills) != 1 || !result.Bills[0].IsPaid {
		t.Errorf("expected bill 2025-01 to be marked paid, got %+v", result.Bills)
	}
}

// --- GetBill tests ---

func TestGetBill_GroupsPartitionTheBill(t *testing.T) {
	subscription := billTx("t1", "2025-01-05", "15.99", models.StatusCompleted)
	subscription.IsRecurring = true
	installment := billTx("t2", "2025-01-06", "33.34", models.StatusCompleted)
	installment.InstallmentIndex = 1
	installment.InstallmentCount = 3
	single := billTx("t3", "2025-01-07", "10", models.StatusCompleted)
	pendingSingle := billTx("t4", "2025-01-08", "5", models.StatusPending)

	f := newBillFixture(day(2025, time.January, 12), subscription, installment, single, pendingSingle)

	detail, err := f.svc.GetBill(context.Background(), "uid1", "c1", "2025-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.Subscriptions.Transactions) != 1 {
		t.Errorf("expected 1 subscription, got %d", len(detail.Subscriptions.Transactions))
	}
	if len(detail.Installments.Transactions) != 1 {
		t.Errorf("expected 1 installment, got %d", len(detail.Installments.Transactions))
	}
	if len(detail.Singles.Transactions) != 2 {
		t.Errorf("expected 2 singles, got %d", len(detail.Singles.Transactions))
	}

	sum := detail.Subscriptions.Subtotal.Add(detail.Installments.Subtotal).Add(detail.Singles.Subtotal)
	if !sum.Equal(detail.TotalAmount) {
		t.Errorf("group subtotals %s do not sum to the bill total %s", sum, detail.TotalAmount)
	}
	if !detail.TotalAmount.Equal(money("59.33")) {
		t.Errorf("expected total 59.33 (pending excluded), got %s", detail.TotalAmount)
	}
}

func TestGetBill_MalformedKey(t *testing.T) {
	f := newBillFixture(day(2025, time.January, 12))
	_, err := f.svc.GetBill(context.Background(), "uid1", "c1", "january")
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestGetBill_NotFound(t *testing.T) {
	f := newBillFixture(day(2025, time.January, 12),
		billTx("t1", "2025-01-09", "100", models.StatusCompleted),
	)
	_, err := f.svc.GetBill(context.Background(), "uid1", "c1", "2030-01")
	var nfe *errs.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}

// --- PayBill tests ---

func TestPayBill_DebitsAccountAndRecordsPayment(t *testing.T) {
	f := newBillFixture(day(2025, time.January, 12),
		billTx("t1", "2025-01-09", "100", models.StatusCompleted),
	)
	f.accounts.accounts["acc1"] = &models.Account{AccountID: "acc1", Balance: money("500")}

	result, err := f.svc.PayBill(context.Background(), "uid1", "c1", "2025-01", dto.PayBillRequest{AccountID: "acc1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.AccountBalance.Equal(money("400")) {
		t.Errorf("expected balance 400 after payment, got %s", result.AccountBalance)
	}
	if !result.Payment.Amount.Equal(money("100")) {
		t.Errorf("expected payment amount 100, got %s", result.Payment.Amount)
	}
	if len(f.payments.payments) != 1 || f.payments.payments[0].BillKey != "2025-01" {
		t.Errorf("payment was not recorded: %+v", f.payments.payments)
	}
	if f.notifier.calls != 1 {
		t.Errorf("expected 1 notification, got %d", f.notifier.calls)
	}
}

func TestPayBill_AlreadyPaid(t *testing.T) {
	f := newBillFixture(day(2025, time.January, 12),
		billTx("t1", "2025-01-09", "100", models.StatusCompleted),
	)
	f.accounts.accounts["acc1"] = &models.Account{AccountID: "acc1", Balance: money("500")}
	f.payments.payments = []models.BillPayment{{PaymentID: "p1", CreditCardID: "c1", BillKey: "2025-01"}}

	_, err := f.svc.PayBill(context.Background(), "uid1", "c1", "2025-01", dto.PayBillRequest{AccountID: "acc1"})
	var aee *errs.AlreadyExistsError
	if !errors.As(err, &aee) {
		t.Fatalf("expected AlreadyExistsError, got %T: %v", err, err)
	}
}

func TestPayBill_NotifierFailureIgnored(t *testing.T) {
	f := newBillFixture(day(2025, time.January, 12),
		billTx("t1", "2025-01-09", "100", models.StatusCompleted),
	)
	f.accounts.accounts["acc1"] = &models.Account{AccountID: "acc1", Balance: money("500")}
	f.notifier.err = errors.New("fcm unavailable")

	_, err := f.svc.PayBill(context.Background(), "uid1", "c1", "2025-01", dto.PayBillRequest{AccountID: "acc1"})
	if err != nil {
		t.Fatalf("a notification failure must not fail the payment, got: %v", err)
	}
	if len(f.payments.payments) != 1 {
		t.Errorf("expected payment to be recorded, got %d", len(f.payments.payments))
	}
}

func TestPayBill_AccountNotFound(t *testing.T) {
	f := newBillFixture(day(2025, time.January, 12),
		billTx("t1", "2025-01-09", "100", models.StatusCompleted),
	)
	_, err := f.svc.PayBill(context.Background(), "uid1", "c1", "2025-01", dto.PayBillRequest{AccountID: "nonexistent"})
	var nfe *errs.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}
