package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/cardledger-backend/internal/errs"
	"github.com/GregMSThompson/cardledger-backend/internal/models"
)

type paymentStore struct {
	client *firestore.Client
}

func NewPaymentStore(client *firestore.Client) *paymentStore {
	return &paymentStore{client: client}
}

func (s *paymentStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("bill_payments")
}

// paymentDoc is the Firestore shape of a bill payment; see doc.go for why the
// amount is a string.
type paymentDoc struct {
	PaymentID    string    `firestore:"paymentId"`
	CreditCardID string    `firestore:"creditCardId"`
	BillKey      string    `firestore:"billKey"`
	AccountID    string    `firestore:"accountId"`
	Amount       string    `firestore:"amount"`
	PaidAt       time.Time `firestore:"paidAt"`
}

func paymentToDoc(p *models.BillPayment) paymentDoc {
	return paymentDoc{
		PaymentID:    p.PaymentID,
		CreditCardID: p.CreditCardID,
		BillKey:      p.BillKey,
		AccountID:    p.AccountID,
		Amount:       p.Amount.String(),
		PaidAt:       p.PaidAt,
	}
}

func (d paymentDoc) toModel() (*models.BillPayment, error) {
	amount, err := parseAmount(d.Amount)
	if err != nil {
		return nil, err
	}
	return &models.BillPayment{
		PaymentID:    d.PaymentID,
		CreditCardID: d.CreditCardID,
		BillKey:      d.BillKey,
		AccountID:    d.AccountID,
		Amount:       amount,
		PaidAt:       d.PaidAt,
	}, nil
}

func (s *paymentStore) Create(ctx context.Context, uid string, p *models.BillPayment) error {
	_, err := s.collection(uid).Doc(p.PaymentID).Create(ctx, paymentToDoc(p))
	if err != nil {
		return errs.NewDatabaseError("create", "failed to record bill payment", err)
	}
	return nil
}

func (s *paymentStore) ListByCard(ctx context.Context, uid, cardID string) ([]models.BillPayment, error) {
	docs, err := s.collection(uid).Query.Where("creditCardId", "==", cardID).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list bill payments", err)
	}
	payments := make([]models.BillPayment, 0, len(docs))
	for _, doc := range docs {
		var d paymentDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse bill payment data", err)
		}
		p, err := d.toModel()
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse bill payment data", err)
		}
		payments = append(payments, *p)
	}
	return payments, nil
}
