package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/cardledger-backend/internal/dto"
	"github.com/GregMSThompson/cardledger-backend/internal/errs"
	"github.com/GregMSThompson/cardledger-backend/internal/models"
)

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("transactions")
}

// transactionDoc is the Firestore shape of a transaction; see doc.go for why
// amount is a string.
type transactionDoc struct {
	TransactionID    string    `firestore:"transactionId"`
	CreditCardID     string    `firestore:"creditCardId"`
	Amount           string    `firestore:"amount"`
	Currency         string    `firestore:"currency"`
	Category         string    `firestore:"category"`
	Description      string    `firestore:"description"`
	Merchant         string    `firestore:"merchant"`
	PurchaseDate     string    `firestore:"purchaseDate"`
	Date             string    `firestore:"date"`
	BillKey          string    `firestore:"billKey"`
	ClosingDate      string    `firestore:"closingDate"`
	DueDate          string    `firestore:"dueDate"`
	InstallmentIndex int       `firestore:"installmentIndex"`
	InstallmentCount int       `firestore:"installmentCount"`
	IsRecurring      bool      `firestore:"isRecurring"`
	Status           string    `firestore:"status"`
	CreatedAt        time.Time `firestore:"createdAt"`
	UpdatedAt        time.Time `firestore:"updatedAt"`
}

func transactionToDoc(t *models.Transaction) transactionDoc {
	return transactionDoc{
		TransactionID:    t.TransactionID,
		CreditCardID:     t.CreditCardID,
		Amount:           t.Amount.String(),
		Currency:         t.Currency,
		Category:         t.Category,
		Description:      t.Description,
		Merchant:         t.Merchant,
		PurchaseDate:     t.PurchaseDate,
		Date:             t.Date,
		BillKey:          t.BillKey,
		ClosingDate:      t.ClosingDate,
		DueDate:          t.DueDate,
		InstallmentIndex: t.InstallmentIndex,
		InstallmentCount: t.InstallmentCount,
		IsRecurring:      t.IsRecurring,
		Status:           string(t.Status),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func (d transactionDoc) toModel() (*models.Transaction, error) {
	amount, err := parseAmount(d.Amount)
	if err != nil {
		return nil, err
	}
	return &models.Transaction{
		TransactionID:    d.TransactionID,
		CreditCardID:     d.CreditCardID,
		Amount:           amount,
		Currency:         d.Currency,
		Category:         d.Category,
		Description:      d.Description,
		Merchant:         d.Merchant,
		PurchaseDate:     d.PurchaseDate,
		Date:             d.Date,
		BillKey:          d.BillKey,
		ClosingDate:      d.ClosingDate,
		DueDate:          d.DueDate,
		InstallmentIndex: d.InstallmentIndex,
		InstallmentCount: d.InstallmentCount,
		IsRecurring:      d.IsRecurring,
		Status:           models.TransactionStatus(d.Status),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}, nil
}

// BatchFailure reports one row of a best-effort batch that did not persist.
type BatchFailure struct {
	Index int // position within the submitted slice
	Err   error
}

// CreateBatch writes rows through a BulkWriter in submission order. Rows are
// independent: a failed row does not abort the rest. The caller gets back
// exactly which rows were created and which failed.
func (s *transactionStore) CreateBatch(ctx context.Context, uid string, txs []models.Transaction) ([]models.Transaction, []BatchFailure) {
	if len(txs) == 0 {
		return nil, nil
	}

	bw := s.client.BulkWriter(ctx)
	now := time.Now()

	type pending struct {
		index int
		tx    models.Transaction
		job   *firestore.BulkWriterJob
	}
	jobs := make([]pending, 0, len(txs))
	var failures []BatchFailure

	for i, t := range txs {
		t.CreatedAt = now
		t.UpdatedAt = now
		job, err := bw.Create(s.collection(uid).Doc(t.TransactionID), transactionToDoc(&t))
		if err != nil {
			failures = append(failures, BatchFailure{Index: i, Err: err})
			continue
		}
		jobs = append(jobs, pending{index: i, tx: t, job: job})
	}

	// Flush and close the writer, then wait on each job for errors.
	bw.End()

	created := make([]models.Transaction, 0, len(jobs))
	for _, p := range jobs {
		if _, err := p.job.Results(); err != nil {
			failures = append(failures, BatchFailure{Index: p.index, Err: err})
			continue
		}
		created = append(created, p.tx)
	}
	return created, failures
}

func (s *transactionStore) Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error) {
	doc, err := s.collection(uid).Doc(transactionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("transaction not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get transaction", err)
	}
	var d transactionDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse transaction data", err)
	}
	t, err := d.toModel()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse transaction data", err)
	}
	return t, nil
}

func (s *transactionStore) ListByCard(ctx context.Context, uid, cardID string, q dto.TransactionQuery) ([]models.Transaction, error) {
	query := s.collection(uid).Query.Where("creditCardId", "==", cardID)
	if q.Status != nil {
		query = query.Where("status", "==", string(*q.Status))
	}
	if q.BillKey != nil {
		query = query.Where("billKey", "==", *q.BillKey)
	}
	if q.DateFrom != nil {
		query = query.Where("date", ">=", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("date", "<=", *q.DateTo)
	}
	query = query.OrderBy("date", firestore.Asc)
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list transactions", err)
	}
	txs := make([]models.Transaction, 0, len(docs))
	for _, doc := range docs {
		var d transactionDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse transaction data", err)
		}
		t, err := d.toModel()
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse transaction data", err)
		}
		txs = append(txs, *t)
	}
	return txs, nil
}

func (s *transactionStore) Update(ctx context.Context, uid string, t *models.Transaction) error {
	t.UpdatedAt = time.Now()
	_, err := s.collection(uid).Doc(t.TransactionID).Set(ctx, transactionToDoc(t))
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update transaction", err)
	}
	return nil
}

func (s *transactionStore) Delete(ctx context.Context, uid, transactionID string) error {
	_, err := s.collection(uid).Doc(transactionID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete transaction", err)
	}
	return nil
}

// DeleteByCard removes all of a card's transactions. Used when a card is
// deleted so no orphan rows keep contributing to bills.
func (s *transactionStore) DeleteByCard(ctx context.Context, uid, cardID string) error {
	docs, err := s.collection(uid).Query.Where("creditCardId", "==", cardID).Documents(ctx).GetAll()
	if err != nil {
		return errs.NewDatabaseError("read", "failed to list transactions for deletion", err)
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for _, d := range docs {
		job, err := bw.Delete(d.Ref)
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("delete", "failed to schedule transaction deletion", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return errs.NewDatabaseError("delete", "failed to delete transaction", err)
		}
	}
	return nil
}
