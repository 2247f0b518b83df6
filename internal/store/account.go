package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/cardledger-backend/internal/errs"
	"github.com/GregMSThompson/cardledger-backend/internal/models"
)

type accountStore struct {
	client *firestore.Client
}

func NewAccountStore(client *firestore.Client) *accountStore {
	return &accountStore{client: client}
}

func (s *accountStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("accounts")
}

// accountDoc is the Firestore shape of an account; see doc.go for why the
// balance is a string.
type accountDoc struct {
	AccountID string    `firestore:"accountId"`
	Name      string    `firestore:"name"`
	Balance   string    `firestore:"balance"`
	Currency  string    `firestore:"currency"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func accountToDoc(a *models.Account) accountDoc {
	return accountDoc{
		AccountID: a.AccountID,
		Name:      a.Name,
		Balance:   a.Balance.String(),
		Currency:  a.Currency,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (d accountDoc) toModel() (*models.Account, error) {
	balance, err := parseAmount(d.Balance)
	if err != nil {
		return nil, err
	}
	return &models.Account{
		AccountID: d.AccountID,
		Name:      d.Name,
		Balance:   balance,
		Currency:  d.Currency,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func (s *accountStore) Create(ctx context.Context, uid string, a *models.Account) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	_, err := s.collection(uid).Doc(a.AccountID).Create(ctx, accountToDoc(a))
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create account", err)
	}
	return nil
}

func (s *accountStore) Get(ctx context.Context, uid, accountID string) (*models.Account, error) {
	doc, err := s.collection(uid).Doc(accountID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("account not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get account", err)
	}
	var d accountDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse account data", err)
	}
	a, err := d.toModel()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse account data", err)
	}
	return a, nil
}

func (s *accountStore) List(ctx context.Context, uid string) ([]*models.Account, error) {
	docs, err := s.collection(uid).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list accounts", err)
	}
	accounts := make([]*models.Account, 0, len(docs))
	for _, doc := range docs {
		var d accountDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse account data", err)
		}
		a, err := d.toModel()
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse account data", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func (s *accountStore) Update(ctx context.Context, uid string, a *models.Account) error {
	a.UpdatedAt = time.Now()
	_, err := s.collection(uid).Doc(a.AccountID).Set(ctx, accountToDoc(a))
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update account", err)
	}
	return nil
}
