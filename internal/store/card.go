package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/cardledger-backend/internal/errs"
	"github.com/GregMSThompson/cardledger-backend/internal/models"
)

type cardStore struct {
	client *firestore.Client
}

func NewCardStore(client *firestore.Client) *cardStore {
	return &cardStore{client: client}
}

func (s *cardStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("credit_cards")
}

// cardDoc is the Firestore shape of a credit card; see doc.go for why the
// monetary fields are strings.
type cardDoc struct {
	CardID      string    `firestore:"cardId"`
	AccountID   string    `firestore:"accountId"`
	Name        string    `firestore:"name"`
	LastDigits  string    `firestore:"lastDigits"`
	CreditLimit string    `firestore:"creditLimit"`
	ClosingDay  int       `firestore:"closingDay"`
	DueDay      int       `firestore:"dueDay"`
	UsedLimit   string    `firestore:"usedLimit"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func cardToDoc(c *models.CreditCard) cardDoc {
	return cardDoc{
		CardID:      c.CardID,
		AccountID:   c.AccountID,
		Name:        c.Name,
		LastDigits:  c.LastDigits,
		CreditLimit: c.CreditLimit.String(),
		ClosingDay:  c.ClosingDay,
		DueDay:      c.DueDay,
		UsedLimit:   c.UsedLimit.String(),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (d cardDoc) toModel() (*models.CreditCard, error) {
	limit, err := parseAmount(d.CreditLimit)
	if err != nil {
		return nil, err
	}
	used, err := parseAmount(d.UsedLimit)
	if err != nil {
		return nil, err
	}
	return &models.CreditCard{
		CardID:      d.CardID,
		AccountID:   d.AccountID,
		Name:        d.Name,
		LastDigits:  d.LastDigits,
		CreditLimit: limit,
		ClosingDay:  d.ClosingDay,
		DueDay:      d.DueDay,
		UsedLimit:   used,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func (s *cardStore) Create(ctx context.Context, uid string, card *models.CreditCard) error {
	now := time.Now()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.UpdatedAt = now
	_, err := s.collection(uid).Doc(card.CardID).Create(ctx, cardToDoc(card))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("credit card already exists")
		}
		return errs.NewDatabaseError("create", "failed to create credit card", err)
	}
	return nil
}

func (s *cardStore) Get(ctx context.Context, uid, cardID string) (*models.CreditCard, error) {
	doc, err := s.collection(uid).Doc(cardID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("credit card not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get credit card", err)
	}
	var d cardDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse credit card data", err)
	}
	c, err := d.toModel()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse credit card data", err)
	}
	return c, nil
}

func (s *cardStore) List(ctx context.Context, uid string) ([]*models.CreditCard, error) {
	docs, err := s.collection(uid).OrderBy("name", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list credit cards", err)
	}
	cards := make([]*models.CreditCard, 0, len(docs))
	for _, doc := range docs {
		var d cardDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse credit card data", err)
		}
		c, err := d.toModel()
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse credit card data", err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func (s *cardStore) Update(ctx context.Context, uid string, card *models.CreditCard) error {
	card.UpdatedAt = time.Now()
	_, err := s.collection(uid).Doc(card.CardID).Set(ctx, cardToDoc(card))
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update credit card", err)
	}
	return nil
}

func (s *cardStore) Delete(ctx context.Context, uid, cardID string) error {
	_, err := s.collection(uid).Doc(cardID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete credit card", err)
	}
	return nil
}

// SetUsedLimit is the only write path for the derived usedLimit aggregate.
func (s *cardStore) SetUsedLimit(ctx context.Context, uid, cardID string, used decimal.Decimal) error {
	_, err := s.collection(uid).Doc(cardID).Update(ctx, []firestore.Update{
		{Path: "usedLimit", Value: used.String()},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("credit card not found")
		}
		return errs.NewDatabaseError("update", "failed to write used limit", err)
	}
	return nil
}
