package store

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/cardledger-backend/internal/models"
)

// The Firestore codec ignores unexported fields, so a decimal written
// directly would land as an empty map. These converters are what keeps
// amounts intact; they must preserve the exact value in both directions.

func TestCardDocPreservesAmounts(t *testing.T) {
	card := &models.CreditCard{
		CardID:      "c1",
		CreditLimit: decimal.RequireFromString("1000.00"),
		UsedLimit:   decimal.RequireFromString("123.45"),
		ClosingDay:  10,
		DueDay:      15,
	}
	doc := cardToDoc(card)
	if doc.CreditLimit != "1000" && doc.CreditLimit != "1000.00" {
		t.Fatalf("credit limit encoded as %q", doc.CreditLimit)
	}
	got, err := doc.toModel()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.CreditLimit.Equal(card.CreditLimit) {
		t.Errorf("credit limit round-tripped as %s", got.CreditLimit)
	}
	if !got.UsedLimit.Equal(card.UsedLimit) {
		t.Errorf("used limit round-tripped as %s", got.UsedLimit)
	}
}

func TestTransactionDocPreservesAmount(t *testing.T) {
	for _, amount := range []string{"0.01", "33.34", "1234.56"} {
		tx := &models.Transaction{
			TransactionID: "t1",
			Amount:        decimal.RequireFromString(amount),
			Status:        models.StatusCompleted,
		}
		got, err := transactionToDoc(tx).toModel()
		if err != nil {
			t.Fatalf("amount %s: unexpected error: %v", amount, err)
		}
		if !got.Amount.Equal(tx.Amount) {
			t.Errorf("amount %s round-tripped as %s", amount, got.Amount)
		}
		if got.Status != models.StatusCompleted {
			t.Errorf("amount %s: status round-tripped as %s", amount, got.Status)
		}
	}
}

func TestParseAmountToleratesMissingField(t *testing.T) {
	got, err := parseAmount("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("empty field parsed as %s", got)
	}
	if _, err := parseAmount("not-a-number"); err == nil {
		t.Fatal("expected error for malformed amount")
	}
}
