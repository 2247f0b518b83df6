package store

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/cardledger-backend/internal/dto"
	"github.com/GregMSThompson/cardledger-backend/internal/models"
)

func TestTransactionStoreBatchWithEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	defer client.Close()

	store := NewTransactionStore(client)
	uid := "user-" + uuid.NewString()

	row := func(id, date, billKey, amount string, index int) models.Transaction {
		return models.Transaction{
			TransactionID:    id,
			CreditCardID:     "c1",
			Amount:           decimal.RequireFromString(amount),
			Currency:         "USD",
			PurchaseDate:     "2025-01-05",
			Date:             date,
			BillKey:          billKey,
			InstallmentIndex: index,
			InstallmentCount: 2,
			Status:           models.StatusCompleted,
		}
	}

	created, failed := store.CreateBatch(ctx, uid, []models.Transaction{
		row("t1", "2025-01-05", "2025-01", "33.34", 1),
		row("t2", "2025-02-05", "2025-02", "33.33", 2),
	})
	if len(failed) != 0 {
		t.Fatalf("unexpected failures: %v", failed)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created, got %d", len(created))
	}

	got, err := store.Get(ctx, uid, "t1")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if want := decimal.RequireFromString("33.34"); !got.Amount.Equal(want) {
		t.Fatalf("amount round-tripped as %s, want %s", got.Amount, want)
	}
	if got.Status != models.StatusCompleted {
		t.Fatalf("status round-tripped as %s", got.Status)
	}

	status := models.StatusCompleted
	txs, err := store.ListByCard(ctx, uid, "c1", dto.TransactionQuery{Status: &status})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].TransactionID != "t1" || txs[1].TransactionID != "t2" {
		t.Fatalf("unexpected order: %s, %s", txs[0].TransactionID, txs[1].TransactionID)
	}

	// Resubmitting an existing id alongside a fresh row fails only the
	// duplicate; the rest of the batch still lands.
	created, failed = store.CreateBatch(ctx, uid, []models.Transaction{
		row("t1", "2025-01-05", "2025-01", "33.34", 1),
		row("t3", "2025-03-05", "2025-03", "10.00", 1),
	})
	if len(created) != 1 || created[0].TransactionID != "t3" {
		t.Fatalf("expected only t3 created, got %v", created)
	}
	if len(failed) != 1 || failed[0].Index != 0 {
		t.Fatalf("expected failure at index 0, got %v", failed)
	}
	if _, err := store.Get(ctx, uid, "t3"); err != nil {
		t.Fatalf("t3 not persisted: %v", err)
	}
}
