package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/cardledger-backend/internal/dto"
	"github.com/GregMSThompson/cardledger-backend/internal/middleware"
	"github.com/GregMSThompson/cardledger-backend/internal/models"
	"github.com/GregMSThompson/cardledger-backend/internal/response"
)

type TransactionService interface {
	CreatePurchase(ctx context.Context, uid, cardID string, req dto.CreatePurchaseRequest) (dto.CreatePurchaseResult, error)
	GetTransaction(ctx context.Context, uid, transactionID string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, uid, cardID string, q dto.TransactionQuery) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, uid, transactionID string, req dto.UpdateTransactionRequest) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, uid, transactionID string) error
}

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	TransactionSvc  TransactionService
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		TransactionSvc:  deps.TransactionSvc,
	}
}

// TransactionRoutes covers single-transaction operations addressed by id.
// Card-scoped listing and purchase creation live under the cards tree.
func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{transactionId}", h.GetTransaction)
	r.Put("/{transactionId}", h.UpdateTransaction)
	r.Delete("/{transactionId}", h.DeleteTransaction)
	return r
}

// CreatePurchase creates one purchase, expanded into installment rows. A
// partial batch failure still returns 207-style detail in the body: created
// rows plus the failed installment indices.
func (h *transactionHandlers) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardId")
	var req dto.CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	result, err := h.TransactionSvc.CreatePurchase(r.Context(), uid, cardID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	status := http.StatusCreated
	if len(result.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	h.ResponseHandler.WriteSuccess(w, r, status, result)
}

func (h *transactionHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardId")
	uid := middleware.UID(r.Context())

	q := dto.TransactionQuery{}
	if v := r.URL.Query().Get("status"); v != "" {
		status := models.TransactionStatus(v)
		q.Status = &status
	}
	if v := r.URL.Query().Get("billKey"); v != "" {
		q.BillKey = &v
	}
	if v := r.URL.Query().Get("from"); v != "" {
		q.DateFrom = &v
	}
	if v := r.URL.Query().Get("to"); v != "" {
		q.DateTo = &v
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Limit = n
		}
	}

	txs, err := h.TransactionSvc.ListTransactions(r.Context(), uid, cardID, q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, txs)
}

func (h *transactionHandlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	uid := middleware.UID(r.Context())
	tx, err := h.TransactionSvc.GetTransaction(r.Context(), uid, transactionID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tx)
}

func (h *transactionHandlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	var req dto.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	tx, err := h.TransactionSvc.UpdateTransaction(r.Context(), uid, transactionID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tx)
}

func (h *transactionHandlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	uid := middleware.UID(r.Context())
	if err := h.TransactionSvc.DeleteTransaction(r.Context(), uid, transactionID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
