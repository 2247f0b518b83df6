package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/cardledger-backend/internal/dto"
	"github.com/GregMSThompson/cardledger-backend/internal/middleware"
	"github.com/GregMSThompson/cardledger-backend/internal/response"
)

type BillService interface {
	GetBills(ctx context.Context, uid, cardID string, openOnly bool) (dto.BillsResult, error)
	GetBill(ctx context.Context, uid, cardID, billKey string) (dto.BillDetail, error)
	PayBill(ctx context.Context, uid, cardID, billKey string, req dto.PayBillRequest) (dto.PayBillResult, error)
}

type billHandlers struct {
	ResponseHandler response.ResponseHandler
	BillSvc         BillService
}

func NewBillHandlers(deps *Deps) *billHandlers {
	return &billHandlers{
		ResponseHandler: deps.ResponseHandler,
		BillSvc:         deps.BillSvc,
	}
}

// BillRoutes is mounted under /cards/{cardId}; the card id comes from the
// parent route context.
func (h *billHandlers) BillRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetBills)
	r.Get("/{billKey}", h.GetBill)
	r.Post("/{billKey}/pay", h.PayBill)
	return r
}

func (h *billHandlers) GetBills(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardId")
	uid := middleware.UID(r.Context())
	openOnly := r.URL.Query().Get("open") == "true"

	result, err := h.BillSvc.GetBills(r.Context(), uid, cardID, openOnly)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *billHandlers) GetBill(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardId")
	billKey := chi.URLParam(r, "billKey")
	uid := middleware.UID(r.Context())

	detail, err := h.BillSvc.GetBill(r.Context(), uid, cardID, billKey)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, detail)
}

func (h *billHandlers) PayBill(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardId")
	billKey := chi.URLParam(r, "billKey")
	var req dto.PayBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())

	result, err := h.BillSvc.PayBill(r.Context(), uid, cardID, billKey, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, result)
}
