package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/cardledger-backend/internal/dto"
	"github.com/GregMSThompson/cardledger-backend/internal/middleware"
	"github.com/GregMSThompson/cardledger-backend/internal/models"
	"github.com/GregMSThompson/cardledger-backend/internal/response"
)

type CardService interface {
	CreateCard(ctx context.Context, uid string, req dto.CreateCardRequest) (*models.CreditCard, error)
	GetCard(ctx context.Context, uid, cardID string) (*models.CreditCard, error)
	ListCards(ctx context.Context, uid string) ([]*models.CreditCard, error)
	UpdateCard(ctx context.Context, uid, cardID string, req dto.UpdateCardRequest) (*models.CreditCard, error)
	DeleteCard(ctx context.Context, uid, cardID string) error
	RecomputeUsedLimit(ctx context.Context, uid, cardID string) (dto.LimitSummary, error)
}

type cardHandlers struct {
	ResponseHandler response.ResponseHandler
	CardSvc         CardService
}

func NewCardHandlers(deps *Deps) *cardHandlers {
	return &cardHandlers{
		ResponseHandler: deps.ResponseHandler,
		CardSvc:         deps.CardSvc,
	}
}

func (h *cardHandlers) ListCards(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	cards, err := h.CardSvc.ListCards(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, cards)
}

func (h *cardHandlers) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	card, err := h.CardSvc.CreateCard(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, card)
}

func (h *cardHandlers) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardId")
	uid := middleware.UID(r.Context())
	card, err := h.CardSvc.GetCard(r.Context(), uid, cardID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, card)
}

func (h *cardHandlers) UpdateCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardId")
	var req dto.UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	card, err := h.CardSvc.UpdateCard(r.Context(), uid, cardID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, card)
}

func (h *cardHandlers) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardId")
	uid := middleware.UID(r.Context())
	if err := h.CardSvc.DeleteCard(r.Context(), uid, cardID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

// GetLimit recomputes the card's used limit on demand and returns the
// summary. Recomputation is idempotent, so a GET is safe here.
func (h *cardHandlers) GetLimit(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardId")
	uid := middleware.UID(r.Context())
	summary, err := h.CardSvc.RecomputeUsedLimit(r.Context(), uid, cardID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, summary)
}
