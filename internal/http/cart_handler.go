package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/moment_cart/internal/cart"
	"github.com/fjod/moment_cart/internal/domain"
)

// CartHandler exposes the cart service over REST.
type CartHandler struct {
	svc *cart.Service
}

func NewCartHandler(svc *cart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

type AddEventRequestDTO struct {
	EventID string `json:"event_id"`
}

type ConfigureMomentsRequestDTO struct {
	Moments []domain.SelectedMoment `json:"moments"`
}

type UpdateItemRequestDTO struct {
	SelectedMoments []domain.SelectedMoment `json:"selected_moments,omitempty"`
	IsConfigured    *bool                   `json:"is_configured,omitempty"`
	EstimatedPrice  *int64                  `json:"estimated_price,omitempty"`
}

type SaveDraftRequestDTO struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type SessionStepRequestDTO struct {
	Step string `json:"step"`
}

type EditingTargetRequestDTO struct {
	CartItemID string `json:"cart_item_id"`
}

type ErrorResponse struct {
	Error        string `json:"error"`
	Code         string `json:"code,omitempty"`
	Recoverable  bool   `json:"recoverable"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.State())
}

func (h *CartHandler) AddEvent(w http.ResponseWriter, r *http.Request) {
	var req AddEventRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.EventID == "" {
		respondError(w, http.StatusBadRequest, "invalid_event_id", "event_id is required")
		return
	}

	item, err := h.svc.AddEvent(r.Context(), req.EventID)
	if err != nil {
		handleCartError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartItemID := chi.URLParam(r, "cart_item_id")
	if err := h.svc.RemoveEvent(r.Context(), cartItemID); err != nil {
		handleCartError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.svc.State())
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	cartItemID := chi.URLParam(r, "cart_item_id")

	var req UpdateItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	patch := domain.ItemPatch{
		SelectedMoments: req.SelectedMoments,
		IsConfigured:    req.IsConfigured,
		EstimatedPrice:  req.EstimatedPrice,
	}
	if err := h.svc.UpdateEvent(r.Context(), cartItemID, patch); err != nil {
		handleCartError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.svc.State())
}

func (h *CartHandler) ConfigureMoments(w http.ResponseWriter, r *http.Request) {
	cartItemID := chi.URLParam(r, "cart_item_id")

	var req ConfigureMomentsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if len(req.Moments) == 0 {
		respondError(w, http.StatusBadRequest, "invalid_moments", "at least one moment is required")
		return
	}

	if err := h.svc.ConfigureMoments(r.Context(), cartItemID, req.Moments); err != nil {
		handleCartError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.svc.State())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearCart(r.Context()); err != nil {
		handleCartError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.svc.State())
}

func (h *CartHandler) ToggleCart(w http.ResponseWriter, r *http.Request) {
	h.svc.ToggleCart()
	respondJSON(w, http.StatusOK, h.svc.State())
}

func (h *CartHandler) RefreshCart(w http.ResponseWriter, r *http.Request) {
	h.svc.RefreshCart(r.Context())
	respondJSON(w, http.StatusOK, h.svc.State())
}

func (h *CartHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Analytics(r.Context()))
}

func (h *CartHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Session(r.Context()))
}

func (h *CartHandler) SetEditingTarget(w http.ResponseWriter, r *http.Request) {
	var req EditingTargetRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	h.svc.SetEditingTarget(r.Context(), req.CartItemID)
	respondJSON(w, http.StatusOK, h.svc.Session(r.Context()))
}

func (h *CartHandler) SetCheckoutStep(w http.ResponseWriter, r *http.Request) {
	var req SessionStepRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	h.svc.SetCheckoutStep(r.Context(), req.Step)
	respondJSON(w, http.StatusOK, h.svc.Session(r.Context()))
}

func (h *CartHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Drafts(r.Context()))
}

func (h *CartHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var req SaveDraftRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return
	}

	draft, err := h.svc.SaveDraft(r.Context(), req.Name, req.Description, req.Tags)
	if err != nil {
		handleCartError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, draft)
}

func (h *CartHandler) LoadDraft(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draft_id")
	if err := h.svc.LoadDraft(r.Context(), draftID); err != nil {
		handleCartError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.svc.State())
}

func (h *CartHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draft_id")
	if err := h.svc.DeleteDraft(r.Context(), draftID); err != nil {
		handleCartError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) ValidateCheckout(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ValidateCheckout(r.Context())
	if err != nil {
		handleCartError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *CartHandler) ProcessCheckout(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.svc.ProcessCheckout(r.Context())
	if err != nil {
		handleCartError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleCartError maps the typed error taxonomy onto HTTP status codes.
func handleCartError(w http.ResponseWriter, r *http.Request, err error) {
	var cartErr *domain.CartError
	if !errors.As(err, &cartErr) {
		log.Printf("request %s failed: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	var httpStatus int
	switch cartErr.Kind {
	case domain.ErrKindValidation:
		httpStatus = http.StatusUnprocessableEntity
	case domain.ErrKindInsufficientFunds:
		httpStatus = http.StatusPaymentRequired
	case domain.ErrKindEventUnavailable:
		httpStatus = http.StatusNotFound
	case domain.ErrKindConfiguration:
		httpStatus = http.StatusNotFound
	case domain.ErrKindStorage:
		httpStatus = http.StatusInternalServerError
	case domain.ErrKindNetwork:
		httpStatus = http.StatusServiceUnavailable
	default:
		httpStatus = http.StatusInternalServerError
	}

	respondJSON(w, httpStatus, ErrorResponse{
		Error:        cartErr.Message,
		Code:         string(cartErr.Kind),
		Recoverable:  cartErr.Recoverable,
		RecoveryHint: cartErr.RecoveryHint,
	})
}
