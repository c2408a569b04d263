package reconcile

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/black12-ag/reconcile/internal/payment"
	"github.com/black12-ag/reconcile/internal/reconcile"
)

type Handler struct {
	svc *reconcile.Service
}

func NewHandler(svc *reconcile.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) MatchRoutes(r chi.Router) {
	r.Post("/manual", h.manualMatch)
	r.Delete("/{bankTransactionID}", h.unmatch)
}

func (h *Handler) TransactionRoutes(r chi.Router) {
	r.Get("/{id}/candidates", h.candidates)
}

type manualMatchRequest struct {
	BankTransactionID    uuid.UUID `json:"bank_transaction_id"`
	PaymentTransactionID uuid.UUID `json:"payment_transaction_id"`
}

func (h *Handler) manualMatch(w http.ResponseWriter, r *http.Request) {
	var req manualMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.BankTransactionID == uuid.Nil || req.PaymentTransactionID == uuid.Nil {
		http.Error(w, "bank_transaction_id and payment_transaction_id are required", http.StatusBadRequest)
		return
	}

	if err := h.svc.ManualMatch(r.Context(), req.BankTransactionID, req.PaymentTransactionID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) unmatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "bankTransactionID"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Unmatch(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type paymentResponse struct {
	ID        uuid.UUID `json:"id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) candidates(w http.ResponseWriter, r *http.Request) {
	if _, err := uuid.Parse(chi.URLParam(r, "id")); err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	payments, err := h.svc.CandidatePayments(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toPaymentResponseList(payments)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toPaymentResponseList(payments []*payment.Transaction) []paymentResponse {
	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = paymentResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			Currency:  p.Currency,
			CreatedAt: p.CreatedAt,
		}
	}

	return resp
}
