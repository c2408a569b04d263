package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/black12-ag/reconcile/internal/auth"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/token", h.token)
}

type tokenRequest struct {
	OperatorKey string `json:"operator_key"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *Handler) token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, err := h.svc.IssueToken(req.OperatorKey)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidKey) {
			http.Error(w, "invalid operator key", http.StatusUnauthorized)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(tokenResponse{Token: token}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
