package rule

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/black12-ag/reconcile/internal/rule"
)

type Handler struct {
	svc *rule.Service
}

func NewHandler(svc *rule.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
}

func (h *Handler) MutatingRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Patch("/{id}", h.update)
}

type createRuleRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Enabled     bool             `json:"enabled"`
	Priority    int              `json:"priority"`
	Conditions  []rule.Condition `json:"conditions"`
	Actions     []rule.Action    `json:"actions"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.svc.Create(r.Context(), rule.CreateParams{
		Name:        req.Name,
		Description: req.Description,
		Enabled:     req.Enabled,
		Priority:    req.Priority,
		Conditions:  req.Conditions,
		Actions:     req.Actions,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(created)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(rules)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	found, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, rule.ErrNotFound) {
			http.Error(w, "rule not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(found)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateRuleRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Enabled     *bool            `json:"enabled,omitempty"`
	Priority    *int             `json:"priority,omitempty"`
	Conditions  []rule.Condition `json:"conditions,omitempty"`
	Actions     []rule.Action    `json:"actions,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	found, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, rule.ErrNotFound) {
			http.Error(w, "rule not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if req.Name != nil {
		found.Name = *req.Name
	}

	if req.Description != nil {
		found.Description = *req.Description
	}

	if req.Enabled != nil {
		found.Enabled = *req.Enabled
	}

	if req.Priority != nil {
		found.Priority = *req.Priority
	}

	if req.Conditions != nil {
		found.Conditions = req.Conditions
	}

	if req.Actions != nil {
		found.Actions = req.Actions
	}

	if err := h.svc.Update(r.Context(), found); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(found)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type ruleResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Enabled     bool             `json:"enabled"`
	Priority    int              `json:"priority"`
	Conditions  []rule.Condition `json:"conditions"`
	Actions     []rule.Action    `json:"actions"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   *time.Time       `json:"updated_at,omitempty"`
}

func toResponse(r *rule.Rule) ruleResponse {
	return ruleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Enabled:     r.Enabled,
		Priority:    r.Priority,
		Conditions:  r.Conditions,
		Actions:     r.Actions,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toResponseList(rules []*rule.Rule) []ruleResponse {
	resp := make([]ruleResponse, len(rules))
	for i, r := range rules {
		resp[i] = toResponse(r)
	}

	return resp
}
