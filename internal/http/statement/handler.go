package statement

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/black12-ag/reconcile/internal/importer"
	"github.com/black12-ag/reconcile/internal/reconcile"
	"github.com/black12-ag/reconcile/internal/report"
	"github.com/black12-ag/reconcile/internal/statement"
)

type Handler struct {
	stmtSvc   *statement.Service
	importSvc *importer.Service
	reconSvc  *reconcile.Service
}

func NewHandler(stmtSvc *statement.Service, importSvc *importer.Service, reconSvc *reconcile.Service) *Handler {
	return &Handler{
		stmtSvc:   stmtSvc,
		importSvc: importSvc,
		reconSvc:  reconSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/transactions", h.transactions)
	r.Get("/{id}/report", h.report)
}

func (h *Handler) MutatingRoutes(r chi.Router) {
	r.Post("/upload", h.upload)
	r.Post("/{id}/reconcile", h.reconcile)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	bank := r.FormValue("bank")
	if bank == "" {
		http.Error(w, "bank field is required", http.StatusBadRequest)
		return
	}

	statementDate, err := time.Parse(time.DateOnly, r.FormValue("statement_date"))
	if err != nil {
		http.Error(w, "statement_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	format, ok := formatOf(header.Header.Get("Content-Type"))
	if !ok {
		http.Error(w, importer.ErrUnsupportedFormat.Error(), http.StatusBadRequest)
		return
	}

	rows, err := h.importSvc.Import(format, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stmt, err := h.stmtSvc.Create(r.Context(), statement.CreateParams{
		BankName:      bank,
		AccountNumber: r.FormValue("account_number"),
		StatementDate: statementDate,
		Transactions:  rows,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(stmt)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	stmts, err := h.stmtSvc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(stmts)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	stmt, err := h.stmtSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, statement.ErrNotFound) {
			http.Error(w, "statement not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(stmt)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	filter := statement.TxFilter{
		Query: r.URL.Query().Get("query"),
	}

	if s := r.URL.Query().Get("matched"); s != "" {
		matched, err := strconv.ParseBool(s)
		if err != nil {
			http.Error(w, "matched must be a boolean", http.StatusBadRequest)
			return
		}

		filter.Matched = &matched
	}

	txs, err := h.stmtSvc.SearchTransactions(r.Context(), id, filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toTxResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type reconcileResponse struct {
	NewlyMatched int `json:"newly_matched"`
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	matched, err := h.reconSvc.Run(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrRunning):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, statement.ErrNotFound):
			http.Error(w, "statement not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(reconcileResponse{NewlyMatched: matched}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	stmt, err := h.stmtSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, statement.ErrNotFound) {
			http.Error(w, "statement not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	matches, err := h.reconSvc.MatchesForStatement(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", report.Filename(stmt.ID)))

	if err := json.NewEncoder(w).Encode(toReportResponse(report.Build(stmt, matches))); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// formatOf resolves the upload's declared media type, ignoring parameters
// like charset.
func formatOf(contentType string) (importer.Format, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}

	return importer.FormatForMIME(mediaType)
}
