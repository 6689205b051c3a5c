package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"workledger/internal/platform/middleware"
	"workledger/internal/registry/models"
	dErrors "workledger/pkg/domain-errors"
	"workledger/pkg/platform/httputil"
)

// RecordsService defines the registry operations the HTTP layer depends on.
type RecordsService interface {
	AddRecord(ctx context.Context, owner string, req *models.AddRecordRequest) (uint64, error)
	VerifyRecord(ctx context.Context, id uint64, subject string) (*models.WorkRecord, error)
	GetRecord(ctx context.Context, id uint64) (*models.WorkRecord, error)
	TotalRecords(ctx context.Context) (uint64, error)
}

// Handler is the thin HTTP layer. It delegates to the registry service so
// transport concerns stay isolated from business logic.
type Handler struct {
	records RecordsService
	logger  *slog.Logger
}

func NewHandler(records RecordsService, logger *slog.Logger) *Handler {
	return &Handler{
		records: records,
		logger:  logger,
	}
}

func (h *Handler) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.AddRecordRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	id, err := h.records.AddRecord(ctx, middleware.GetSubject(ctx), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, models.AddRecordResponse{ID: id})
}

func (h *Handler) handleVerifyRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := recordIDFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.records.VerifyRecord(ctx, id, middleware.GetSubject(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordIDFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.records.GetRecord(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleTotalRecords(w http.ResponseWriter, r *http.Request) {
	total, err := h.records.TotalRecords(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.TotalRecordsResponse{Total: total})
}

// recordIDFromURL parses the id path parameter. Ids that cannot be parsed as
// an unsigned integer can never name an existing record, so they map to the
// same not-found outcome as an unknown id.
func recordIDFromURL(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	return id, nil
}
