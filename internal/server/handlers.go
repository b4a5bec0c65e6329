package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/caseworks-hq/caseworks/internal/health"
	"github.com/caseworks-hq/caseworks/internal/model"
	"github.com/caseworks-hq/caseworks/internal/storage"
)

// FactsStore is the persistence surface the handlers need. *storage.DB
// satisfies it; tests substitute an in-memory fake.
type FactsStore interface {
	CreateCase(ctx context.Context, c model.Case) (model.Case, error)
	GetCase(ctx context.Context, id uuid.UUID) (model.Case, error)
	GetOrCreateFacts(ctx context.Context, caseID uuid.UUID) (model.FactsRecord, error)
	UpdateCaseStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateFacts(ctx context.Context, caseID uuid.UUID, updater func(model.WizardFacts) model.WizardFacts, meta map[string]any) (model.FactsRecord, error)
	Ping(ctx context.Context) error
}

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	store     FactsStore
	logger    *slog.Logger
	startedAt time.Time
	version   string
}

// NewHandlers creates a new Handlers.
func NewHandlers(store FactsStore, logger *slog.Logger, version string) *Handlers {
	return &Handlers{
		store:     store,
		logger:    logger,
		startedAt: time.Now(),
		version:   version,
	}
}

// HandleHealthz handles GET /healthz.
func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := h.store.Ping(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, r, code, map[string]any{
		"status":         status,
		"version":        h.version,
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
	})
}

type createCaseRequest struct {
	Product string `json:"product"`
}

// HandleCreateCase handles POST /v1/cases.
func (h *Handlers) HandleCreateCase(w http.ResponseWriter, r *http.Request) {
	var req createCaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body")
		return
	}
	switch req.Product {
	case model.ProductEvictionNotice, model.ProductTenancyAgreement, model.ProductMoneyClaim:
	default:
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "unknown product")
		return
	}

	c, err := h.store.CreateCase(r.Context(), model.Case{Product: req.Product})
	if err != nil {
		h.logger.Error("create case", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "could not create case")
		return
	}
	writeJSON(w, r, http.StatusCreated, c)
}

// HandleGetCase handles GET /v1/cases/{id}.
func (h *Handlers) HandleGetCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	c, err := h.store.GetCase(r.Context(), caseID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, c)
}

type updateCaseRequest struct {
	Status string `json:"status"`
}

// HandleUpdateCase handles PATCH /v1/cases/{id}: the status lifecycle
// (draft -> complete -> purchased). Transitions are not enforced; the
// checkout flow owns the ordering.
func (h *Handlers) HandleUpdateCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	var req updateCaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body")
		return
	}
	switch req.Status {
	case model.CaseStatusDraft, model.CaseStatusComplete, model.CaseStatusPurchased:
	default:
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "unknown status")
		return
	}

	if err := h.store.UpdateCaseStatus(r.Context(), caseID, req.Status); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	c, err := h.store.GetCase(r.Context(), caseID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, c)
}

// HandleGetFacts handles GET /v1/cases/{id}/facts: the raw flat store,
// created empty on first access.
func (h *Handlers) HandleGetFacts(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	rec, err := h.store.GetOrCreateFacts(r.Context(), caseID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

type patchFactsRequest struct {
	Facts model.WizardFacts `json:"facts"`
	Meta  map[string]any    `json:"meta,omitempty"`
}

// HandlePatchFacts handles PATCH /v1/cases/{id}/facts: the wizard autosave.
// Submitted answers are shallow-merged over the stored ones; an explicit
// null clears an answer.
func (h *Handlers) HandlePatchFacts(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	var req patchFactsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body")
		return
	}
	if req.Facts == nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "facts object is required")
		return
	}

	rec, err := h.store.UpdateFacts(r.Context(), caseID, func(current model.WizardFacts) model.WizardFacts {
		for k, v := range req.Facts {
			if v == nil {
				delete(current, k)
				continue
			}
			current[k] = v
		}
		return current
	}, req.Meta)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

type caseFactsResponse struct {
	CaseID    uuid.UUID       `json:"case_id"`
	Version   int             `json:"version"`
	CaseFacts model.CaseFacts `json:"case_facts"`
}

// HandleGetCaseFacts handles GET /v1/cases/{id}/case-facts: the nested
// domain view plus health report, recomputed from the flat store on every
// read so it can never drift from the source of truth.
func (h *Handlers) HandleGetCaseFacts(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	rec, err := h.store.GetOrCreateFacts(r.Context(), caseID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, caseFactsResponse{
		CaseID:    rec.CaseID,
		Version:   rec.Version,
		CaseFacts: health.Annotated(rec.Facts),
	})
}

// HandleGetCaseHealth handles GET /v1/cases/{id}/health: just the derived
// report, for the review UI's case-strength banner.
func (h *Handlers) HandleGetCaseHealth(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	rec, err := h.store.GetOrCreateFacts(r.Context(), caseID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, health.Annotated(rec.Facts).CaseHealth)
}

func (h *Handlers) caseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid case id")
		return uuid.Nil, false
	}
	return id, true
}

// writeStoreError maps storage failures onto the API envelope. The facts
// sentinels already carry the generic user-facing message; the cause was
// logged at the storage layer and stays there.
func (h *Handlers) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "case not found")
	case errors.Is(err, storage.ErrFactsRead), errors.Is(err, storage.ErrFactsCreate), errors.Is(err, storage.ErrFactsWrite):
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, err.Error())
	default:
		h.logger.Error("unhandled store error", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal error")
	}
}
