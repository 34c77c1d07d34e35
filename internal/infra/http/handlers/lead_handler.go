package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const (
	defaultOlderThan = 30 * time.Minute
	maxListLimit     = 500
)

// LeadHandler serves read-only lookups used by operators and reconciliation.
type LeadHandler struct {
	leadRepo    entity.LeadRepositoryInterface
	rawLeadRepo entity.RawLeadRepositoryInterface
	now         func() time.Time
}

func NewLeadHandler(leadRepo entity.LeadRepositoryInterface, rawLeadRepo entity.RawLeadRepositoryInterface) *LeadHandler {
	return &LeadHandler{
		leadRepo:    leadRepo,
		rawLeadRepo: rawLeadRepo,
		now:         time.Now,
	}
}

func (h *LeadHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := h.leadRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			writeError(w, domainError(usecase.CodeNotFound, "Lead not found"))
			return
		}
		writeError(w, usecase.NewPersistenceError("Failed to load lead", err))
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) GetRawLead(w http.ResponseWriter, r *http.Request) {
	raw, err := h.rawLeadRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, entity.ErrRawLeadNotFound) {
			writeError(w, domainError(usecase.CodeNotFound, "Raw lead not found"))
			return
		}
		writeError(w, usecase.NewPersistenceError("Failed to load raw lead", err))
		return
	}
	writeJSON(w, http.StatusOK, raw)
}

type UnconvertedResponse struct {
	Cutoff   time.Time         `json:"cutoff"`
	Count    int               `json:"count"`
	RawLeads []*entity.RawLead `json:"raw_leads"`
}

// ListUnconverted reports captures that never received a Lead, e.g. after a
// failed conversion or a lost back-link.
func (h *LeadHandler) ListUnconverted(w http.ResponseWriter, r *http.Request) {
	olderThan := defaultOlderThan
	if v := r.URL.Query().Get("older_than"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			writeError(w, usecase.NewValidationError([]usecase.ValidationError{{Field: "older_than", Message: "must be a duration like 30m"}}))
			return
		}
		olderThan = d
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, usecase.NewValidationError([]usecase.ValidationError{{Field: "limit", Message: "must be a positive integer"}}))
			return
		}
		limit = min(n, maxListLimit)
	}

	cutoff := h.now().UTC().Add(-olderThan)
	raws, err := h.rawLeadRepo.FindUnconvertedOlderThan(r.Context(), cutoff, limit)
	if err != nil {
		writeError(w, usecase.NewPersistenceError("Failed to list raw leads", err))
		return
	}
	if raws == nil {
		raws = []*entity.RawLead{}
	}

	writeJSON(w, http.StatusOK, UnconvertedResponse{Cutoff: cutoff, Count: len(raws), RawLeads: raws})
}
