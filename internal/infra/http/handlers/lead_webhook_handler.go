package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const defaultMaxBodyBytes = 1 << 20

type LeadIngester interface {
	Execute(ctx context.Context, input usecase.IngestRawLeadInput) (*usecase.IngestRawLeadOutput, error)
}

type LeadWebhookHandler struct {
	Ingest       LeadIngester
	Secret       string
	MaxBodyBytes int64
	Logger       *zap.Logger
}

type LeadWebhookResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	LeadID    string `json:"lead_id,omitempty"`
	RawLeadID string `json:"raw_lead_id"`
}

func NewLeadWebhookHandler(ingest LeadIngester, secret string, maxBodyBytes int64, logger *zap.Logger) *LeadWebhookHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadWebhookHandler{
		Ingest:       ingest,
		Secret:       secret,
		MaxBodyBytes: maxBodyBytes,
		Logger:       logger.With(zap.String("component", "lead_webhook")),
	}
}

// Handle is mounted for every method: the secret is checked before the
// method so unauthenticated callers learn nothing about the route.
func (h *LeadWebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !middleware.SecretMatches(h.Secret, r.Header.Get(middleware.WebhookSecretHeader)) {
		h.Logger.Warn("webhook rejected: bad secret", zap.String("remote_ip", r.RemoteAddr))
		writeError(w, errUnauthorized)
		return
	}

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, errMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, errPayloadTooLarge)
			return
		}
		writeError(w, errInvalidPayload)
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	var input usecase.IngestRawLeadInput
	if err := json.Unmarshal(body, &input); err != nil {
		writeError(w, errInvalidPayload)
		return
	}

	out, err := h.Ingest.Execute(r.Context(), input)
	if err != nil {
		if usecase.IsTechnicalError(err) {
			h.Logger.Error("webhook failed", zap.Error(err))
		}
		writeError(w, err)
		return
	}

	resp := LeadWebhookResponse{
		Success:   true,
		Message:   "Lead received",
		RawLeadID: out.RawLeadID,
	}
	if out.Converted {
		resp.Message = "Lead received and converted"
		resp.LeadID = out.LeadID
	}
	writeJSON(w, http.StatusOK, resp)
}
