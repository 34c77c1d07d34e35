package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// IngestRawLeadUseCase captures a webhook delivery and, when asked, converts
// it in the same call. Capture is never rolled back because of conversion.
// Deliveries are not deduplicated: a repeated facebook_lead_id yields a
// second raw lead row.
type IngestRawLeadUseCase struct {
	RawLeadRepo entity.RawLeadRepositoryInterface
	Converter   LeadConverter
	Metrics     Metrics
	Logger      *zap.Logger
	Now         func() time.Time
}

func NewIngestRawLeadUseCase(
	rawLeadRepo entity.RawLeadRepositoryInterface,
	converter LeadConverter,
	metrics Metrics,
	logger *zap.Logger,
) *IngestRawLeadUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestRawLeadUseCase{
		RawLeadRepo: rawLeadRepo,
		Converter:   converter,
		Metrics:     metrics,
		Logger:      logger.With(zap.String("component", "ingest_raw_lead")),
		Now:         time.Now,
	}
}

// Execute returns a partial output alongside a conversion error so callers
// can still report the captured raw lead id.
func (uc *IngestRawLeadUseCase) Execute(ctx context.Context, input IngestRawLeadInput) (*IngestRawLeadOutput, error) {
	if verrs := ValidateIngestRawLeadInput(input); len(verrs) > 0 {
		return nil, NewValidationError(verrs)
	}

	tenant, err := entity.NewTenant(input.OrganizationID, input.BranchID)
	if err != nil {
		return nil, NewValidationError([]ValidationError{{Field: "tenant", Message: err.Error()}})
	}

	raw, err := entity.NewRawLead(tenant, input.FormID, input.PageID, input.FacebookLeadID, input.LeadData, uc.Now().UTC())
	if err != nil {
		return nil, NewValidationError([]ValidationError{{Field: "body", Message: err.Error()}})
	}

	if err := uc.RawLeadRepo.Create(ctx, raw); err != nil {
		if errors.Is(err, entity.ErrUnknownTenant) || errors.Is(err, entity.ErrInvalidID) {
			return nil, NewValidationError([]ValidationError{{Field: "organization_id", Message: "unknown organization or branch"}})
		}
		uc.Logger.Error("raw lead insert failed",
			zap.String("external_lead_id", raw.ExternalLeadID),
			zap.String("organization_id", tenant.OrganizationID),
			zap.Error(err),
		)
		return nil, NewPersistenceError("Failed to store raw lead", err)
	}
	uc.Metrics.RawLeadReceived()

	logger := uc.Logger.With(zap.String("raw_lead_id", raw.ID))
	logger.Info("raw lead captured",
		zap.String("external_lead_id", raw.ExternalLeadID),
		zap.String("form_id", raw.FormID),
		zap.Bool("auto_convert", input.WantsConversion()),
	)

	out := &IngestRawLeadOutput{RawLeadID: raw.ID}
	if !input.WantsConversion() {
		return out, nil
	}

	res, err := uc.Converter.Execute(ctx, ConvertRawLeadInput{
		RawLeadID:  raw.ID,
		Tenant:     tenant,
		Payload:    raw.Payload,
		AssignedTo: input.AssignedTo,
	})
	if err != nil {
		return out, err
	}

	out.LeadID = res.Lead.ID
	out.Converted = true
	return out, nil
}
