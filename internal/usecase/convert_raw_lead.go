package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// Candidate keys per canonical field, in priority order. Lead-ad forms are
// built by hand per campaign so the same field shows up under several names.
var (
	fullNameKeys   = []string{"full_name", "nombre_completo", "name", "nombre"}
	phoneKeys      = []string{"phone_number", "phone", "telefono", "celular", "whatsapp"}
	provinceKeys   = []string{"province", "provincia", "state", "ciudad", "city"}
	travelDateKeys = []string{"travel_date", "fecha_de_viaje", "fecha_viaje", "fecha"}
	originKeys     = []string{"origin", "origen", "source", "utm_source"}
	paxKeys        = []string{"pax", "pax_count", "passengers", "cantidad_de_pasajeros", "pasajeros"}
)

type ConvertRawLeadConfig struct {
	// FallbackAssignee is used when the sender does not name an assignee.
	FallbackAssignee string
	DefaultOrigin    string
}

type ConvertRawLeadUseCase struct {
	LeadRepo    entity.LeadRepositoryInterface
	RawLeadRepo entity.RawLeadRepositoryInterface
	Inquiry     InquiryNumberSource
	Events      LeadEventPublisher
	Metrics     Metrics
	Config      ConvertRawLeadConfig
	Logger      *zap.Logger
	Now         func() time.Time
}

func NewConvertRawLeadUseCase(
	leadRepo entity.LeadRepositoryInterface,
	rawLeadRepo entity.RawLeadRepositoryInterface,
	inquiry InquiryNumberSource,
	events LeadEventPublisher,
	metrics Metrics,
	cfg ConvertRawLeadConfig,
	logger *zap.Logger,
) *ConvertRawLeadUseCase {
	if cfg.DefaultOrigin == "" {
		cfg.DefaultOrigin = entity.DefaultOrigin
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConvertRawLeadUseCase{
		LeadRepo:    leadRepo,
		RawLeadRepo: rawLeadRepo,
		Inquiry:     inquiry,
		Events:      events,
		Metrics:     metrics,
		Config:      cfg,
		Logger:      logger.With(zap.String("component", "convert_raw_lead")),
		Now:         time.Now,
	}
}

// BuildLead maps a raw payload onto a new Lead without touching the store.
func (uc *ConvertRawLeadUseCase) BuildLead(input ConvertRawLeadInput) *entity.Lead {
	src := NewFieldSource(input.Payload)

	pax, _ := Extract(src, paxKeys...)

	return &entity.Lead{
		InquiryNumber:       uc.Inquiry.Next(),
		FullName:            extractOr(src, entity.DefaultFullName, fullNameKeys),
		Status:              entity.LeadStatusNew,
		AssignedTo:          uc.assignee(input.AssignedTo),
		Origin:              extractOr(src, uc.Config.DefaultOrigin, originKeys),
		Province:            extractOr(src, "", provinceKeys),
		Phone:               extractOr(src, "", phoneKeys),
		PaxCount:            ParsePaxCount(pax),
		EstimatedTravelDate: extractOr(src, entity.DefaultTravelDate, travelDateKeys),
		Tenant:              input.Tenant,
	}
}

func (uc *ConvertRawLeadUseCase) Execute(ctx context.Context, input ConvertRawLeadInput) (*ConvertRawLeadOutput, error) {
	logger := uc.Logger.With(zap.String("raw_lead_id", input.RawLeadID))

	lead := uc.BuildLead(input)
	if err := lead.Validate(); err != nil {
		uc.Metrics.ConversionFailed()
		return nil, NewConversionError(input.RawLeadID, err)
	}

	if err := uc.LeadRepo.Create(ctx, lead); err != nil {
		uc.Metrics.ConversionFailed()
		logger.Error("lead insert failed, raw lead left unconverted", zap.Error(err))
		return nil, NewConversionError(input.RawLeadID, err)
	}
	uc.Metrics.LeadConverted()

	out := &ConvertRawLeadOutput{Lead: lead, Linked: true}

	// The lead is committed at this point; a failed back-link is reported
	// and left for reconciliation rather than failing the conversion.
	convertedAt := uc.Now().UTC()
	if err := uc.RawLeadRepo.MarkConverted(ctx, input.RawLeadID, lead.ID, convertedAt); err != nil {
		out.Linked = false
		uc.Metrics.LinkFailed()
		logger.Warn("lead created but raw lead not marked converted",
			zap.String("lead_id", lead.ID),
			zap.Error(err),
		)
	}

	uc.publish(ctx, lead, input.RawLeadID, convertedAt, logger)

	logger.Info("raw lead converted",
		zap.String("lead_id", lead.ID),
		zap.String("inquiry_number", lead.InquiryNumber),
		zap.Bool("linked", out.Linked),
	)
	return out, nil
}

func (uc *ConvertRawLeadUseCase) publish(ctx context.Context, lead *entity.Lead, rawLeadID string, at time.Time, logger *zap.Logger) {
	if uc.Events == nil {
		return
	}
	payload := queue.LeadConvertedPayload{
		EventID:        uuid.NewString(),
		LeadID:         lead.ID,
		RawLeadID:      rawLeadID,
		InquiryNumber:  lead.InquiryNumber,
		OrganizationID: lead.OrganizationID,
		BranchID:       lead.BranchID,
		FullName:       lead.FullName,
		Phone:          lead.Phone,
		Origin:         lead.Origin,
		AssignedTo:     lead.AssignedTo,
		ConvertedAt:    at,
	}
	if err := uc.Events.PublishLeadConverted(ctx, payload); err != nil {
		logger.Warn("lead converted event not published", zap.String("lead_id", lead.ID), zap.Error(err))
	}
}

func (uc *ConvertRawLeadUseCase) assignee(requested *string) *string {
	if requested != nil && strings.TrimSpace(*requested) != "" {
		v := strings.TrimSpace(*requested)
		return &v
	}
	if uc.Config.FallbackAssignee == "" {
		return nil
	}
	v := uc.Config.FallbackAssignee
	return &v
}

func extractOr(src FieldSource, def string, keys []string) string {
	candidates := append(append([]string(nil), keys...), def)
	if v, ok := Extract(src, candidates...); ok {
		return v
	}
	return def
}
