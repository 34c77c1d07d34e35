package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type InquiryNumberSource interface {
	Next() string
}

type LeadEventPublisher interface {
	PublishLeadConverted(ctx context.Context, payload queue.LeadConvertedPayload) error
}

// LeadConverter is the conversion step as seen by the ingestion path.
type LeadConverter interface {
	Execute(ctx context.Context, input ConvertRawLeadInput) (*ConvertRawLeadOutput, error)
}

// Metrics receives pipeline outcomes. The Prometheus implementation lives in
// infra/http/middleware.
type Metrics interface {
	RawLeadReceived()
	LeadConverted()
	ConversionFailed()
	LinkFailed()
}

type noopMetrics struct{}

func (noopMetrics) RawLeadReceived()  {}
func (noopMetrics) LeadConverted()    {}
func (noopMetrics) ConversionFailed() {}
func (noopMetrics) LinkFailed()       {}
