package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// MockRawLeadRepository - Mock para RawLeadRepositoryInterface
type MockRawLeadRepository struct {
	mock.Mock
}

func (m *MockRawLeadRepository) Create(ctx context.Context, raw *entity.RawLead) error {
	args := m.Called(ctx, raw)
	return args.Error(0)
}

func (m *MockRawLeadRepository) FindByID(ctx context.Context, id string) (*entity.RawLead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RawLead), args.Error(1)
}

func (m *MockRawLeadRepository) MarkConverted(ctx context.Context, rawLeadID, leadID string, at time.Time) error {
	args := m.Called(ctx, rawLeadID, leadID, at)
	return args.Error(0)
}

func (m *MockRawLeadRepository) FindUnconvertedOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*entity.RawLead, error) {
	args := m.Called(ctx, cutoff, limit)
	return args.Get(0).([]*entity.RawLead), args.Error(1)
}

// MockLeadRepository - Mock para LeadRepositoryInterface
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Execute(ctx context.Context, input ConvertRawLeadInput) (*ConvertRawLeadOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ConvertRawLeadOutput), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLeadConverted(ctx context.Context, payload queue.LeadConvertedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type fixedInquiry string

func (f fixedInquiry) Next() string { return string(f) }

// countingMetrics records calls without Prometheus.
type countingMetrics struct {
	received, converted, failed, linkFailed int
}

func (c *countingMetrics) RawLeadReceived()  { c.received++ }
func (c *countingMetrics) LeadConverted()    { c.converted++ }
func (c *countingMetrics) ConversionFailed() { c.failed++ }
func (c *countingMetrics) LinkFailed()       { c.linkFailed++ }
