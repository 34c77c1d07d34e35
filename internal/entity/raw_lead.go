package entity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultPageID is stored when the sender does not identify the originating page.
const DefaultPageID = "make_webhook"

var (
	ErrRawLeadNotFound = errors.New("raw lead not found")
	// ErrRawLeadAlreadyConverted is returned by MarkConverted when the row was
	// already linked to a Lead. Conversion fields only move forward.
	ErrRawLeadAlreadyConverted = errors.New("raw lead already converted")
)

// RawLead is the append-only capture of an inbound webhook delivery.
type RawLead struct {
	ID             string         `json:"id"`
	ExternalLeadID string         `json:"external_lead_id"`
	FormID         string         `json:"form_id"`
	PageID         string         `json:"page_id"`
	Tenant                        // organization_id / branch_id
	Payload        map[string]any `json:"payload"`

	Processed           bool       `json:"processed"`
	ConvertedToLead     bool       `json:"converted_to_lead"`
	LinkedLeadID        *string    `json:"linked_lead_id,omitempty"`
	ConversionTimestamp *time.Time `json:"conversion_timestamp,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// NewRawLead builds an unprocessed capture. A missing external id is
// synthesized from the capture time, so it is not unique across senders.
func NewRawLead(tenant Tenant, formID, pageID, externalLeadID string, payload map[string]any, now time.Time) (*RawLead, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}
	formID = strings.TrimSpace(formID)
	if formID == "" {
		return nil, errors.New("form_id is required")
	}
	if len(payload) == 0 {
		return nil, errors.New("lead_data is required")
	}

	if strings.TrimSpace(pageID) == "" {
		pageID = DefaultPageID
	}
	if strings.TrimSpace(externalLeadID) == "" {
		externalLeadID = fmt.Sprintf("make_%d", now.UnixMilli())
	}

	return &RawLead{
		ExternalLeadID: externalLeadID,
		FormID:         formID,
		PageID:         pageID,
		Tenant:         tenant,
		Payload:        payload,
		CreatedAt:      now,
	}, nil
}

type RawLeadRepositoryInterface interface {
	Create(ctx context.Context, raw *RawLead) error
	FindByID(ctx context.Context, id string) (*RawLead, error)
	// MarkConverted sets processed, converted_to_lead, linked_lead_id and
	// conversion_timestamp on a row that is still unconverted.
	MarkConverted(ctx context.Context, rawLeadID, leadID string, at time.Time) error
	FindUnconvertedOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*RawLead, error)
}
