package usecase

import "github.com/xavierca1/ligue-crm/internal/entity"

// IngestRawLeadInput is the webhook body.
type IngestRawLeadInput struct {
	OrganizationID string         `json:"organization_id" validate:"notblank"`
	BranchID       string         `json:"branch_id" validate:"notblank"`
	FormID         string         `json:"form_id" validate:"notblank"`
	PageID         string         `json:"page_id,omitempty"`
	FacebookLeadID string         `json:"facebook_lead_id,omitempty"`
	LeadData       map[string]any `json:"lead_data" validate:"required,min=1"`
	AutoConvert    *bool          `json:"auto_convert,omitempty"`
	AssignedTo     *string        `json:"assigned_to,omitempty"`
}

func (in IngestRawLeadInput) WantsConversion() bool {
	return in.AutoConvert != nil && *in.AutoConvert
}

type IngestRawLeadOutput struct {
	RawLeadID string
	LeadID    string
	Converted bool
}

type ConvertRawLeadInput struct {
	RawLeadID  string
	Tenant     entity.Tenant
	Payload    map[string]any
	AssignedTo *string
}

type ConvertRawLeadOutput struct {
	Lead *entity.Lead
	// Linked is false when the lead exists but the raw lead back-reference
	// could not be written.
	Linked bool
}
