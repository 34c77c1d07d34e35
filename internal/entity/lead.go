package entity

import (
	"context"
	"errors"
	"time"
)

const (
	LeadStatusNew = "new"

	DefaultFullName   = "no name"
	DefaultTravelDate = "not specified"
	DefaultOrigin     = "Facebook Ads"
	DefaultPaxCount   = 1
)

var ErrLeadNotFound = errors.New("lead not found")

// Lead is the canonical CRM sales inquiry.
type Lead struct {
	ID                  string    `json:"id"`
	InquiryNumber       string    `json:"inquiry_number"`
	FullName            string    `json:"full_name"`
	Status              string    `json:"status"`
	AssignedTo          *string   `json:"assigned_to"`
	Origin              string    `json:"origin"`
	Province            string    `json:"province"`
	Phone               string    `json:"phone"`
	PaxCount            int       `json:"pax_count"`
	EstimatedTravelDate string    `json:"estimated_travel_date"`
	Tenant
	CreatedAt time.Time `json:"created_at"`
}

func (l *Lead) Validate() error {
	if l.InquiryNumber == "" {
		return errors.New("inquiry_number is required")
	}
	if l.PaxCount < 1 {
		return errors.New("pax_count must be positive")
	}
	return l.Tenant.Validate()
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
}
