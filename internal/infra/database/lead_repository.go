package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			inquiry_number, full_name, status, assigned_to, origin, province, phone,
			pax_count, estimated_travel_date, organization_id, branch_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	err := r.DB.QueryRowContext(
		ctx,
		query,
		lead.InquiryNumber,
		lead.FullName,
		lead.Status,
		nullString(lead.AssignedTo),
		lead.Origin,
		lead.Province,
		lead.Phone,
		lead.PaxCount,
		lead.EstimatedTravelDate,
		lead.OrganizationID,
		lead.BranchID,
	).Scan(
		&lead.ID,
		&lead.CreatedAt,
	)
	if err != nil {
		return mapPQError(err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `
		SELECT id, inquiry_number, full_name, status, assigned_to, origin, province, phone,
			pax_count, estimated_travel_date, organization_id, branch_id, created_at
		FROM leads
		WHERE id = $1
	`

	var (
		lead       entity.Lead
		assignedTo sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&lead.ID,
		&lead.InquiryNumber,
		&lead.FullName,
		&lead.Status,
		&assignedTo,
		&lead.Origin,
		&lead.Province,
		&lead.Phone,
		&lead.PaxCount,
		&lead.EstimatedTravelDate,
		&lead.OrganizationID,
		&lead.BranchID,
		&lead.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		err = mapPQError(err)
		if errors.Is(err, entity.ErrInvalidID) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}

	if assignedTo.Valid {
		lead.AssignedTo = &assignedTo.String
	}
	return &lead, nil
}

// nullString stores blank optional text as NULL.
func nullString(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
