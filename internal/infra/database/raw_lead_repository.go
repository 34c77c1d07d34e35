package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const rawLeadColumns = `id, external_lead_id, form_id, page_id, organization_id, branch_id, payload,
		processed, converted_to_lead, linked_lead_id, conversion_timestamp, created_at`

type RawLeadRepository struct {
	DB *sql.DB
}

func NewRawLeadRepository(db *sql.DB) *RawLeadRepository {
	return &RawLeadRepository{DB: db}
}

func (r *RawLeadRepository) Create(ctx context.Context, raw *entity.RawLead) error {
	payload, err := json.Marshal(raw.Payload)
	if err != nil {
		return fmt.Errorf("erro ao serializar payload: %w", err)
	}

	query := `
		INSERT INTO raw_leads (external_lead_id, form_id, page_id, organization_id, branch_id, payload, processed, converted_to_lead, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, FALSE, $7)
		RETURNING id, created_at
	`
	err = r.DB.QueryRowContext(ctx, query,
		raw.ExternalLeadID,
		raw.FormID,
		raw.PageID,
		raw.OrganizationID,
		raw.BranchID,
		string(payload),
		raw.CreatedAt,
	).Scan(&raw.ID, &raw.CreatedAt)
	if err != nil {
		return mapPQError(err)
	}
	return nil
}

func (r *RawLeadRepository) FindByID(ctx context.Context, id string) (*entity.RawLead, error) {
	query := `SELECT ` + rawLeadColumns + ` FROM raw_leads WHERE id = $1`

	raw, err := scanRawLead(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrRawLeadNotFound
		}
		err = mapPQError(err)
		if errors.Is(err, entity.ErrInvalidID) {
			return nil, entity.ErrRawLeadNotFound
		}
		return nil, err
	}
	return raw, nil
}

// MarkConverted only flips rows that are still unconverted, so a second
// conversion attempt cannot overwrite the first link.
func (r *RawLeadRepository) MarkConverted(ctx context.Context, rawLeadID, leadID string, at time.Time) error {
	query := `
		UPDATE raw_leads
		SET
			processed = TRUE,
			converted_to_lead = TRUE,
			linked_lead_id = $2,
			conversion_timestamp = $3
		WHERE id = $1 AND converted_to_lead = FALSE
	`
	res, err := r.DB.ExecContext(ctx, query, rawLeadID, leadID, at)
	if err != nil {
		return mapPQError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var converted bool
	err = r.DB.QueryRowContext(ctx, `SELECT converted_to_lead FROM raw_leads WHERE id = $1`, rawLeadID).Scan(&converted)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrRawLeadNotFound
	}
	if err != nil {
		return mapPQError(err)
	}
	return entity.ErrRawLeadAlreadyConverted
}

// FindUnconvertedOlderThan backs reconciliation: captures that never got a
// Lead, oldest first.
func (r *RawLeadRepository) FindUnconvertedOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*entity.RawLead, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + rawLeadColumns + `
		FROM raw_leads
		WHERE converted_to_lead = FALSE AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, cutoff, limit)
	if err != nil {
		return nil, mapPQError(err)
	}
	defer rows.Close()

	var out []*entity.RawLead
	for rows.Next() {
		raw, err := scanRawLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRawLead(row rowScanner) (*entity.RawLead, error) {
	var (
		raw          entity.RawLead
		payload      []byte
		linkedLeadID sql.NullString
		convertedAt  sql.NullTime
	)
	err := row.Scan(
		&raw.ID,
		&raw.ExternalLeadID,
		&raw.FormID,
		&raw.PageID,
		&raw.OrganizationID,
		&raw.BranchID,
		&payload,
		&raw.Processed,
		&raw.ConvertedToLead,
		&linkedLeadID,
		&convertedAt,
		&raw.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &raw.Payload); err != nil {
			return nil, fmt.Errorf("payload inválido no raw lead %s: %w", raw.ID, err)
		}
	}
	if linkedLeadID.Valid {
		raw.LinkedLeadID = &linkedLeadID.String
	}
	if convertedAt.Valid {
		raw.ConversionTimestamp = &convertedAt.Time
	}
	return &raw, nil
}
