package database

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/lib/pq"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
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
			id, kind, name, email, phone, company, service_type,
			message, budget, timeline, status, idempotency_key,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13, $14)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Kind,
		lead.Name,
		lead.Email,
		nullString(lead.Phone),
		nullString(lead.Company),
		lead.ServiceType,
		lead.Message,
		nullString(lead.Budget),
		nullString(lead.Timeline),
		lead.Status,
		lead.IdempotencyKey,
		lead.CreatedAt,
		lead.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// Unique violation on idempotency_key: the same submission
			// attempt already landed.
			return entity.ErrDuplicateSubmission
		}

		log.Printf("❌ lead insert failed: %v", err)
		return err
	}

	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `
		SELECT id, kind, name, email,
			COALESCE(phone, ''), COALESCE(company, ''),
			service_type, message,
			COALESCE(budget, ''), COALESCE(timeline, ''),
			status, COALESCE(idempotency_key, ''),
			created_at, updated_at
		FROM leads WHERE id = $1
	`

	var lead entity.Lead
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&lead.ID, &lead.Kind, &lead.Name, &lead.Email,
		&lead.Phone, &lead.Company,
		&lead.ServiceType, &lead.Message,
		&lead.Budget, &lead.Timeline,
		&lead.Status, &lead.IdempotencyKey,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}

	return &lead, nil
}

// FindByIdempotencyKey loads the lead a previous attempt with the same
// client key already persisted, so a retried submission can be
// answered with the original row instead of an error.
func (r *LeadRepository) FindByIdempotencyKey(ctx context.Context, key string) (*entity.Lead, error) {
	if key == "" {
		return nil, entity.ErrLeadNotFound
	}

	query := `
		SELECT id, kind, name, email,
			COALESCE(phone, ''), COALESCE(company, ''),
			service_type, message,
			COALESCE(budget, ''), COALESCE(timeline, ''),
			status, COALESCE(idempotency_key, ''),
			created_at, updated_at
		FROM leads WHERE idempotency_key = $1
	`

	var lead entity.Lead
	err := r.DB.QueryRowContext(ctx, query, key).Scan(
		&lead.ID, &lead.Kind, &lead.Name, &lead.Email,
		&lead.Phone, &lead.Company,
		&lead.ServiceType, &lead.Message,
		&lead.Budget, &lead.Timeline,
		&lead.Status, &lead.IdempotencyKey,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}

	return &lead, nil
}

// List returns newest-first leads, optionally filtered by kind.
func (r *LeadRepository) List(ctx context.Context, kind string, limit int) ([]*entity.Lead, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, kind, name, email,
			COALESCE(phone, ''), COALESCE(company, ''),
			service_type, message,
			COALESCE(budget, ''), COALESCE(timeline, ''),
			status, COALESCE(idempotency_key, ''),
			created_at, updated_at
		FROM leads
		WHERE ($1 = '' OR kind = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, kind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		var lead entity.Lead
		if err := rows.Scan(
			&lead.ID, &lead.Kind, &lead.Name, &lead.Email,
			&lead.Phone, &lead.Company,
			&lead.ServiceType, &lead.Message,
			&lead.Budget, &lead.Timeline,
			&lead.Status, &lead.IdempotencyKey,
			&lead.CreatedAt, &lead.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leads = append(leads, &lead)
	}

	return leads, rows.Err()
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE leads SET status = $1, updated_at = NOW() WHERE id = $2`

	res, err := r.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// Clear is the administrative wipe. Nothing else deletes leads.
func (r *LeadRepository) Clear(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
