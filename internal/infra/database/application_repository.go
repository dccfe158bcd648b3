package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
)

type ApplicationRepository struct {
	DB *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{DB: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *entity.JobApplication) error {
	query := `
		INSERT INTO job_applications (
			id, job_ref, first_name, last_name, email, phone, location,
			experience, availability,
			resume_filename, resume_content_type, resume_size, resume_storage_key,
			portfolio_url, linkedin_url, consent, status, idempotency_key,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NULLIF($18, ''), $19, $20)
	`

	_, err := r.DB.ExecContext(ctx, query,
		app.ID,
		nullString(app.JobRef),
		app.FirstName,
		app.LastName,
		app.Email,
		app.Phone,
		app.Location,
		app.Experience,
		app.Availability,
		app.Resume.Filename,
		app.Resume.ContentType,
		app.Resume.Size,
		nullString(app.Resume.StorageKey),
		nullString(app.PortfolioURL),
		nullString(app.LinkedInURL),
		app.Consent,
		app.Status,
		app.IdempotencyKey,
		app.CreatedAt,
		app.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrDuplicateSubmission
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// FindByIdempotencyKey loads the application a previous attempt with
// the same client key already persisted.
func (r *ApplicationRepository) FindByIdempotencyKey(ctx context.Context, key string) (*entity.JobApplication, error) {
	if key == "" {
		return nil, entity.ErrApplicationNotFound
	}

	query := selectApplication + ` WHERE idempotency_key = $1`

	var app entity.JobApplication
	err := r.DB.QueryRowContext(ctx, query, key).Scan(applicationFields(&app)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrApplicationNotFound
		}
		return nil, err
	}

	return &app, nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*entity.JobApplication, error) {
	query := selectApplication + ` WHERE id = $1`

	var app entity.JobApplication
	err := r.DB.QueryRowContext(ctx, query, id).Scan(applicationFields(&app)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrApplicationNotFound
		}
		return nil, err
	}

	return &app, nil
}

func (r *ApplicationRepository) List(ctx context.Context, limit int) ([]*entity.JobApplication, error) {
	if limit <= 0 {
		limit = 100
	}

	query := selectApplication + ` ORDER BY created_at DESC LIMIT $1`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*entity.JobApplication
	for rows.Next() {
		var app entity.JobApplication
		if err := rows.Scan(applicationFields(&app)...); err != nil {
			return nil, err
		}
		apps = append(apps, &app)
	}

	return apps, rows.Err()
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE job_applications SET status = $1, updated_at = NOW() WHERE id = $2`

	res, err := r.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrApplicationNotFound
	}
	return nil
}

const selectApplication = `
	SELECT id, COALESCE(job_ref, ''), first_name, last_name, email, phone, location,
		experience, availability,
		resume_filename, resume_content_type, resume_size, COALESCE(resume_storage_key, ''),
		COALESCE(portfolio_url, ''), COALESCE(linkedin_url, ''), consent, status,
		COALESCE(idempotency_key, ''),
		created_at, updated_at
	FROM job_applications
`

func applicationFields(app *entity.JobApplication) []any {
	return []any{
		&app.ID, &app.JobRef, &app.FirstName, &app.LastName, &app.Email, &app.Phone, &app.Location,
		&app.Experience, &app.Availability,
		&app.Resume.Filename, &app.Resume.ContentType, &app.Resume.Size, &app.Resume.StorageKey,
		&app.PortfolioURL, &app.LinkedInURL, &app.Consent, &app.Status,
		&app.IdempotencyKey,
		&app.CreatedAt, &app.UpdatedAt,
	}
}
