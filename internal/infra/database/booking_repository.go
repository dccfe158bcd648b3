package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
)

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

func (r *BookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (
			id, lead_id, name, email, phone, company,
			service_type, meeting_type, preferred_date, preferred_time,
			timezone, notes, meeting_link, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.DB.ExecContext(ctx, query,
		booking.ID,
		nullString(booking.LeadID),
		booking.Name,
		booking.Email,
		nullString(booking.Phone),
		nullString(booking.Company),
		booking.ServiceType,
		booking.MeetingType,
		booking.PreferredDate,
		booking.PreferredTime,
		booking.Timezone,
		nullString(booking.Notes),
		booking.MeetingLink,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	query := `
		SELECT id, COALESCE(lead_id, ''), name, email,
			COALESCE(phone, ''), COALESCE(company, ''),
			service_type, meeting_type, preferred_date, preferred_time,
			timezone, COALESCE(notes, ''), meeting_link, status,
			created_at, updated_at
		FROM bookings WHERE id = $1
	`

	var b entity.Booking
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.LeadID, &b.Name, &b.Email,
		&b.Phone, &b.Company,
		&b.ServiceType, &b.MeetingType, &b.PreferredDate, &b.PreferredTime,
		&b.Timezone, &b.Notes, &b.MeetingLink, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

// FindByLeadID resolves a booking through its funnel lead row. The
// replay path uses it: a retried booking submission only has the lead's
// idempotency key to go on.
func (r *BookingRepository) FindByLeadID(ctx context.Context, leadID string) (*entity.Booking, error) {
	if leadID == "" {
		return nil, entity.ErrBookingNotFound
	}

	query := `
		SELECT id, COALESCE(lead_id, ''), name, email,
			COALESCE(phone, ''), COALESCE(company, ''),
			service_type, meeting_type, preferred_date, preferred_time,
			timezone, COALESCE(notes, ''), meeting_link, status,
			created_at, updated_at
		FROM bookings WHERE lead_id = $1
	`

	var b entity.Booking
	err := r.DB.QueryRowContext(ctx, query, leadID).Scan(
		&b.ID, &b.LeadID, &b.Name, &b.Email,
		&b.Phone, &b.Company,
		&b.ServiceType, &b.MeetingType, &b.PreferredDate, &b.PreferredTime,
		&b.Timezone, &b.Notes, &b.MeetingLink, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

func (r *BookingRepository) List(ctx context.Context, limit int) ([]*entity.Booking, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, COALESCE(lead_id, ''), name, email,
			COALESCE(phone, ''), COALESCE(company, ''),
			service_type, meeting_type, preferred_date, preferred_time,
			timezone, COALESCE(notes, ''), meeting_link, status,
			created_at, updated_at
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		var b entity.Booking
		if err := rows.Scan(
			&b.ID, &b.LeadID, &b.Name, &b.Email,
			&b.Phone, &b.Company,
			&b.ServiceType, &b.MeetingType, &b.PreferredDate, &b.PreferredTime,
			&b.Timezone, &b.Notes, &b.MeetingLink, &b.Status,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, &b)
	}

	return bookings, rows.Err()
}

// UpdateStatus never touches meeting_link: the link is minted once at
// creation and stays put.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`

	res, err := r.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrBookingNotFound
	}
	return nil
}
