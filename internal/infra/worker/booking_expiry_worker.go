package worker

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// BookingExpiryWorker cancels bookings that sat in SCHEDULED without a
// sales rep confirming them inside the hold window.
type BookingExpiryWorker struct {
	db           *sql.DB
	holdWindow   time.Duration
	tickInterval time.Duration
}

func NewBookingExpiryWorker(db *sql.DB) *BookingExpiryWorker {
	return &BookingExpiryWorker{
		db:           db,
		holdWindow:   48 * time.Hour,
		tickInterval: 15 * time.Minute,
	}
}

func (w *BookingExpiryWorker) Start(ctx context.Context) {
	log.Println("🕒 Booking expiry worker started (48h hold window)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.expireStaleBookings(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Booking expiry worker stopped")
			return
		case <-ticker.C:
			w.expireStaleBookings(ctx)
		}
	}
}

func (w *BookingExpiryWorker) expireStaleBookings(ctx context.Context) {
	query := `
		UPDATE bookings
		SET
			status = 'CANCELLED',
			updated_at = NOW()
		WHERE
			status = 'SCHEDULED'
			AND created_at < NOW() - INTERVAL '48 hours'
		RETURNING id, email, created_at
	`

	rows, err := w.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ Failed to query stale bookings: %v", err)
		return
	}
	defer rows.Close()

	cancelled := 0
	for rows.Next() {
		var bookingID, email string
		var createdAt time.Time

		if err := rows.Scan(&bookingID, &email, &createdAt); err != nil {
			log.Printf("⚠️ Failed to scan stale booking: %v", err)
			continue
		}

		elapsed := time.Since(createdAt)
		log.Printf("⏱️ Booking expired: booking=%s email=%s elapsed=%s",
			bookingID, email, elapsed.Round(time.Hour))
		cancelled++
	}

	if cancelled > 0 {
		log.Printf("✅ %d booking(s) marked as CANCELLED", cancelled)
	}
}
