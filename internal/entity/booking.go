package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrBookingNotFound = errors.New("booking not found")

const (
	BookingStatusScheduled = "SCHEDULED"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCompleted = "COMPLETED"
	BookingStatusCancelled = "CANCELLED"
)

const (
	MeetingTypeVideoCall = "VIDEO_CALL"
	MeetingTypePhoneCall = "PHONE_CALL"
	MeetingTypeInPerson  = "IN_PERSON"
)

const meetingLinkBase = "https://meet.apexbridge.io/"

type Booking struct {
	ID            string    `json:"id"`
	LeadID        string    `json:"lead_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Company       string    `json:"company,omitempty"`
	ServiceType   string    `json:"service_type"`
	MeetingType   string    `json:"meeting_type"`
	PreferredDate string    `json:"preferred_date"` // YYYY-MM-DD
	PreferredTime string    `json:"preferred_time"`
	Timezone      string    `json:"timezone"`
	Notes         string    `json:"notes,omitempty"`
	MeetingLink   string    `json:"meeting_link"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewBooking mints the meeting link exactly once. The link never
// changes after creation, even across status transitions.
func NewBooking(name, email, serviceType, meetingType, preferredDate, preferredTime, timezone string) (*Booking, error) {
	if !IsValidMeetingType(meetingType) {
		return nil, errors.New("meeting_type is invalid")
	}
	if !IsValidServiceType(serviceType) {
		return nil, errors.New("service_type is invalid")
	}
	if _, err := time.Parse("2006-01-02", preferredDate); err != nil {
		return nil, errors.New("preferred_date must be a valid date (YYYY-MM-DD)")
	}

	return &Booking{
		ID:            uuid.New().String(),
		Name:          name,
		Email:         email,
		ServiceType:   serviceType,
		MeetingType:   meetingType,
		PreferredDate: preferredDate,
		PreferredTime: preferredTime,
		Timezone:      timezone,
		MeetingLink:   meetingLinkBase + uuid.New().String(),
		Status:        BookingStatusScheduled,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}, nil
}

func IsValidMeetingType(s string) bool {
	switch s {
	case MeetingTypeVideoCall, MeetingTypePhoneCall, MeetingTypeInPerson:
		return true
	}
	return false
}

func IsValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusScheduled, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

type BookingRepositoryInterface interface {
	Create(ctx context.Context, booking *Booking) error
	FindByID(ctx context.Context, id string) (*Booking, error)
	FindByLeadID(ctx context.Context, leadID string) (*Booking, error)
	List(ctx context.Context, limit int) ([]*Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}
