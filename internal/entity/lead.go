package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDuplicateSubmission = errors.New("a lead with this idempotency key already exists")
	ErrLeadNotFound        = errors.New("lead not found")
)

// Lead kinds. CONTACT and SERVICE_INQUIRY share the leads table;
// bookings get their own row plus a funnel lead (see Booking).
const (
	LeadKindContact        = "CONTACT"
	LeadKindServiceInquiry = "SERVICE_INQUIRY"
	LeadKindBooking        = "BOOKING"
)

// Lead statuses. Only back-office staff move a lead past NEW.
const (
	LeadStatusNew       = "NEW"
	LeadStatusContacted = "CONTACTED"
	LeadStatusQualified = "QUALIFIED"
	LeadStatusConverted = "CONVERTED"
	LeadStatusClosed    = "CLOSED"
)

// ServiceTypes is the canonical enumeration in wire casing. Public
// forms submit kebab-case slugs; see NormalizeEnum.
var ServiceTypes = []string{
	"STAFF_AUGMENTATION",
	"DEDICATED_TEAMS",
	"IT_CONSULTING",
	"SOFTWARE_DEVELOPMENT",
	"CLOUD_SERVICES",
	"CYBERSECURITY",
}

type Lead struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Company        string    `json:"company,omitempty"`
	ServiceType    string    `json:"service_type"`
	Message        string    `json:"message"`
	Budget         string    `json:"budget,omitempty"`
	Timeline       string    `json:"timeline,omitempty"`
	Status         string    `json:"status"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewLead(kind, name, email, serviceType, message string) (*Lead, error) {
	lead := &Lead{
		ID:          uuid.New().String(),
		Kind:        kind,
		Name:        name,
		Email:       email,
		ServiceType: serviceType,
		Message:     message,
		Status:      LeadStatusNew,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Kind != LeadKindContact && l.Kind != LeadKindServiceInquiry && l.Kind != LeadKindBooking {
		return errors.New("kind is invalid")
	}
	if len(strings.TrimSpace(l.Name)) < 2 {
		return errors.New("name must have at least 2 characters")
	}
	if l.Email == "" {
		return errors.New("email is required")
	}
	if !IsValidServiceType(l.ServiceType) {
		return errors.New("service_type is invalid")
	}
	if l.Kind == LeadKindContact && len(strings.TrimSpace(l.Message)) < 10 {
		return errors.New("message must have at least 10 characters")
	}
	return nil
}

func IsValidServiceType(s string) bool {
	for _, t := range ServiceTypes {
		if s == t {
			return true
		}
	}
	return false
}

// NormalizeEnum uplifts a public kebab-case slug to wire casing,
// e.g. "staff-augmentation" -> "STAFF_AUGMENTATION" and
// "video-call" -> "VIDEO_CALL". Canonical values pass through unchanged.
func NormalizeEnum(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
}

func IsValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusClosed:
		return true
	}
	return false
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*Lead, error)
	List(ctx context.Context, kind string, limit int) ([]*Lead, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) (int64, error)
}
