package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrApplicationNotFound = errors.New("application not found")

const (
	ApplicationStatusReceived  = "RECEIVED"
	ApplicationStatusScreening = "SCREENING"
	ApplicationStatusInterview = "INTERVIEW"
	ApplicationStatusOffer     = "OFFER"
	ApplicationStatusRejected  = "REJECTED"
)

const (
	ExperienceJunior    = "JUNIOR"    // 0-2 years
	ExperienceMid       = "MID"       // 2-5 years
	ExperienceSenior    = "SENIOR"    // 5-10 years
	ExperiencePrincipal = "PRINCIPAL" // 10+ years
)

const (
	AvailabilityImmediate  = "IMMEDIATE"
	AvailabilityTwoWeeks   = "TWO_WEEKS"
	AvailabilityOneMonth   = "ONE_MONTH"
	AvailabilityNegotiable = "NEGOTIABLE"
)

// MaxResumeSize is the hard limit for résumé uploads (5 MiB).
const MaxResumeSize = 5242880

var resumeMIMEPrefixes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml",
}

// Resume is the stored reference to the uploaded file, not its bytes.
type Resume struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	StorageKey  string `json:"storage_key"`
}

type JobApplication struct {
	ID           string    `json:"id"`
	JobRef       string    `json:"job_ref"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Location     string    `json:"location"`
	Experience   string    `json:"experience"`
	Availability string    `json:"availability"`
	Resume       Resume    `json:"resume"`
	PortfolioURL string    `json:"portfolio_url,omitempty"`
	LinkedInURL  string    `json:"linkedin_url,omitempty"`
	Consent      bool      `json:"consent"`
	Status       string    `json:"status"`

	IdempotencyKey string `json:"idempotency_key,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewJobApplication enforces the hard preconditions: consent must be
// given and a résumé within limits must be attached.
func NewJobApplication(jobRef, firstName, lastName, email, phone, location, experience, availability string, resume Resume, consent bool) (*JobApplication, error) {
	if !consent {
		return nil, errors.New("consent must be given before submitting")
	}
	if resume.Filename == "" {
		return nil, errors.New("resume is required")
	}
	if err := ValidateResume(resume.ContentType, resume.Size); err != nil {
		return nil, err
	}
	if !IsValidExperience(experience) {
		return nil, errors.New("experience is invalid")
	}
	if !IsValidAvailability(availability) {
		return nil, errors.New("availability is invalid")
	}

	return &JobApplication{
		ID:           uuid.New().String(),
		JobRef:       jobRef,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Phone:        phone,
		Location:     location,
		Experience:   experience,
		Availability: availability,
		Resume:       resume,
		Consent:      consent,
		Status:       ApplicationStatusReceived,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// ValidateResume checks the MIME and size limits shared by the wizard
// step gate and the upload endpoint.
func ValidateResume(contentType string, size int64) error {
	if size > MaxResumeSize {
		return errors.New("resume must not exceed 5MB")
	}
	for _, prefix := range resumeMIMEPrefixes {
		if strings.HasPrefix(contentType, prefix) {
			return nil
		}
	}
	return errors.New("resume must be a PDF or Word document")
}

func IsValidExperience(s string) bool {
	switch s {
	case ExperienceJunior, ExperienceMid, ExperienceSenior, ExperiencePrincipal:
		return true
	}
	return false
}

func IsValidAvailability(s string) bool {
	switch s {
	case AvailabilityImmediate, AvailabilityTwoWeeks, AvailabilityOneMonth, AvailabilityNegotiable:
		return true
	}
	return false
}

func IsValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationStatusReceived, ApplicationStatusScreening, ApplicationStatusInterview,
		ApplicationStatusOffer, ApplicationStatusRejected:
		return true
	}
	return false
}

type ApplicationRepositoryInterface interface {
	Create(ctx context.Context, app *JobApplication) error
	FindByID(ctx context.Context, id string) (*JobApplication, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*JobApplication, error)
	List(ctx context.Context, limit int) ([]*JobApplication, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
