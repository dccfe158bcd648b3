package usecase

import (
	"context"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/queue"
)

type CreateLeadInput struct {
	Kind           string `json:"kind"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Company        string `json:"company"`
	ServiceType    string `json:"service_type"`
	Message        string `json:"message"`
	Budget         string `json:"budget"`
	Timeline       string `json:"timeline"`
	IdempotencyKey string `json:"idempotency_key"`
}

type CreateLeadOutput struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type CreateBookingInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Company        string `json:"company"`
	ServiceType    string `json:"service_type"`
	MeetingType    string `json:"meeting_type"`
	PreferredDate  string `json:"preferred_date"`
	PreferredTime  string `json:"preferred_time"`
	Timezone       string `json:"timezone"`
	Notes          string `json:"notes"`
	IdempotencyKey string `json:"idempotency_key"`
}

type CreateBookingOutput struct {
	ID          string `json:"id"`
	LeadID      string `json:"lead_id"`
	Status      string `json:"status"`
	MeetingLink string `json:"meeting_link"`
	Message     string `json:"message"`
}

type SubmitApplicationInput struct {
	JobRef         string `json:"job_ref"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Location       string `json:"location"`
	Experience     string `json:"experience"`
	Availability   string `json:"availability"`
	PortfolioURL   string `json:"portfolio_url"`
	LinkedInURL    string `json:"linkedin_url"`
	Consent        bool   `json:"consent"`
	IdempotencyKey string `json:"idempotency_key"`

	ResumeFilename    string `json:"resume_filename"`
	ResumeContentType string `json:"resume_content_type"`
	ResumeSize        int64  `json:"resume_size"`
	ResumeStorageKey  string `json:"resume_storage_key"`
}

type SubmitApplicationOutput struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type QueueProducerInterface interface {
	PublishLeadCaptured(ctx context.Context, payload queue.LeadCapturedPayload) error
}

// TokenIssuer signs a session token for an already-authenticated
// session record. Implemented with JWT in infra.
type TokenIssuer interface {
	Issue(session *entity.AdminSession) (string, error)
}
