package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/queue"
)

type CreateLeadUseCase struct {
	Repo  entity.LeadRepositoryInterface
	Queue QueueProducerInterface
}

func NewCreateLeadUseCase(
	repo entity.LeadRepositoryInterface,
	producer QueueProducerInterface,
) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		Repo:  repo,
		Queue: producer,
	}
}

// Execute persists a contact or service-inquiry lead. The idempotency
// key makes a user-retried submission safe: a second insert with the
// same key is answered with the row the first attempt created, never a
// second row. The retry path matters when the first response was lost
// in transit and the client resubmits the same key.
func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*CreateLeadOutput, error) {
	validationErrors := ValidateCreateLeadInput(input)
	if len(validationErrors) > 0 {
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: joinValidationErrors(validationErrors),
		}
	}

	lead, err := entity.NewLead(
		input.Kind,
		input.Name,
		input.Email,
		entity.NormalizeEnum(input.ServiceType),
		input.Message,
	)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_LEAD", Message: err.Error()}
	}

	lead.Phone = input.Phone
	lead.Company = input.Company
	lead.Budget = input.Budget
	lead.Timeline = input.Timeline
	lead.IdempotencyKey = input.IdempotencyKey

	if err := uc.Repo.Create(ctx, lead); err != nil {
		if errors.Is(err, entity.ErrDuplicateSubmission) {
			return uc.replay(ctx, input.IdempotencyKey)
		}
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to persist lead: " + err.Error(),
		}
	}

	if uc.Queue != nil {
		payload := queue.LeadCapturedPayload{
			LeadID:      lead.ID,
			Kind:        lead.Kind,
			Name:        lead.Name,
			Email:       lead.Email,
			Phone:       lead.Phone,
			Company:     lead.Company,
			ServiceType: lead.ServiceType,
			Message:     lead.Message,
			Origin:      "WEBSITE_FORM",
		}
		if err := uc.Queue.PublishLeadCaptured(ctx, payload); err != nil {
			// Lead is safe in the database; notifications can lag.
			log.Printf("⚠️ lead %s saved but queue publish failed: %v", lead.ID, err)
		}
	}

	return &CreateLeadOutput{
		ID:      lead.ID,
		Status:  lead.Status,
		Message: "Thanks for reaching out! Our team will contact you shortly.",
	}, nil
}

// replay answers a retried submission with the lead the first attempt
// persisted. The notification was already published back then, so the
// queue is not touched.
func (uc *CreateLeadUseCase) replay(ctx context.Context, idempotencyKey string) (*CreateLeadOutput, error) {
	existing, err := uc.Repo.FindByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, &DomainError{
			Code:    "DUPLICATE_SUBMISSION",
			Message: "this request was already received",
		}
	}

	log.Printf("🔁 lead submission replayed for key %s -> %s", idempotencyKey, existing.ID)
	return &CreateLeadOutput{
		ID:      existing.ID,
		Status:  existing.Status,
		Message: "Thanks for reaching out! Our team will contact you shortly.",
	}, nil
}

func joinValidationErrors(errs []ValidationError) string {
	msg := "validation failed: "
	for _, e := range errs {
		msg += e.Field + " (" + e.Message + "), "
	}
	return msg
}
