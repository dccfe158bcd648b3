package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/queue"
)

type SubmitApplicationUseCase struct {
	Repo  entity.ApplicationRepositoryInterface
	Queue QueueProducerInterface
}

func NewSubmitApplicationUseCase(
	repo entity.ApplicationRepositoryInterface,
	producer QueueProducerInterface,
) *SubmitApplicationUseCase {
	return &SubmitApplicationUseCase{
		Repo:  repo,
		Queue: producer,
	}
}

func (uc *SubmitApplicationUseCase) Execute(ctx context.Context, input SubmitApplicationInput) (*SubmitApplicationOutput, error) {
	validationErrors := ValidateSubmitApplicationInput(input)
	if len(validationErrors) > 0 {
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: joinValidationErrors(validationErrors),
		}
	}

	resume := entity.Resume{
		Filename:    input.ResumeFilename,
		ContentType: input.ResumeContentType,
		Size:        input.ResumeSize,
		StorageKey:  input.ResumeStorageKey,
	}

	app, err := entity.NewJobApplication(
		input.JobRef,
		input.FirstName,
		input.LastName,
		input.Email,
		input.Phone,
		input.Location,
		entity.NormalizeEnum(input.Experience),
		entity.NormalizeEnum(input.Availability),
		resume,
		input.Consent,
	)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_APPLICATION", Message: err.Error()}
	}
	app.PortfolioURL = input.PortfolioURL
	app.LinkedInURL = input.LinkedInURL
	app.IdempotencyKey = input.IdempotencyKey

	if err := uc.Repo.Create(ctx, app); err != nil {
		if errors.Is(err, entity.ErrDuplicateSubmission) {
			return uc.replay(ctx, input.IdempotencyKey)
		}
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to persist application: " + err.Error(),
		}
	}

	if uc.Queue != nil {
		payload := queue.LeadCapturedPayload{
			LeadID: app.ID,
			Kind:   "APPLICATION",
			Name:   app.FirstName + " " + app.LastName,
			Email:  app.Email,
			Phone:  app.Phone,
			JobRef: app.JobRef,
			Origin: "CAREERS_WIZARD",
		}
		if err := uc.Queue.PublishLeadCaptured(ctx, payload); err != nil {
			log.Printf("⚠️ application %s saved but queue publish failed: %v", app.ID, err)
		}
	}

	return &SubmitApplicationOutput{
		ID:      app.ID,
		Status:  app.Status,
		Message: "Application received. Our recruiting team will be in touch.",
	}, nil
}

// replay answers a retried submission with the application the first
// attempt persisted.
func (uc *SubmitApplicationUseCase) replay(ctx context.Context, idempotencyKey string) (*SubmitApplicationOutput, error) {
	existing, err := uc.Repo.FindByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, &DomainError{
			Code:    "DUPLICATE_SUBMISSION",
			Message: "this request was already received",
		}
	}

	log.Printf("🔁 application submission replayed for key %s -> %s", idempotencyKey, existing.ID)
	return &SubmitApplicationOutput{
		ID:      existing.ID,
		Status:  existing.Status,
		Message: "Application received. Our recruiting team will be in touch.",
	}, nil
}
