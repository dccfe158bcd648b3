package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/queue"
)

type CreateBookingUseCase struct {
	BookingRepo entity.BookingRepositoryInterface
	LeadRepo    entity.LeadRepositoryInterface
	Queue       QueueProducerInterface
}

func NewCreateBookingUseCase(
	bookingRepo entity.BookingRepositoryInterface,
	leadRepo entity.LeadRepositoryInterface,
	producer QueueProducerInterface,
) *CreateBookingUseCase {
	return &CreateBookingUseCase{
		BookingRepo: bookingRepo,
		LeadRepo:    leadRepo,
		Queue:       producer,
	}
}

// Execute creates the booking plus its funnel lead row. The two inserts
// run under a compensating transaction so a failed lead insert removes
// the booking again.
func (uc *CreateBookingUseCase) Execute(ctx context.Context, input CreateBookingInput) (*CreateBookingOutput, error) {
	validationErrors := ValidateCreateBookingInput(input)
	if len(validationErrors) > 0 {
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: joinValidationErrors(validationErrors),
		}
	}

	booking, err := entity.NewBooking(
		input.Name,
		input.Email,
		entity.NormalizeEnum(input.ServiceType),
		entity.NormalizeEnum(input.MeetingType),
		input.PreferredDate,
		input.PreferredTime,
		input.Timezone,
	)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_BOOKING", Message: err.Error()}
	}
	booking.Phone = input.Phone
	booking.Company = input.Company
	booking.Notes = input.Notes

	lead := &entity.Lead{
		ID:             uuid.New().String(),
		Kind:           entity.LeadKindBooking,
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Company:        input.Company,
		ServiceType:    booking.ServiceType,
		Message:        input.Notes,
		Status:         entity.LeadStatusNew,
		IdempotencyKey: input.IdempotencyKey,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	booking.LeadID = lead.ID

	txn := NewTransaction()

	txn.AddOperation("create_booking", func(ctx context.Context) error {
		return uc.BookingRepo.Create(ctx, booking)
	})
	txn.AddCompensation("delete_booking", func(ctx context.Context) error {
		return uc.BookingRepo.Delete(ctx, booking.ID)
	})

	txn.AddOperation("create_funnel_lead", func(ctx context.Context) error {
		return uc.LeadRepo.Create(ctx, lead)
	})

	if err := txn.Execute(ctx); err != nil {
		if errors.Is(err, entity.ErrDuplicateSubmission) {
			// The funnel lead from a previous attempt already holds this
			// key; the compensation removed the booking row this attempt
			// just inserted. Answer with the original booking.
			return uc.replay(ctx, input.IdempotencyKey)
		}
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to persist booking: " + err.Error(),
		}
	}

	if uc.Queue != nil {
		payload := queue.LeadCapturedPayload{
			LeadID:        booking.ID,
			Kind:          entity.LeadKindBooking,
			Name:          booking.Name,
			Email:         booking.Email,
			Phone:         booking.Phone,
			Company:       booking.Company,
			ServiceType:   booking.ServiceType,
			MeetingType:   booking.MeetingType,
			PreferredDate: booking.PreferredDate,
			PreferredTime: booking.PreferredTime,
			MeetingLink:   booking.MeetingLink,
			Origin:        "BOOKING_WIZARD",
		}
		if err := uc.Queue.PublishLeadCaptured(ctx, payload); err != nil {
			log.Printf("⚠️ booking %s saved but queue publish failed: %v", booking.ID, err)
		}
	}

	return &CreateBookingOutput{
		ID:          booking.ID,
		LeadID:      booking.LeadID,
		Status:      booking.Status,
		MeetingLink: booking.MeetingLink,
		Message:     "Your consultation is scheduled. A confirmation email is on its way.",
	}, nil
}

// replay resolves the booking the first attempt created through its
// funnel lead's idempotency key, so a retried submission converges on
// the original slot and meeting link.
func (uc *CreateBookingUseCase) replay(ctx context.Context, idempotencyKey string) (*CreateBookingOutput, error) {
	duplicate := &DomainError{
		Code:    "DUPLICATE_SUBMISSION",
		Message: "this request was already received",
	}

	priorLead, err := uc.LeadRepo.FindByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, duplicate
	}
	prior, err := uc.BookingRepo.FindByLeadID(ctx, priorLead.ID)
	if err != nil {
		return nil, duplicate
	}

	log.Printf("🔁 booking submission replayed for key %s -> %s", idempotencyKey, prior.ID)
	return &CreateBookingOutput{
		ID:          prior.ID,
		LeadID:      prior.LeadID,
		Status:      prior.Status,
		MeetingLink: prior.MeetingLink,
		Message:     "Your consultation is scheduled. A confirmation email is on its way.",
	}, nil
}
