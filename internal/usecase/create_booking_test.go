package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
)

// TestCreateBookingSuccess - booking and funnel lead both persisted,
// meeting link minted exactly once
func TestCreateBookingSuccess(t *testing.T) {
	ctx := context.Background()

	mockBookings := new(MockBookingRepository)
	mockLeads := new(MockLeadRepository)
	mockQueue := new(MockQueueProducer)

	var savedBooking *entity.Booking
	var savedLead *entity.Lead

	mockBookings.On("Create", ctx, mock.AnythingOfType("*entity.Booking")).
		Run(func(args mock.Arguments) {
			savedBooking = args.Get(1).(*entity.Booking)
		}).Return(nil)
	mockLeads.On("Create", ctx, mock.AnythingOfType("*entity.Lead")).
		Run(func(args mock.Arguments) {
			savedLead = args.Get(1).(*entity.Lead)
		}).Return(nil)
	mockQueue.On("PublishLeadCaptured", ctx, mock.Anything).Return(nil)

	uc := NewCreateBookingUseCase(mockBookings, mockLeads, mockQueue)

	output, err := uc.Execute(ctx, validBookingInput())

	assert.NoError(t, err)
	assert.Equal(t, entity.BookingStatusScheduled, output.Status)
	assert.True(t, strings.HasPrefix(output.MeetingLink, "https://meet.apexbridge.io/"))
	assert.Equal(t, savedBooking.MeetingLink, output.MeetingLink)

	// Funnel lead mirrors the booking contact and carries the BOOKING kind
	assert.Equal(t, entity.LeadKindBooking, savedLead.Kind)
	assert.Equal(t, savedLead.ID, savedBooking.LeadID)
	assert.Equal(t, savedBooking.Email, savedLead.Email)

	mockBookings.AssertExpectations(t)
	mockLeads.AssertExpectations(t)
}

// TestCreateBookingNormalizesEnums - the form sends kebab-case values
func TestCreateBookingNormalizesEnums(t *testing.T) {
	ctx := context.Background()

	mockBookings := new(MockBookingRepository)
	mockLeads := new(MockLeadRepository)

	var savedBooking *entity.Booking
	mockBookings.On("Create", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			savedBooking = args.Get(1).(*entity.Booking)
		}).Return(nil)
	mockLeads.On("Create", ctx, mock.Anything).Return(nil)

	uc := NewCreateBookingUseCase(mockBookings, mockLeads, nil)

	input := validBookingInput()
	input.ServiceType = "it-consulting"
	input.MeetingType = "video-call"

	_, err := uc.Execute(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, "IT_CONSULTING", savedBooking.ServiceType)
	assert.Equal(t, "VIDEO_CALL", savedBooking.MeetingType)
}

// TestCreateBookingLeadFailureRollsBackBooking - the compensating
// transaction removes the booking when the funnel lead insert fails
func TestCreateBookingLeadFailureRollsBackBooking(t *testing.T) {
	ctx := context.Background()

	mockBookings := new(MockBookingRepository)
	mockLeads := new(MockLeadRepository)

	mockBookings.On("Create", ctx, mock.Anything).Return(nil)
	mockBookings.On("Delete", ctx, mock.AnythingOfType("string")).Return(nil)
	mockLeads.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))

	uc := NewCreateBookingUseCase(mockBookings, mockLeads, nil)

	_, err := uc.Execute(ctx, validBookingInput())

	assert.Error(t, err)
	assert.True(t, IsTechnicalError(err))
	mockBookings.AssertCalled(t, "Delete", ctx, mock.AnythingOfType("string"))
}

// TestCreateBookingRetryReplaysOriginal - the first attempt landed but
// the response was lost; the retry hits the funnel lead's key conflict,
// the duplicate booking row is compensated away, and the answer carries
// the original booking and meeting link
func TestCreateBookingRetryReplaysOriginal(t *testing.T) {
	ctx := context.Background()
	key := "aaaa-bbbb-cccc-dddd"

	priorLead := &entity.Lead{
		ID:             "lead-1",
		Kind:           entity.LeadKindBooking,
		IdempotencyKey: key,
	}
	priorBooking := &entity.Booking{
		ID:          "booking-1",
		LeadID:      "lead-1",
		Status:      entity.BookingStatusScheduled,
		MeetingLink: "https://meet.apexbridge.io/original",
	}

	mockBookings := new(MockBookingRepository)
	mockLeads := new(MockLeadRepository)

	mockBookings.On("Create", ctx, mock.Anything).Return(nil)
	mockBookings.On("Delete", ctx, mock.AnythingOfType("string")).Return(nil)
	mockLeads.On("Create", ctx, mock.Anything).Return(entity.ErrDuplicateSubmission)
	mockLeads.On("FindByIdempotencyKey", ctx, key).Return(priorLead, nil)
	mockBookings.On("FindByLeadID", ctx, "lead-1").Return(priorBooking, nil)

	uc := NewCreateBookingUseCase(mockBookings, mockLeads, nil)

	input := validBookingInput()
	input.IdempotencyKey = key

	output, err := uc.Execute(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, "booking-1", output.ID)
	assert.Equal(t, "https://meet.apexbridge.io/original", output.MeetingLink)
	// This attempt's booking row was rolled back before the replay.
	mockBookings.AssertCalled(t, "Delete", ctx, mock.AnythingOfType("string"))
}

func TestCreateBookingValidationFailure(t *testing.T) {
	ctx := context.Background()

	mockBookings := new(MockBookingRepository)
	uc := NewCreateBookingUseCase(mockBookings, new(MockLeadRepository), nil)

	input := validBookingInput()
	input.MeetingType = "carrier-pigeon"

	_, err := uc.Execute(ctx, input)

	assert.Error(t, err)
	assert.True(t, IsDomainError(err))
	mockBookings.AssertNotCalled(t, "Create")
}
