package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCRMClient
type MockCRMClient struct {
	mock.Mock
}

func (m *MockCRMClient) SyncLead(ctx context.Context, payload LeadCapturedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockMailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendSalesAlert(kind, name, email, serviceType, message string) error {
	args := m.Called(kind, name, email, serviceType, message)
	return args.Error(0)
}

func (m *MockMailer) SendBookingConfirmation(to, name, date, timeSlot, meetingLink string) error {
	args := m.Called(to, name, date, timeSlot, meetingLink)
	return args.Error(0)
}

// TestProcessBookingSendsConfirmationFirst - the prospect's email and
// the CRM sync both fire; a CRM failure does not fail the message
func TestProcessBookingSendsConfirmationFirst(t *testing.T) {
	ctx := context.Background()

	mockCRM := new(MockCRMClient)
	mockMail := new(MockMailer)

	mockMail.On("SendBookingConfirmation", "pedro@example.com", "Pedro Costa",
		"2026-11-20", "10:30", "https://meet.apexbridge.io/xyz").Return(nil)
	mockCRM.On("SyncLead", ctx, mock.Anything).Return(errors.New("crm down"))

	w := NewWorker(nil, mockCRM, mockMail)

	err := w.processMessage(ctx, LeadCapturedPayload{
		LeadID:        "bk-1",
		Kind:          "BOOKING",
		Name:          "Pedro Costa",
		Email:         "pedro@example.com",
		PreferredDate: "2026-11-20",
		PreferredTime: "10:30",
		MeetingLink:   "https://meet.apexbridge.io/xyz",
	})

	assert.NoError(t, err)
	mockMail.AssertExpectations(t)
	mockCRM.AssertExpectations(t)
}

func TestProcessBookingConfirmationFailureDeadLetters(t *testing.T) {
	ctx := context.Background()

	mockMail := new(MockMailer)
	mockMail.On("SendBookingConfirmation", mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	w := NewWorker(nil, nil, mockMail)

	err := w.processMessage(ctx, LeadCapturedPayload{Kind: "BOOKING", Email: "x@example.com"})

	assert.Error(t, err)
}

// TestProcessContactSyncsCRMThenAlerts - a failed sales alert is only
// logged once the CRM already has the lead
func TestProcessContactSyncsCRMThenAlerts(t *testing.T) {
	ctx := context.Background()

	mockCRM := new(MockCRMClient)
	mockMail := new(MockMailer)

	mockCRM.On("SyncLead", ctx, mock.Anything).Return(nil)
	mockMail.On("SendSalesAlert", "CONTACT", "Maria Santos", "maria@example.com",
		"IT_CONSULTING", mock.Anything).Return(errors.New("smtp down"))

	w := NewWorker(nil, mockCRM, mockMail)

	err := w.processMessage(ctx, LeadCapturedPayload{
		Kind:        "CONTACT",
		Name:        "Maria Santos",
		Email:       "maria@example.com",
		ServiceType: "IT_CONSULTING",
	})

	assert.NoError(t, err)
	mockCRM.AssertExpectations(t)
}

func TestProcessContactCRMFailureRetries(t *testing.T) {
	ctx := context.Background()

	mockCRM := new(MockCRMClient)
	mockCRM.On("SyncLead", ctx, mock.Anything).Return(errors.New("crm down"))

	w := NewWorker(nil, mockCRM, nil)

	err := w.processMessage(ctx, LeadCapturedPayload{Kind: "SERVICE_INQUIRY"})

	assert.Error(t, err)
}

func TestProcessApplicationAlertsRecruiting(t *testing.T) {
	ctx := context.Background()

	mockMail := new(MockMailer)
	mockMail.On("SendSalesAlert", "APPLICATION", "Ana Oliveira", "ana@example.com",
		"backend-go-001", mock.Anything).Return(nil)

	w := NewWorker(nil, nil, mockMail)

	err := w.processMessage(ctx, LeadCapturedPayload{
		Kind:   "APPLICATION",
		Name:   "Ana Oliveira",
		Email:  "ana@example.com",
		JobRef: "backend-go-001",
	})

	assert.NoError(t, err)
	mockMail.AssertExpectations(t)
}

// TestProcessUnknownKindDrains - unknown kinds ack so they never clog
// the queue
func TestProcessUnknownKindDrains(t *testing.T) {
	w := NewWorker(nil, nil, nil)

	err := w.processMessage(context.Background(), LeadCapturedPayload{Kind: "MYSTERY"})

	assert.NoError(t, err)
}
