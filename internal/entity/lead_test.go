package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEnum(t *testing.T) {
	assert.Equal(t, "STAFF_AUGMENTATION", NormalizeEnum("staff-augmentation"))
	assert.Equal(t, "VIDEO_CALL", NormalizeEnum("video-call"))
	assert.Equal(t, "IN_PERSON", NormalizeEnum("in-person"))
	assert.Equal(t, "TWO_WEEKS", NormalizeEnum(" two-weeks "))
	// Canonical values pass through unchanged
	assert.Equal(t, "CYBERSECURITY", NormalizeEnum("CYBERSECURITY"))
	assert.Equal(t, "", NormalizeEnum(""))
}

func TestNewLeadValidContact(t *testing.T) {
	lead, err := NewLead(LeadKindContact, "Maria Santos", "maria@example.com",
		"IT_CONSULTING", "We need help with our infrastructure.")

	assert.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, LeadStatusNew, lead.Status)
}

func TestNewLeadUnknownService(t *testing.T) {
	_, err := NewLead(LeadKindContact, "Maria Santos", "maria@example.com",
		"ASTROLOGY", "We need help with our infrastructure.")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "service_type")
}

func TestNewLeadMessageRuleByKind(t *testing.T) {
	// CONTACT demands a real message
	_, err := NewLead(LeadKindContact, "Maria Santos", "maria@example.com",
		"IT_CONSULTING", "short")
	assert.Error(t, err)

	// SERVICE_INQUIRY does not
	lead, err := NewLead(LeadKindServiceInquiry, "Maria Santos", "maria@example.com",
		"IT_CONSULTING", "")
	assert.NoError(t, err)
	assert.Equal(t, LeadKindServiceInquiry, lead.Kind)
}

func TestNewBookingMintsMeetingLinkOnce(t *testing.T) {
	booking, err := NewBooking("Pedro Costa", "pedro@example.com",
		"CLOUD_SERVICES", "VIDEO_CALL", "2026-11-20", "10:30", "UTC")

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(booking.MeetingLink, "https://meet.apexbridge.io/"))
	assert.Equal(t, BookingStatusScheduled, booking.Status)

	other, err := NewBooking("Pedro Costa", "pedro@example.com",
		"CLOUD_SERVICES", "VIDEO_CALL", "2026-11-20", "10:30", "UTC")
	assert.NoError(t, err)
	assert.NotEqual(t, booking.MeetingLink, other.MeetingLink)
}

func TestNewBookingRejectsBadDate(t *testing.T) {
	_, err := NewBooking("Pedro Costa", "pedro@example.com",
		"CLOUD_SERVICES", "VIDEO_CALL", "20-11-2026", "10:30", "UTC")
	assert.Error(t, err)
}

func TestValidateResume(t *testing.T) {
	assert.NoError(t, ValidateResume("application/pdf", 1024))
	assert.NoError(t, ValidateResume("application/msword", 1024))
	assert.NoError(t, ValidateResume("application/vnd.openxmlformats-officedocument.wordprocessingml.document", 1024))

	assert.Error(t, ValidateResume("image/png", 1024))
	assert.Error(t, ValidateResume("application/pdf", MaxResumeSize+1))
	// Exactly at the limit is fine
	assert.NoError(t, ValidateResume("application/pdf", MaxResumeSize))
}

func TestNewJobApplicationRequiresConsent(t *testing.T) {
	resume := Resume{Filename: "cv.pdf", ContentType: "application/pdf", Size: 1024}

	_, err := NewJobApplication("", "Ana", "Oliveira", "ana@example.com",
		"+55 11 98888-7777", "São Paulo", "SENIOR", "IMMEDIATE", resume, false)
	assert.Error(t, err)

	app, err := NewJobApplication("", "Ana", "Oliveira", "ana@example.com",
		"+55 11 98888-7777", "São Paulo", "SENIOR", "IMMEDIATE", resume, true)
	assert.NoError(t, err)
	assert.Equal(t, ApplicationStatusReceived, app.Status)
}
