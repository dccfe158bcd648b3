package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(strings.TrimSpace(input.Name)) < 2 {
		errors = append(errors, ValidationError{"name", "must have at least 2 characters"})
	} else if len(input.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if !isValidEmail(input.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if strings.TrimSpace(input.ServiceType) == "" {
		errors = append(errors, ValidationError{"service_type", "is required"})
	} else if !entity.IsValidServiceType(entity.NormalizeEnum(input.ServiceType)) {
		errors = append(errors, ValidationError{"service_type", "is not a known service"})
	}

	if input.Kind == entity.LeadKindContact {
		if strings.TrimSpace(input.Message) == "" {
			errors = append(errors, ValidationError{"message", "is required"})
		} else if len(strings.TrimSpace(input.Message)) < 10 {
			errors = append(errors, ValidationError{"message", "must have at least 10 characters"})
		}
	}

	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	return errors
}

func ValidateCreateBookingInput(input CreateBookingInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(strings.TrimSpace(input.Name)) < 2 {
		errors = append(errors, ValidationError{"name", "must have at least 2 characters"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if !isValidEmail(input.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if strings.TrimSpace(input.ServiceType) == "" {
		errors = append(errors, ValidationError{"service_type", "is required"})
	} else if !entity.IsValidServiceType(entity.NormalizeEnum(input.ServiceType)) {
		errors = append(errors, ValidationError{"service_type", "is not a known service"})
	}

	if strings.TrimSpace(input.MeetingType) == "" {
		errors = append(errors, ValidationError{"meeting_type", "is required"})
	} else if !entity.IsValidMeetingType(entity.NormalizeEnum(input.MeetingType)) {
		errors = append(errors, ValidationError{"meeting_type", "must be video-call, phone-call or in-person"})
	}

	// The date only has to be a real calendar date; booking in the past
	// is accepted, matching the original form behavior.
	if strings.TrimSpace(input.PreferredDate) == "" {
		errors = append(errors, ValidationError{"preferred_date", "is required"})
	} else if !isValidDate(input.PreferredDate) {
		errors = append(errors, ValidationError{"preferred_date", "must be a valid date (YYYY-MM-DD)"})
	}

	if strings.TrimSpace(input.PreferredTime) == "" {
		errors = append(errors, ValidationError{"preferred_time", "is required"})
	}

	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	return errors
}

func ValidateSubmitApplicationInput(input SubmitApplicationInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.FirstName) == "" {
		errors = append(errors, ValidationError{"first_name", "is required"})
	}
	if strings.TrimSpace(input.LastName) == "" {
		errors = append(errors, ValidationError{"last_name", "is required"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if !isValidEmail(input.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if strings.TrimSpace(input.Phone) == "" {
		errors = append(errors, ValidationError{"phone", "is required"})
	} else if !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	if strings.TrimSpace(input.Location) == "" {
		errors = append(errors, ValidationError{"location", "is required"})
	}

	if strings.TrimSpace(input.Experience) == "" {
		errors = append(errors, ValidationError{"experience", "is required"})
	} else if !entity.IsValidExperience(entity.NormalizeEnum(input.Experience)) {
		errors = append(errors, ValidationError{"experience", "is not a known experience band"})
	}

	if strings.TrimSpace(input.Availability) == "" {
		errors = append(errors, ValidationError{"availability", "is required"})
	} else if !entity.IsValidAvailability(entity.NormalizeEnum(input.Availability)) {
		errors = append(errors, ValidationError{"availability", "is not a known availability"})
	}

	if input.ResumeFilename == "" {
		errors = append(errors, ValidationError{"resume", "is required"})
	} else if err := entity.ValidateResume(input.ResumeContentType, input.ResumeSize); err != nil {
		errors = append(errors, ValidationError{"resume", err.Error()})
	}

	if !input.Consent {
		errors = append(errors, ValidationError{"consent", "must be accepted"})
	}

	return errors
}

func ValidateLoginInput(username, password string) []ValidationError {
	var errors []ValidationError
	if strings.TrimSpace(username) == "" {
		errors = append(errors, ValidationError{"username", "is required"})
	}
	if password == "" {
		errors = append(errors, ValidationError{"password", "is required"})
	}
	return errors
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func isValidPhoneNumber(phone string) bool {
	cleaned := regexp.MustCompile(`\D`).ReplaceAllString(phone, "")
	return len(cleaned) >= 7 && len(cleaned) <= 15
}

func isValidDate(dateStr string) bool {
	if _, err := time.Parse("2006-01-02", dateStr); err == nil {
		return true
	}
	if _, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return true
	}
	return false
}
