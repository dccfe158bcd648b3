// Package leadapi is the submission pipeline: it takes a wizard's
// validated field values, shapes them into the persistence API's wire
// format and reports the outcome. Failures are terminal per attempt;
// the user retries by submitting again.
package leadapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
	"github.com/prakashdas-pd/apexbridge-leads/internal/usecase"
	"github.com/prakashdas-pd/apexbridge-leads/internal/wizard"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Submit(ctx context.Context, kind wizard.Kind, values map[string]string, file *wizard.FileMeta, idempotencyKey string) (*wizard.Result, error) {
	var (
		path    string
		payload any
	)

	switch kind {
	case wizard.KindContact, wizard.KindServiceInquiry:
		leadKind := entity.LeadKindContact
		path = "/api/leads/contact"
		if kind == wizard.KindServiceInquiry {
			leadKind = entity.LeadKindServiceInquiry
			path = "/api/leads/service-inquiry"
		}
		payload = contactRequest{
			Kind:           leadKind,
			Name:           values["name"],
			Email:          values["email"],
			Phone:          values["phone"],
			Company:        values["company"],
			ServiceType:    entity.NormalizeEnum(values["service_type"]),
			Message:        values["message"],
			Budget:         values["budget"],
			Timeline:       values["timeline"],
			IdempotencyKey: idempotencyKey,
		}

	case wizard.KindBooking:
		path = "/api/leads/booking"
		payload = bookingRequest{
			Name:           values["name"],
			Email:          values["email"],
			Phone:          values["phone"],
			Company:        values["company"],
			ServiceType:    entity.NormalizeEnum(values["service_type"]),
			MeetingType:    entity.NormalizeEnum(values["meeting_type"]),
			PreferredDate:  values["preferred_date"],
			PreferredTime:  values["preferred_time"],
			Timezone:       values["timezone"],
			Notes:          values["notes"],
			IdempotencyKey: idempotencyKey,
		}

	case wizard.KindApplication:
		path = "/api/careers/applications"
		consent, _ := strconv.ParseBool(values["consent"])
		req := applicationRequest{
			IdempotencyKey: idempotencyKey,
			JobRef:         values["job_ref"],
			FirstName:      values["first_name"],
			LastName:       values["last_name"],
			Email:          values["email"],
			Phone:          values["phone"],
			Location:       values["location"],
			Experience:     entity.NormalizeEnum(values["experience"]),
			Availability:   entity.NormalizeEnum(values["availability"]),
			PortfolioURL:   values["portfolio_url"],
			LinkedInURL:    values["linkedin_url"],
			Consent:        consent,
		}
		if file != nil {
			req.ResumeFilename = file.Filename
			req.ResumeContentType = file.ContentType
			req.ResumeSize = file.Size
			req.ResumeStorageKey = file.StorageKey
		}
		payload = req

	default:
		return nil, fmt.Errorf("unsupported wizard kind: %s", kind)
	}

	return c.post(ctx, path, payload)
}

func (c *Client) post(ctx context.Context, path string, payload any) (*wizard.Result, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lead API request failed: %w", err)
	}
	defer resp.Body.Close()

	var body apiResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr != nil {
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return nil, fmt.Errorf("failed to decode lead API response: %w", decodeErr)
		}
		// Non-2xx with an unreadable body still maps to a Failure the
		// wizard can show.
		return &wizard.Result{
			Success: false,
			Message: fmt.Sprintf("request rejected (status %d)", resp.StatusCode),
		}, nil
	}

	result := &wizard.Result{
		Success:     body.Success && resp.StatusCode >= 200 && resp.StatusCode <= 299,
		Message:     body.Message,
		ID:          body.ID,
		MeetingLink: body.MeetingLink,
	}
	if result.Message == "" {
		result.Message = body.Error
	}
	if !result.Success && result.Message == "" {
		result.Message = "submission was rejected, please review the form and try again"
	}
	for _, e := range body.Errors {
		result.FieldErrors = append(result.FieldErrors, usecase.ValidationError{
			Field:   e.Field,
			Message: e.Message,
		})
	}

	return result, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ApexBridgeWizard/1.0")
}
